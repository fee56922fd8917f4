// Package envelope implements the memo-carried intent protocol: a borsh
// BurnMemo envelope, base64-framed into a memo instruction, cross-checked
// against the instruction arguments by every program that burns or mints.
package envelope

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
)

// BurnMemoVersion is the only envelope version accepted. Unknown versions
// are rejected outright.
const BurnMemoVersion = 1

// Envelope size rules. The borsh fixed overhead is version (1) +
// burn_amount (8) + payload length prefix (4).
const (
	BorshFixedOverhead = 13
	MaxDecodedSize     = 800
	MaxPayloadLength   = MaxDecodedSize - BorshFixedOverhead // 787
)

var (
	ErrNotUTF8            = errors.New("memo data is not valid UTF-8")
	ErrInvalidBase64      = errors.New("memo data is not valid base64")
	ErrDecodedTooLarge    = errors.New("decoded memo data exceeds size limit")
	ErrInvalidFormat      = errors.New("memo is not a valid borsh envelope")
	ErrUnsupportedVersion = errors.New("unsupported envelope version")
	ErrPayloadTooLong     = errors.New("envelope payload too long")
)

// BurnMemo is the binary envelope carried inside a memo instruction.
type BurnMemo struct {
	Version    uint8
	BurnAmount uint64
	Payload    []byte
}

// Marshal serializes the envelope in borsh form.
func (m *BurnMemo) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalBase64 serializes the envelope and frames it as the ASCII base64
// text a memo instruction carries.
func (m *BurnMemo) MarshalBase64() ([]byte, error) {
	raw, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	return []byte(base64.StdEncoding.EncodeToString(raw)), nil
}

// Unmarshal decodes a borsh envelope, requiring every input byte to be
// consumed.
func Unmarshal(data []byte) (*BurnMemo, error) {
	memo := new(BurnMemo)
	dec := bin.NewBorshDecoder(data)
	if err := dec.Decode(memo); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, err)
	}
	if dec.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidFormat, dec.Remaining())
	}
	return memo, nil
}

// Decode parses memo instruction data: UTF-8 text, base64-decoded, size
// capped, then borsh-decoded. The version is checked; the burn amount and
// payload are the caller's to reconcile.
func Decode(memoData []byte) (*BurnMemo, error) {
	if !utf8.Valid(memoData) {
		return nil, ErrNotUTF8
	}
	raw, err := base64.StdEncoding.DecodeString(string(memoData))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBase64, err)
	}
	if len(raw) > MaxDecodedSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrDecodedTooLarge, len(raw), MaxDecodedSize)
	}
	memo, err := Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	if memo.Version != BurnMemoVersion {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, memo.Version, BurnMemoVersion)
	}
	if len(memo.Payload) > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLong, len(memo.Payload), MaxPayloadLength)
	}
	return memo, nil
}

// UnmarshalPayload decodes a typed payload record out of an envelope,
// requiring every payload byte to be consumed.
func UnmarshalPayload(payload []byte, v interface{}) error {
	dec := bin.NewBorshDecoder(payload)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, err)
	}
	if dec.Remaining() != 0 {
		return fmt.Errorf("%w: %d trailing payload bytes", ErrInvalidFormat, dec.Remaining())
	}
	return nil
}

// MarshalPayload serializes a typed payload record for embedding in an
// envelope.
func MarshalPayload(v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return buf.Bytes(), nil
}
