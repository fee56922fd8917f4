package runtime

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

var (
	ErrAccountDataTooShort          = errors.New("account data too short for discriminator")
	ErrAccountDiscriminatorMismatch = errors.New("account discriminator mismatch")
	ErrAccountDataTooLarge          = errors.New("serialized account exceeds allocated space")
)

// InstructionDiscriminator derives the 8-byte dispatch tag for an
// instruction: sha256("global:<name>") truncated to 8 bytes.
func InstructionDiscriminator(name string) [8]byte {
	return discriminator("global:" + name)
}

// AccountDiscriminator derives the 8-byte type tag for an account record:
// sha256("account:<TypeName>") truncated to 8 bytes.
func AccountDiscriminator(typeName string) [8]byte {
	return discriminator("account:" + typeName)
}

func discriminator(preimage string) [8]byte {
	hash := sha256.Sum256([]byte(preimage))
	var disc [8]byte
	copy(disc[:], hash[:8])
	return disc
}

// EncodeAccount serializes a record as discriminator + borsh fields, padded
// with zeros to the allocated space.
func EncodeAccount(disc [8]byte, v interface{}, space int) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(disc[:])
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode account: %w", err)
	}
	if buf.Len() > space {
		return nil, fmt.Errorf("%w: %d > %d", ErrAccountDataTooLarge, buf.Len(), space)
	}
	out := make([]byte, space)
	copy(out, buf.Bytes())
	return out, nil
}

// DecodeAccount checks the discriminator and decodes the borsh fields.
// Trailing zero padding from the fixed allocation is tolerated.
func DecodeAccount(disc [8]byte, data []byte, v interface{}) error {
	if len(data) < 8 {
		return ErrAccountDataTooShort
	}
	if !bytes.Equal(data[:8], disc[:]) {
		return ErrAccountDiscriminatorMismatch
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(v); err != nil {
		return fmt.Errorf("failed to decode account: %w", err)
	}
	return nil
}

// HasDiscriminator reports whether data begins with the given type tag.
func HasDiscriminator(disc [8]byte, data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[:8], disc[:])
}
