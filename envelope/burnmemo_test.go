package envelope_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memocore/envelope"
)

func TestBurnMemoRoundTrip(t *testing.T) {
	memo := &envelope.BurnMemo{
		Version:    envelope.BurnMemoVersion,
		BurnAmount: 420_000_000,
		Payload:    bytes.Repeat([]byte{0xab}, 64),
	}
	encoded, err := memo.MarshalBase64()
	require.NoError(t, err)

	decoded, err := envelope.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, memo.Version, decoded.Version)
	assert.Equal(t, memo.BurnAmount, decoded.BurnAmount)
	assert.Equal(t, memo.Payload, decoded.Payload)
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	memo := &envelope.BurnMemo{Version: 1, BurnAmount: 1_000_000, Payload: make([]byte, 64)}
	raw, err := memo.Marshal()
	require.NoError(t, err)
	raw = append(raw, 0x01)

	encoded := []byte(base64.StdEncoding.EncodeToString(raw))
	_, err = envelope.Decode(encoded)
	assert.ErrorIs(t, err, envelope.ErrInvalidFormat)
}

func TestDecodeRejectsBadBase64(t *testing.T) {
	_, err := envelope.Decode([]byte("not-valid-base64!!!"))
	assert.ErrorIs(t, err, envelope.ErrInvalidBase64)
}

func TestDecodeRejectsNonUTF8(t *testing.T) {
	_, err := envelope.Decode([]byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, envelope.ErrNotUTF8)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	memo := &envelope.BurnMemo{Version: 2, BurnAmount: 1_000_000, Payload: make([]byte, 64)}
	encoded, err := memo.MarshalBase64()
	require.NoError(t, err)

	_, err = envelope.Decode(encoded)
	assert.ErrorIs(t, err, envelope.ErrUnsupportedVersion)
}

func TestDecodeRejectsOversizedEnvelope(t *testing.T) {
	// 13 bytes overhead + 788 payload bytes puts the decoded size at 801.
	memo := &envelope.BurnMemo{Version: 1, BurnAmount: 1_000_000, Payload: make([]byte, 788)}
	encoded, err := memo.MarshalBase64()
	require.NoError(t, err)

	_, err = envelope.Decode(encoded)
	assert.ErrorIs(t, err, envelope.ErrDecodedTooLarge)
}

func TestDecodeAcceptsMaxDecodedSize(t *testing.T) {
	memo := &envelope.BurnMemo{Version: 1, BurnAmount: 1_000_000, Payload: make([]byte, envelope.MaxPayloadLength)}
	encoded, err := memo.MarshalBase64()
	require.NoError(t, err)

	decoded, err := envelope.Decode(encoded)
	require.NoError(t, err)
	assert.Len(t, decoded.Payload, envelope.MaxPayloadLength)
}

func TestValidateLengthBounds(t *testing.T) {
	cases := []struct {
		name    string
		length  int
		wantErr error
	}{
		{"empty", 0, envelope.ErrMemoEmpty},
		{"one under minimum", envelope.MemoMinLength - 1, envelope.ErrMemoTooShort},
		{"exact minimum", envelope.MemoMinLength, nil},
		{"exact maximum", envelope.MemoMaxLength, nil},
		{"one over maximum", envelope.MemoMaxLength + 1, envelope.ErrMemoTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := envelope.ValidateLength(bytes.Repeat([]byte("A"), tc.length), envelope.MemoMinLength, envelope.MemoMaxLength)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestMintMemoLengthBound(t *testing.T) {
	data := bytes.Repeat([]byte("A"), envelope.MintMemoMaxLength)
	assert.NoError(t, envelope.ValidateLength(data, envelope.MemoMinLength, envelope.MintMemoMaxLength))

	data = append(data, 'A')
	assert.ErrorIs(t, envelope.ValidateLength(data, envelope.MemoMinLength, envelope.MintMemoMaxLength), envelope.ErrMemoTooLong)
}

func TestDecodeLegacyJSON(t *testing.T) {
	amount, ok := envelope.DecodeLegacyJSON([]byte(`{"burn_amount": 1000000}`))
	require.True(t, ok)
	assert.Equal(t, uint64(1_000_000), amount)

	amount, ok = envelope.DecodeLegacyJSON([]byte(`  {"burn_amount": "5000000", "note": "hi"}`))
	require.True(t, ok)
	assert.Equal(t, uint64(5_000_000), amount)

	_, ok = envelope.DecodeLegacyJSON([]byte(`{"amount": 5}`))
	assert.False(t, ok)

	_, ok = envelope.DecodeLegacyJSON([]byte(`plain text memo`))
	assert.False(t, ok)

	_, ok = envelope.DecodeLegacyJSON([]byte(`{"burn_amount": -5}`))
	assert.False(t, ok)
}
