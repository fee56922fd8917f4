package client

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TokenDecimals for the MEMO mint.
const TokenDecimals = 6

var decimalFactor = decimal.New(1, TokenDecimals)

// ParseTokenAmount converts a human token string ("420", "1.5") into base
// units. The programs only accept whole-token multiples, but parsing keeps
// sub-token precision so callers get the on-chain rejection rather than a
// silent rounding.
func ParseTokenAmount(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid token amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("token amount %q is negative", s)
	}
	units := d.Mul(decimalFactor)
	if !units.IsInteger() {
		return 0, fmt.Errorf("token amount %q has more than %d decimal places", s, TokenDecimals)
	}
	if !units.BigInt().IsUint64() {
		return 0, fmt.Errorf("token amount %q does not fit in u64 base units", s)
	}
	return units.BigInt().Uint64(), nil
}

// FormatTokenAmount renders base units as a human token string.
func FormatTokenAmount(units uint64) string {
	return decimal.NewFromUint64(units).Div(decimalFactor).String()
}
