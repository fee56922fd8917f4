package memoburn

import "fmt"

// Code is a program error code (custom error range starts at 6000).
type Code uint32

const (
	ErrMemoRequired Code = 6000 + iota
	ErrInvalidMemoFormat
	ErrMemoTooShort
	ErrMemoTooLong
	ErrUnsupportedMemoVersion
	ErrPayloadTooLong
	ErrBurnAmountTooSmall
	ErrBurnAmountTooLarge
	ErrInvalidBurnAmount
	ErrBurnAmountMismatch
	ErrUnauthorizedMint
	ErrInvalidTokenAccount
	ErrUnauthorizedTokenAccount
	ErrInvalidInstructionsSysvar
	ErrInvalidStatsAccount
	ErrStatsNotInitialized
	ErrMissingUserSignature
)

var errorMessages = map[Code]string{
	ErrMemoRequired:              "Memo instruction is required for burn transactions",
	ErrInvalidMemoFormat:         "Memo is not a valid burn envelope",
	ErrMemoTooShort:              "Memo must be at least 69 bytes",
	ErrMemoTooLong:               "Memo must be at most 800 bytes",
	ErrUnsupportedMemoVersion:    "Unsupported memo envelope version",
	ErrPayloadTooLong:            "Memo payload exceeds 787 bytes",
	ErrBurnAmountTooSmall:        "Burn amount must be at least 1 token",
	ErrBurnAmountTooLarge:        "Burn amount exceeds per-transaction maximum",
	ErrInvalidBurnAmount:         "Burn amount must be a whole-token multiple",
	ErrBurnAmountMismatch:        "Memo burn_amount does not match instruction amount",
	ErrUnauthorizedMint:          "Mint is not the authorized MEMO mint",
	ErrInvalidTokenAccount:       "Token account is invalid for this mint",
	ErrUnauthorizedTokenAccount:  "Token account is not owned by the signer",
	ErrInvalidInstructionsSysvar: "Account is not the instructions sysvar",
	ErrInvalidStatsAccount:       "User global burn stats account mismatch",
	ErrStatsNotInitialized:       "User global burn stats account is not initialized",
	ErrMissingUserSignature:      "User signature is required",
}

func (c Code) Error() string {
	if msg, ok := errorMessages[c]; ok {
		return fmt.Sprintf("custom program error: %#x %s", uint32(c), msg)
	}
	return fmt.Sprintf("custom program error: %#x", uint32(c))
}

// ErrorCode returns the numeric code carried by c.
func (c Code) ErrorCode() uint32 {
	return uint32(c)
}
