package memomint

import "fmt"

// Code is a program error code (custom error range starts at 6000).
type Code uint32

const (
	ErrMemoRequired Code = 6000 + iota
	ErrInvalidMemoFormat
	ErrMemoTooShort
	ErrMemoTooLong
	ErrInvalidTokenAccount
	ErrUnauthorizedMint
	ErrUnauthorizedTokenAccount
	ErrInvalidMintAuthority
	ErrSupplyLimitReached
	ErrUnauthorizedAdmin
	ErrMissingSignature
)

var errorMessages = map[Code]string{
	ErrMemoRequired:             "Transaction must include a memo instruction",
	ErrInvalidMemoFormat:        "Invalid memo format: memo contains null bytes",
	ErrMemoTooShort:             "Memo too short: must be at least 69 bytes",
	ErrMemoTooLong:              "Memo too long: must be at most 769 bytes",
	ErrInvalidTokenAccount:      "Invalid token account: account must belong to the correct mint",
	ErrUnauthorizedMint:         "Unauthorized mint: only the specified mint address can be used",
	ErrUnauthorizedTokenAccount: "Unauthorized token account: user must own the token account",
	ErrInvalidMintAuthority:     "Invalid mint authority: PDA does not match expected mint authority",
	ErrSupplyLimitReached:       "Supply limit reached: maximum supply is 10 trillion tokens",
	ErrUnauthorizedAdmin:        "Only the admin may perform this operation",
	ErrMissingSignature:         "Caller signature is required",
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
