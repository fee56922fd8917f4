package memoblog

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
	ErrUnauthorizedBlogAccess
	ErrInvalidBlogDataFormat
	ErrInvalidCategory
	ErrInvalidOperation
	ErrInvalidCreatorPubkeyFormat
	ErrCreatorPubkeyMismatch
	ErrEmptyBlogName
	ErrBlogNameTooLong
	ErrBlogDescriptionTooLong
	ErrBlogImageTooLong
	ErrMessageTooLong
	ErrBlogAlreadyExists
	ErrBlogNotFound
	ErrMissingSignature
)

var errorMessages = map[Code]string{
	ErrMemoRequired:               "Transaction must include a memo instruction",
	ErrInvalidMemoFormat:          "Memo is not a valid burn envelope",
	ErrMemoTooShort:               "Memo too short: must be at least 69 bytes",
	ErrMemoTooLong:                "Memo too long: must be at most 800 bytes",
	ErrUnsupportedMemoVersion:     "Unsupported memo envelope version",
	ErrPayloadTooLong:             "Payload too long (maximum 787 bytes)",
	ErrBurnAmountTooSmall:         "Burn amount too small: must burn at least 1 token",
	ErrBurnAmountTooLarge:         "Burn amount too large: maximum 1,000,000,000,000 tokens per transaction",
	ErrInvalidBurnAmount:          "Invalid burn amount: whole tokens only",
	ErrBurnAmountMismatch:         "Memo burn_amount must match the instruction amount",
	ErrUnauthorizedMint:           "Unauthorized mint: only the specified mint address can be used",
	ErrInvalidTokenAccount:        "Invalid token account: account must belong to the correct mint",
	ErrUnauthorizedTokenAccount:   "Unauthorized token account: user must own the token account",
	ErrUnauthorizedBlogAccess:     "Unauthorized blog access: only the creator may operate on this blog",
	ErrInvalidBlogDataFormat:      "Invalid blog data format: must be valid Borsh-serialized data",
	ErrInvalidCategory:            "Invalid category: must be 'blog' for blog operations",
	ErrInvalidOperation:           "Invalid operation: does not match the expected operation",
	ErrInvalidCreatorPubkeyFormat: "Invalid creator pubkey format in memo",
	ErrCreatorPubkeyMismatch:      "Creator pubkey in memo must match the transaction signer",
	ErrEmptyBlogName:              "Blog name cannot be empty",
	ErrBlogNameTooLong:            "Blog name must be at most 64 characters",
	ErrBlogDescriptionTooLong:     "Blog description must be at most 256 characters",
	ErrBlogImageTooLong:           "Blog image info must be at most 256 characters",
	ErrMessageTooLong:             "Message must be at most 696 characters",
	ErrBlogAlreadyExists:          "Blog already exists for this creator",
	ErrBlogNotFound:               "Blog account is not initialized",
	ErrMissingSignature:           "Creator signature is required",
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
