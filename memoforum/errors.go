package memoforum

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
	ErrUnauthorizedAdmin
	ErrCounterAlreadyInitialized
	ErrCounterNotInitialized
	ErrPostIDMismatch
	ErrPostCounterOverflow
	ErrPostAlreadyExists
	ErrPostNotFound
	ErrInvalidPostDataFormat
	ErrInvalidCategory
	ErrInvalidOperation
	ErrInvalidUserPubkeyFormat
	ErrUserPubkeyMismatch
	ErrEmptyPostTitle
	ErrPostTitleTooLong
	ErrEmptyPostContent
	ErrPostContentTooLong
	ErrPostImageTooLong
	ErrReplyMessageTooLong
	ErrMissingSignature
)

var errorMessages = map[Code]string{
	ErrMemoRequired:              "Transaction must include a memo instruction",
	ErrInvalidMemoFormat:         "Memo is not a valid burn envelope",
	ErrMemoTooShort:              "Memo too short: must be at least 69 bytes",
	ErrMemoTooLong:               "Memo too long: must be at most 800 bytes",
	ErrUnsupportedMemoVersion:    "Unsupported memo envelope version",
	ErrPayloadTooLong:            "Payload too long (maximum 787 bytes)",
	ErrBurnAmountTooSmall:        "Burn amount too small: must burn at least 1 token",
	ErrBurnAmountTooLarge:        "Burn amount too large: maximum 1,000,000,000,000 tokens per transaction",
	ErrInvalidBurnAmount:         "Invalid burn amount: whole tokens only",
	ErrBurnAmountMismatch:        "Memo burn_amount must match the instruction amount",
	ErrUnauthorizedMint:          "Unauthorized mint: only the specified mint address can be used",
	ErrInvalidTokenAccount:       "Invalid token account: account must belong to the correct mint",
	ErrUnauthorizedTokenAccount:  "Unauthorized token account: user must own the token account",
	ErrUnauthorizedAdmin:         "Only the authorized admin may initialize the counter",
	ErrCounterAlreadyInitialized: "Global post counter is already initialized",
	ErrCounterNotInitialized:     "Global post counter is not initialized",
	ErrPostIDMismatch:            "Post ID does not match the next available ID",
	ErrPostCounterOverflow:       "Post counter overflow: post limit reached",
	ErrPostAlreadyExists:         "Post already exists for this ID",
	ErrPostNotFound:              "Post account is not initialized",
	ErrInvalidPostDataFormat:     "Invalid post data format: must be valid Borsh-serialized data",
	ErrInvalidCategory:           "Invalid category: must be 'forum' for forum operations",
	ErrInvalidOperation:          "Invalid operation: does not match the expected operation",
	ErrInvalidUserPubkeyFormat:   "Invalid user pubkey format in memo",
	ErrUserPubkeyMismatch:        "User pubkey in memo must match the transaction signer",
	ErrEmptyPostTitle:            "Post title cannot be empty",
	ErrPostTitleTooLong:          "Post title must be at most 128 characters",
	ErrEmptyPostContent:          "Post content cannot be empty",
	ErrPostContentTooLong:        "Post content must be at most 512 characters",
	ErrPostImageTooLong:          "Post image info must be at most 256 characters",
	ErrReplyMessageTooLong:       "Reply message must be at most 512 characters",
	ErrMissingSignature:          "User signature is required",
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
