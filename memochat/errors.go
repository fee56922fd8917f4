package memochat

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
	ErrGroupIDMismatch
	ErrGroupCounterOverflow
	ErrGroupAlreadyExists
	ErrGroupNotFound
	ErrInvalidGroupDataFormat
	ErrInvalidCategory
	ErrInvalidOperation
	ErrInvalidSenderPubkeyFormat
	ErrSenderPubkeyMismatch
	ErrInvalidGroupName
	ErrGroupDescriptionTooLong
	ErrGroupImageTooLong
	ErrTooManyTags
	ErrInvalidTag
	ErrChatMessageTooLong
	ErrInvalidMemoInterval
	ErrMemoRateLimited
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
	ErrCounterAlreadyInitialized: "Global group counter is already initialized",
	ErrCounterNotInitialized:     "Global group counter is not initialized",
	ErrGroupIDMismatch:           "Group ID does not match the next available ID",
	ErrGroupCounterOverflow:      "Group counter overflow: group limit reached",
	ErrGroupAlreadyExists:        "Chat group already exists for this ID",
	ErrGroupNotFound:             "Chat group account is not initialized",
	ErrInvalidGroupDataFormat:    "Invalid group data format: must be valid Borsh-serialized data",
	ErrInvalidCategory:           "Invalid category: must be 'chat' for chat operations",
	ErrInvalidOperation:          "Invalid operation: does not match the expected operation",
	ErrInvalidSenderPubkeyFormat: "Invalid sender pubkey format in memo",
	ErrSenderPubkeyMismatch:      "Sender pubkey in memo must match the transaction signer",
	ErrInvalidGroupName:          "Group name must be 1-64 characters",
	ErrGroupDescriptionTooLong:   "Group description must be at most 256 characters",
	ErrGroupImageTooLong:         "Group image info must be at most 256 characters",
	ErrTooManyTags:               "Too many tags: maximum 4 tags allowed",
	ErrInvalidTag:                "Invalid tag: each tag must be 1-32 characters",
	ErrChatMessageTooLong:        "Chat message must be at most 696 characters",
	ErrInvalidMemoInterval:       "Memo interval must be between 0 and 86400 seconds",
	ErrMemoRateLimited:           "Too soon: group memo interval has not elapsed",
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
