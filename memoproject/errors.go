package memoproject

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
	ErrUnauthorizedProjectAccess
	ErrCounterAlreadyInitialized
	ErrCounterNotInitialized
	ErrProjectIDMismatch
	ErrProjectCounterOverflow
	ErrProjectAlreadyExists
	ErrProjectNotFound
	ErrInvalidProjectDataFormat
	ErrInvalidCategory
	ErrInvalidOperation
	ErrInvalidBurnerPubkeyFormat
	ErrBurnerPubkeyMismatch
	ErrInvalidProjectName
	ErrProjectDescriptionTooLong
	ErrProjectImageTooLong
	ErrProjectWebsiteTooLong
	ErrTooManyTags
	ErrInvalidTag
	ErrBurnMessageTooLong
	ErrMissingSignature
	ErrLeaderboardAlreadyInitialized
	ErrLeaderboardNotInitialized
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
	ErrUnauthorizedProjectAccess: "Unauthorized project access: only the creator may update this project",
	ErrCounterAlreadyInitialized: "Global project counter is already initialized",
	ErrCounterNotInitialized:     "Global project counter is not initialized",
	ErrProjectIDMismatch:         "Project ID does not match the next available ID",
	ErrProjectCounterOverflow:    "Project counter overflow: project limit reached",
	ErrProjectAlreadyExists:      "Project already exists for this ID",
	ErrProjectNotFound:           "Project account is not initialized",
	ErrInvalidProjectDataFormat:  "Invalid project data format: must be valid Borsh-serialized data",
	ErrInvalidCategory:           "Invalid category: must be 'project' for project operations",
	ErrInvalidOperation:          "Invalid operation: does not match the expected operation",
	ErrInvalidBurnerPubkeyFormat: "Invalid burner pubkey format in memo",
	ErrBurnerPubkeyMismatch:      "Burner pubkey in memo must match the transaction signer",
	ErrInvalidProjectName:        "Project name must be 1-64 characters",
	ErrProjectDescriptionTooLong: "Project description must be at most 256 characters",
	ErrProjectImageTooLong:       "Project image info must be at most 256 characters",
	ErrProjectWebsiteTooLong:     "Project website must be at most 128 characters",
	ErrTooManyTags:               "Too many tags: maximum 4 tags allowed",
	ErrInvalidTag:                "Invalid tag: each tag must be 1-32 characters",
	ErrBurnMessageTooLong:        "Burn message must be at most 696 characters",
	ErrMissingSignature:          "User signature is required",

	ErrLeaderboardAlreadyInitialized: "Burn leaderboard is already initialized",
	ErrLeaderboardNotInitialized:     "Burn leaderboard is not initialized",
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
