package memoprofile

import "fmt"

// Code is a program error code (custom error range starts at 6000).
type Code uint32

const (
	ErrMemoTooShort Code = 6000 + iota
	ErrMemoTooLong
	ErrInvalidTokenAccount
	ErrUnauthorizedMint
	ErrUnauthorizedTokenAccount
	ErrUnauthorizedProfileAccess
	ErrMemoRequired
	ErrInvalidMemoFormat
	ErrUnsupportedMemoVersion
	ErrUnsupportedProfileDataVersion
	ErrInvalidProfileDataFormat
	ErrInvalidCategory
	ErrInvalidOperation
	ErrInvalidUserPubkeyFormat
	ErrUserPubkeyMismatch
	ErrEmptyUsername
	ErrUsernameTooLong
	ErrProfileImageTooLong
	ErrAboutMeTooLong
	ErrURLTooLong
	ErrBurnAmountTooSmall
	ErrBurnAmountTooLarge
	ErrInvalidBurnAmount
	ErrBurnAmountMismatch
	ErrPayloadTooLong
	ErrProfileAlreadyExists
	ErrProfileNotFound
	ErrMissingSignature
)

var errorMessages = map[Code]string{
	ErrMemoTooShort:                  "Memo too short: must be at least 69 bytes",
	ErrMemoTooLong:                   "Memo too long: must be at most 800 bytes",
	ErrInvalidTokenAccount:           "Invalid token account: account must belong to the correct mint",
	ErrUnauthorizedMint:              "Unauthorized mint: only the specified mint address can be used",
	ErrUnauthorizedTokenAccount:      "Unauthorized token account: user must own the token account",
	ErrUnauthorizedProfileAccess:     "Unauthorized profile access: user can only access their own profile",
	ErrMemoRequired:                  "Memo required: memo instruction must be present with valid content",
	ErrInvalidMemoFormat:             "Invalid memo format: memo must contain valid Borsh-formatted data",
	ErrUnsupportedMemoVersion:        "Unsupported memo version",
	ErrUnsupportedProfileDataVersion: "Unsupported profile data structure version",
	ErrInvalidProfileDataFormat:      "Invalid profile data format: must be valid Borsh-serialized data",
	ErrInvalidCategory:               "Invalid category: must be 'profile' for profile operations",
	ErrInvalidOperation:              "Invalid operation: does not match the expected operation",
	ErrInvalidUserPubkeyFormat:       "Invalid user pubkey format in memo",
	ErrUserPubkeyMismatch:            "User pubkey in memo must match the transaction signer",
	ErrEmptyUsername:                 "Username field cannot be empty",
	ErrUsernameTooLong:               "Username must be at most 32 characters",
	ErrProfileImageTooLong:           "Image info must be at most 256 characters",
	ErrAboutMeTooLong:                "About me must be at most 128 characters",
	ErrURLTooLong:                    "URL must be at most 128 characters",
	ErrBurnAmountTooSmall:            "Burn amount too small: must burn at least 420 tokens",
	ErrBurnAmountTooLarge:            "Burn amount too large: maximum 1,000,000,000,000 tokens per transaction",
	ErrInvalidBurnAmount:             "Invalid burn amount: whole tokens only",
	ErrBurnAmountMismatch:            "Memo burn_amount must match the instruction burn amount",
	ErrPayloadTooLong:                "Payload too long (maximum 787 bytes)",
	ErrProfileAlreadyExists:          "Profile already exists for this user",
	ErrProfileNotFound:               "Profile account is not initialized",
	ErrMissingSignature:              "User signature is required",
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
