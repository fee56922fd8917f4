package memoprofile

import "github.com/gagliardetto/solana-go"

// Program IDs
var (
	// ProgramID (dari declare_id di program)
	ProgramID = solana.MustPublicKeyFromBase58("BwQTxuShrwJR15U6Utdfmfr4kZ18VT6FA1fcp58sT8US")

	// AuthorizedMint - the only mint this program operates on
	AuthorizedMint = solana.MustPublicKeyFromBase58("HLCoc7wNDavNMfWWw2Bwd7U7A24cesuhBSNkxZgvZm1")
)

// PDA Seeds
var (
	SeedProfile = []byte("profile")
)

// Payload routing
const (
	Category        = "profile"
	OpCreateProfile = "create_profile"
	OpUpdateProfile = "update_profile"
)

// Limits
const (
	DecimalFactor uint64 = 1_000_000

	// Minimum burn for profile creation and update (420 tokens)
	MinProfileBurnTokens uint64 = 420
	MinProfileBurnAmount        = MinProfileBurnTokens * DecimalFactor

	MaxUsernameLength     = 32
	MaxProfileImageLength = 256
	MaxAboutMeLength      = 128
	MaxURLLength          = 128
)
