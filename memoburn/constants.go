package memoburn

import "github.com/gagliardetto/solana-go"

// Program IDs
var (
	// ProgramID (dari declare_id di program)
	ProgramID = solana.MustPublicKeyFromBase58("FEjJ9KKJETocmaStfsFteFrktPchDLAVNTMeTvndoxaP")

	// AuthorizedMint - the only mint this program operates on
	AuthorizedMint = solana.MustPublicKeyFromBase58("HLCoc7wNDavNMfWWw2Bwd7U7A24cesuhBSNkxZgvZm1")
)

// PDA Seeds
var (
	SeedUserGlobalBurnStats = []byte("user_global_burn_stats")
)

// Limits
const (
	// Token decimal factor (decimal=6 means 1 token = 1,000,000 units)
	DecimalFactor uint64 = 1_000_000

	// Minimum burn requirement (1 token)
	MinBurnTokens uint64 = 1
	MinBurnAmount        = MinBurnTokens * DecimalFactor

	// Maximum burn per transaction (1 trillion tokens)
	MaxBurnPerTx uint64 = 1_000_000_000_000 * DecimalFactor

	// Lifetime per-user cap before the stats counter saturates
	MaxUserGlobalBurnAmount uint64 = 18_000_000_000_000 * DecimalFactor

	// Memo length constraints
	MemoMinLength = 69
	MemoMaxLength = 800
)
