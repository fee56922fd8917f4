package memoforum

import "github.com/gagliardetto/solana-go"

// Program IDs
var (
	// ProgramID (dari declare_id di program)
	ProgramID = solana.MustPublicKeyFromBase58("9kwS5nSidmoHq84TyNzqFrtD29odp4sdRxm97tCbdpbS")

	// AuthorizedMint - the only mint this program operates on
	AuthorizedMint = solana.MustPublicKeyFromBase58("HLCoc7wNDavNMfWWw2Bwd7U7A24cesuhBSNkxZgvZm1")

	// AuthorizedAdmin may initialize the global post counter
	AuthorizedAdmin = solana.MustPublicKeyFromBase58("Gkxz6ogojD7Ni58N4SnJXy6xDxSvH5kPFCz92sTZWBVn")
)

// PDA Seeds
var (
	SeedGlobalCounter = []byte("global_counter")
	SeedPost          = []byte("post")
)

// Payload routing
const (
	Category      = "forum"
	OpCreatePost  = "create_post"
	OpBurnForPost = "burn_for_post"
	OpMintForPost = "mint_for_post"
)

// Limits
const (
	DecimalFactor uint64 = 1_000_000

	// Every post operation burns at least 1 token
	MinPostBurnTokens uint64 = 1
	MinPostBurnAmount        = MinPostBurnTokens * DecimalFactor

	MaxPostTitleLength    = 128
	MaxPostContentLength  = 512
	MaxPostImageLength    = 256
	MaxReplyMessageLength = 512
)
