package memoblog

import "github.com/gagliardetto/solana-go"

// Program IDs
var (
	// ProgramID (dari declare_id di program)
	ProgramID = solana.MustPublicKeyFromBase58("HPvqPUneCLwb8YYoYTrWmy6o7viRKsnLTgxwkg7CCpfB")

	// AuthorizedMint - the only mint this program operates on
	AuthorizedMint = solana.MustPublicKeyFromBase58("HLCoc7wNDavNMfWWw2Bwd7U7A24cesuhBSNkxZgvZm1")
)

// PDA Seeds
var (
	SeedBlog = []byte("blog")
)

// Payload routing
const (
	Category       = "blog"
	OpCreateBlog   = "create_blog"
	OpUpdateBlog   = "update_blog"
	OpBurnForBlog  = "burn_for_blog"
	OpMintForBlog  = "mint_for_blog"
)

// Limits
const (
	DecimalFactor uint64 = 1_000_000

	// Every blog operation burns at least 1 token
	MinBlogBurnTokens uint64 = 1
	MinBlogBurnAmount        = MinBlogBurnTokens * DecimalFactor

	MaxBlogNameLength        = 64
	MaxBlogDescriptionLength = 256
	MaxBlogImageLength       = 256
	MaxMessageLength         = 696
)
