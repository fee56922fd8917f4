package memoproject

import "github.com/gagliardetto/solana-go"

// Program IDs
var (
	// ProgramID (dari declare_id di program)
	ProgramID = solana.MustPublicKeyFromBase58("ENVapgjzzMjbRhLJ279yNsSgaQtDYYVgWq98j54yYnyx")

	// AuthorizedMint - the only mint this program operates on
	AuthorizedMint = solana.MustPublicKeyFromBase58("HLCoc7wNDavNMfWWw2Bwd7U7A24cesuhBSNkxZgvZm1")

	// AuthorizedAdmin may initialize the global counter
	AuthorizedAdmin = solana.MustPublicKeyFromBase58("Gkxz6ogojD7Ni58N4SnJXy6xDxSvH5kPFCz92sTZWBVn")
)

// PDA Seeds
var (
	SeedGlobalCounter   = []byte("global_counter")
	SeedProject         = []byte("project")
	SeedBurnLeaderboard = []byte("burn_leaderboard")
)

// Payload routing
const (
	Category         = "project"
	OpCreateProject  = "create_project"
	OpUpdateProject  = "update_project"
	OpBurnForProject = "burn_for_project"
)

// Limits
const (
	DecimalFactor uint64 = 1_000_000

	// Every project operation burns at least 1 token
	MinProjectBurnTokens uint64 = 1
	MinProjectBurnAmount        = MinProjectBurnTokens * DecimalFactor

	MaxProjectNameLength        = 64
	MaxProjectDescriptionLength = 256
	MaxProjectImageLength       = 256
	MaxProjectWebsiteLength     = 128
	MaxTagsCount                = 4
	MaxTagLength                = 32
	MaxBurnMessageLength        = 696

	// The leaderboard tracks the top projects by lifetime burned amount
	MaxLeaderboardEntries = 100
)
