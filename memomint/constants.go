package memomint

import "github.com/gagliardetto/solana-go"

// Program IDs
var (
	// ProgramID (dari declare_id di program)
	ProgramID = solana.MustPublicKeyFromBase58("A31a17bhgQyRQygeZa1SybytjbCdjMpu6oPr9M3iQWzy")

	// AuthorizedMint - the only mint this program operates on
	AuthorizedMint = solana.MustPublicKeyFromBase58("HLCoc7wNDavNMfWWw2Bwd7U7A24cesuhBSNkxZgvZm1")

	// AdminPubkey may trigger the authorized-mint update log
	AdminPubkey = solana.MustPublicKeyFromBase58("Gkxz6ogojD7Ni58N4SnJXy6xDxSvH5kPFCz92sTZWBVn")
)

// PDA Seeds
var (
	SeedMintAuthority = []byte("mint_authority")
)

// Limits
const (
	// Fixed grant per mint call (1 token at 6 decimals)
	MintAmount uint64 = 1_000_000

	// Hard supply cap: 10 trillion tokens
	MaxSupply uint64 = 10_000_000_000_000 * 1_000_000

	// Memo length constraints (tighter maximum than the burn side)
	MemoMinLength = 69
	MemoMaxLength = 769
)
