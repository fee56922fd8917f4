package memochat

import "github.com/gagliardetto/solana-go"

// Program IDs
var (
	// ProgramID (dari declare_id di program)
	ProgramID = solana.MustPublicKeyFromBase58("54ky4LNnRsbYioDSBKNrc5hG8HoDyZ6yhf8TuncxTBRF")

	// AuthorizedMint - the only mint this program operates on
	AuthorizedMint = solana.MustPublicKeyFromBase58("HLCoc7wNDavNMfWWw2Bwd7U7A24cesuhBSNkxZgvZm1")

	// AuthorizedAdmin may initialize the global counter
	AuthorizedAdmin = solana.MustPublicKeyFromBase58("Gkxz6ogojD7Ni58N4SnJXy6xDxSvH5kPFCz92sTZWBVn")
)

// PDA Seeds
var (
	SeedGlobalCounter = []byte("global_counter")
	SeedChatGroup     = []byte("chat_group")
)

// Payload routing
const (
	Category          = "chat"
	OpCreateChatGroup = "create_chat_group"
	OpBurnForGroup    = "burn_tokens_for_group"
	OpSendMemo        = "send_memo_to_group"
)

// Limits
const (
	DecimalFactor uint64 = 1_000_000

	// Every chat burn operation burns at least 1 token
	MinChatBurnTokens uint64 = 1
	MinChatBurnAmount        = MinChatBurnTokens * DecimalFactor

	MaxGroupNameLength        = 64
	MaxGroupDescriptionLength = 256
	MaxGroupImageLength       = 256
	MaxTagsCount              = 4
	MaxTagLength              = 32
	MaxChatMessageLength      = 696

	// Seconds between memos to the same group
	DefaultMemoInterval int64 = 60
	MaxMemoInterval     int64 = 86_400
)
