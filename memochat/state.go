package memochat

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// GlobalGroupCounter space: discriminator 8 + total_groups 8.
const GlobalGroupCounterSpace = 16

// ChatGroup space: conservative maximum including the safety buffer.
const ChatGroupSpaceMax = 8 + // discriminator
	8 + // group_id
	32 + // creator
	8 + // created_at
	8 + // memo_count
	8 + // burned_amount
	8 + // min_memo_interval
	8 + // last_memo_time
	1 + // bump
	4 + MaxGroupNameLength +
	4 + MaxGroupDescriptionLength +
	4 + MaxGroupImageLength +
	4 + MaxTagsCount*(4+MaxTagLength) +
	128 // safety buffer

var (
	GlobalGroupCounterDiscriminator = runtime.AccountDiscriminator("GlobalGroupCounter")
	ChatGroupDiscriminator          = runtime.AccountDiscriminator("ChatGroup")
)

// GlobalGroupCounter assigns sequential group ids.
type GlobalGroupCounter struct {
	TotalGroups uint64
}

func (c *GlobalGroupCounter) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(GlobalGroupCounterDiscriminator, c, GlobalGroupCounterSpace)
}

func DecodeGlobalGroupCounter(data []byte) (*GlobalGroupCounter, error) {
	counter := new(GlobalGroupCounter)
	if err := runtime.DecodeAccount(GlobalGroupCounterDiscriminator, data, counter); err != nil {
		return nil, err
	}
	return counter, nil
}

// ChatGroup is one memo group, addressed by its sequential id. The group PDA
// also signs the mint CPI when members send memos.
type ChatGroup struct {
	GroupID         uint64
	Creator         solana.PublicKey
	CreatedAt       int64
	Name            string
	Description     string
	Image           string
	Tags            []string
	MemoCount       uint64
	BurnedAmount    uint64
	MinMemoInterval int64
	LastMemoTime    int64
	Bump            uint8
}

func (g *ChatGroup) Marshal() ([]byte, error) {
	return runtime.EncodeAccount(ChatGroupDiscriminator, g, ChatGroupSpaceMax)
}

func DecodeChatGroup(data []byte) (*ChatGroup, error) {
	group := new(ChatGroup)
	if err := runtime.DecodeAccount(ChatGroupDiscriminator, data, group); err != nil {
		return nil, err
	}
	return group, nil
}

// recordMemo folds one send_memo_to_group or burn_tokens_for_group into the
// counters.
func (g *ChatGroup) recordMemo(amount uint64, now int64) {
	if g.BurnedAmount > ^uint64(0)-amount {
		g.BurnedAmount = ^uint64(0)
	} else {
		g.BurnedAmount += amount
	}
	g.MemoCount++
	g.LastMemoTime = now
}

// DeriveGlobalCounter returns the counter PDA and bump.
func DeriveGlobalCounter() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedGlobalCounter}, ProgramID)
}

// DeriveChatGroup returns the group PDA and bump for a group id.
func DeriveChatGroup(groupID uint64) (solana.PublicKey, uint8, error) {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], groupID)
	return solana.FindProgramAddress([][]byte{SeedChatGroup, id[:]}, ProgramID)
}

// groupSignerSeeds builds the signer seeds the group PDA uses for the mint
// CPI.
func groupSignerSeeds(groupID uint64, bump uint8) [][]byte {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], groupID)
	return [][]byte{SeedChatGroup, id[:], {bump}}
}
