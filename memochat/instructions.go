package memochat

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/memoburn"
	"memocore/memomint"
	"memocore/token"
)

// NewInitializeGlobalCounterInstruction builds the one-time admin setup of
// the group counter.
func NewInitializeGlobalCounterInstruction(admin solana.PublicKey) (*solana.GenericInstruction, error) {
	counter, _, err := DeriveGlobalCounter()
	if err != nil {
		return nil, fmt.Errorf("failed to derive counter PDA: %w", err)
	}
	disc := discInitializeGlobalCounter
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(admin).WRITE().SIGNER(),
			solana.Meta(counter).WRITE(),
			solana.Meta(solana.SystemProgramID),
		},
		disc[:],
	), nil
}

// NewCreateChatGroupInstruction builds a burn-gated group creation for the
// next sequential group id.
func NewCreateChatGroupInstruction(creator, tokenAccount solana.PublicKey, expectedGroupID, burnAmount uint64) (*solana.GenericInstruction, error) {
	counter, _, err := DeriveGlobalCounter()
	if err != nil {
		return nil, fmt.Errorf("failed to derive counter PDA: %w", err)
	}
	group, _, err := DeriveChatGroup(expectedGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive group PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 24)
	copy(data, discCreateChatGroup[:])
	binary.LittleEndian.PutUint64(data[8:], expectedGroupID)
	binary.LittleEndian.PutUint64(data[16:], burnAmount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(creator).WRITE().SIGNER(),
			solana.Meta(counter).WRITE(),
			solana.Meta(group).WRITE(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(tokenAccount).WRITE(),
			solana.Meta(stats).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(memoburn.ProgramID),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
		},
		data,
	), nil
}

// NewBurnTokensForGroupInstruction builds a support burn against an existing
// group by any user.
func NewBurnTokensForGroupInstruction(burner, tokenAccount solana.PublicKey, groupID, amount uint64) (*solana.GenericInstruction, error) {
	group, _, err := DeriveChatGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive group PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(burner)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 24)
	copy(data, discBurnTokensForGroup[:])
	binary.LittleEndian.PutUint64(data[8:], groupID)
	binary.LittleEndian.PutUint64(data[16:], amount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(burner).WRITE().SIGNER(),
			solana.Meta(group).WRITE(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(tokenAccount).WRITE(),
			solana.Meta(stats).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(memoburn.ProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
		},
		data,
	), nil
}

// NewSendMemoToGroupInstruction builds a rate-limited group memo that mints
// the fixed grant to the sender.
func NewSendMemoToGroupInstruction(sender, tokenAccount solana.PublicKey, groupID uint64) (*solana.GenericInstruction, error) {
	group, _, err := DeriveChatGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive group PDA: %w", err)
	}
	authority, _, err := memomint.DeriveMintAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to derive mint authority PDA: %w", err)
	}
	data := make([]byte, 16)
	copy(data, discSendMemoToGroup[:])
	binary.LittleEndian.PutUint64(data[8:], groupID)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(sender).WRITE().SIGNER(),
			solana.Meta(group).WRITE(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(authority),
			solana.Meta(tokenAccount).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(memomint.ProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
		},
		data,
	), nil
}
