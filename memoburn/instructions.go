package memoburn

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/token"
)

// NewInitializeUserGlobalBurnStatsInstruction builds the one-time stats PDA
// creation for a user.
func NewInitializeUserGlobalBurnStatsInstruction(user solana.PublicKey) (*solana.GenericInstruction, error) {
	stats, _, err := DeriveUserGlobalBurnStats(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	disc := discInitializeUserGlobalBurnStats
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(stats).WRITE(),
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(solana.SystemProgramID),
		},
		disc[:],
	), nil
}

// NewProcessBurnInstruction builds a burn of amount units from the user's
// token account. The memo carrying the matching envelope goes into the same
// transaction separately.
func NewProcessBurnInstruction(user, tokenAccount solana.PublicKey, amount uint64) (*solana.GenericInstruction, error) {
	stats, _, err := DeriveUserGlobalBurnStats(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 16)
	copy(data, discProcessBurn[:])
	binary.LittleEndian.PutUint64(data[8:], amount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).SIGNER(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(tokenAccount).WRITE(),
			solana.Meta(stats).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
		},
		data,
	), nil
}
