package memoprofile

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/memoburn"
	"memocore/token"
)

// NewCreateProfileInstruction builds a burn-gated profile creation.
func NewCreateProfileInstruction(user, tokenAccount solana.PublicKey, burnAmount uint64) (*solana.GenericInstruction, error) {
	profile, _, err := DeriveProfile(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive profile PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 16)
	copy(data, discCreateProfile[:])
	binary.LittleEndian.PutUint64(data[8:], burnAmount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(profile).WRITE(),
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

// NewUpdateProfileInstruction builds a burn-gated profile update.
func NewUpdateProfileInstruction(user, tokenAccount solana.PublicKey, burnAmount uint64) (*solana.GenericInstruction, error) {
	profile, _, err := DeriveProfile(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive profile PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 16)
	copy(data, discUpdateProfile[:])
	binary.LittleEndian.PutUint64(data[8:], burnAmount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(profile).WRITE(),
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

// NewDeleteProfileInstruction closes the user's profile account.
func NewDeleteProfileInstruction(user solana.PublicKey) (*solana.GenericInstruction, error) {
	profile, _, err := DeriveProfile(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive profile PDA: %w", err)
	}
	disc := discDeleteProfile
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(profile).WRITE(),
		},
		disc[:],
	), nil
}
