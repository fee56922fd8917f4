package memoproject

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/memoburn"
	"memocore/token"
)

// NewInitializeGlobalCounterInstruction builds the one-time admin setup of
// the project counter.
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

// NewInitializeBurnLeaderboardInstruction builds the one-time admin setup of
// the burn leaderboard.
func NewInitializeBurnLeaderboardInstruction(admin solana.PublicKey) (*solana.GenericInstruction, error) {
	leaderboard, _, err := DeriveBurnLeaderboard()
	if err != nil {
		return nil, fmt.Errorf("failed to derive leaderboard PDA: %w", err)
	}
	disc := discInitializeBurnLeaderboard
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(admin).WRITE().SIGNER(),
			solana.Meta(leaderboard).WRITE(),
			solana.Meta(solana.SystemProgramID),
		},
		disc[:],
	), nil
}

// NewCreateProjectInstruction builds a burn-gated project registration for
// the next sequential project id.
func NewCreateProjectInstruction(creator, tokenAccount solana.PublicKey, expectedProjectID, burnAmount uint64) (*solana.GenericInstruction, error) {
	counter, _, err := DeriveGlobalCounter()
	if err != nil {
		return nil, fmt.Errorf("failed to derive counter PDA: %w", err)
	}
	project, _, err := DeriveProject(expectedProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive project PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	leaderboard, _, err := DeriveBurnLeaderboard()
	if err != nil {
		return nil, fmt.Errorf("failed to derive leaderboard PDA: %w", err)
	}
	data := make([]byte, 24)
	copy(data, discCreateProject[:])
	binary.LittleEndian.PutUint64(data[8:], expectedProjectID)
	binary.LittleEndian.PutUint64(data[16:], burnAmount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(creator).WRITE().SIGNER(),
			solana.Meta(counter).WRITE(),
			solana.Meta(project).WRITE(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(tokenAccount).WRITE(),
			solana.Meta(stats).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(memoburn.ProgramID),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
			solana.Meta(leaderboard).WRITE(),
		},
		data,
	), nil
}

// NewUpdateProjectInstruction builds a burn-gated metadata update by the
// project creator.
func NewUpdateProjectInstruction(creator, tokenAccount solana.PublicKey, projectID, burnAmount uint64) (*solana.GenericInstruction, error) {
	return burnGatedProjectInstruction(discUpdateProject, creator, tokenAccount, projectID, burnAmount)
}

// NewBurnForProjectInstruction builds a support burn against an existing
// project by any user.
func NewBurnForProjectInstruction(burner, tokenAccount solana.PublicKey, projectID, amount uint64) (*solana.GenericInstruction, error) {
	return burnGatedProjectInstruction(discBurnForProject, burner, tokenAccount, projectID, amount)
}

func burnGatedProjectInstruction(disc [8]byte, user, tokenAccount solana.PublicKey, projectID, amount uint64) (*solana.GenericInstruction, error) {
	project, _, err := DeriveProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive project PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	leaderboard, _, err := DeriveBurnLeaderboard()
	if err != nil {
		return nil, fmt.Errorf("failed to derive leaderboard PDA: %w", err)
	}
	data := make([]byte, 24)
	copy(data, disc[:])
	binary.LittleEndian.PutUint64(data[8:], projectID)
	binary.LittleEndian.PutUint64(data[16:], amount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(project).WRITE(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(tokenAccount).WRITE(),
			solana.Meta(stats).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(memoburn.ProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
			solana.Meta(leaderboard).WRITE(),
		},
		data,
	), nil
}
