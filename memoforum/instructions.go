package memoforum

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/memoburn"
	"memocore/memomint"
	"memocore/token"
)

// NewInitializeGlobalCounterInstruction builds the one-time admin setup of
// the post counter.
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

// NewCreatePostInstruction builds a burn-gated post creation for the next
// sequential post id.
func NewCreatePostInstruction(creator, tokenAccount solana.PublicKey, expectedPostID, burnAmount uint64) (*solana.GenericInstruction, error) {
	counter, _, err := DeriveGlobalCounter()
	if err != nil {
		return nil, fmt.Errorf("failed to derive counter PDA: %w", err)
	}
	post, _, err := DerivePost(expectedPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive post PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 24)
	copy(data, discCreatePost[:])
	binary.LittleEndian.PutUint64(data[8:], expectedPostID)
	binary.LittleEndian.PutUint64(data[16:], burnAmount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(creator).WRITE().SIGNER(),
			solana.Meta(counter).WRITE(),
			solana.Meta(post).WRITE(),
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

// NewBurnForPostInstruction builds a burn reply to an existing post.
func NewBurnForPostInstruction(user, tokenAccount solana.PublicKey, postID, amount uint64) (*solana.GenericInstruction, error) {
	post, _, err := DerivePost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive post PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(user)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 24)
	copy(data, discBurnForPost[:])
	binary.LittleEndian.PutUint64(data[8:], postID)
	binary.LittleEndian.PutUint64(data[16:], amount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(post).WRITE(),
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

// NewMintForPostInstruction builds a mint reply to an existing post.
func NewMintForPostInstruction(user, tokenAccount solana.PublicKey, postID uint64) (*solana.GenericInstruction, error) {
	post, _, err := DerivePost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive post PDA: %w", err)
	}
	authority, _, err := memomint.DeriveMintAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to derive mint authority PDA: %w", err)
	}
	data := make([]byte, 16)
	copy(data, discMintForPost[:])
	binary.LittleEndian.PutUint64(data[8:], postID)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(post).WRITE(),
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
