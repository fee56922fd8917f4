package memoblog

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/memoburn"
	"memocore/memomint"
	"memocore/token"
)

func burnGatedMetas(signer, blog, tokenAccount, stats solana.PublicKey, withSystem bool) solana.AccountMetaSlice {
	metas := solana.AccountMetaSlice{
		solana.Meta(signer).WRITE().SIGNER(),
		solana.Meta(blog).WRITE(),
		solana.Meta(AuthorizedMint).WRITE(),
		solana.Meta(tokenAccount).WRITE(),
		solana.Meta(stats).WRITE(),
		solana.Meta(token.ProgramID),
		solana.Meta(memoburn.ProgramID),
	}
	if withSystem {
		metas = append(metas, solana.Meta(solana.SystemProgramID))
	}
	return append(metas, solana.Meta(solana.SysVarInstructionsPubkey))
}

// NewCreateBlogInstruction builds a burn-gated blog creation.
func NewCreateBlogInstruction(creator, tokenAccount solana.PublicKey, burnAmount uint64) (*solana.GenericInstruction, error) {
	blog, _, err := DeriveBlog(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive blog PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 16)
	copy(data, discCreateBlog[:])
	binary.LittleEndian.PutUint64(data[8:], burnAmount)

	return solana.NewInstruction(ProgramID,
		burnGatedMetas(creator, blog, tokenAccount, stats, true), data), nil
}

// NewUpdateBlogInstruction builds a burn-gated blog update.
func NewUpdateBlogInstruction(creator, tokenAccount solana.PublicKey, burnAmount uint64) (*solana.GenericInstruction, error) {
	blog, _, err := DeriveBlog(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive blog PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 16)
	copy(data, discUpdateBlog[:])
	binary.LittleEndian.PutUint64(data[8:], burnAmount)

	return solana.NewInstruction(ProgramID,
		burnGatedMetas(creator, blog, tokenAccount, stats, false), data), nil
}

// NewBurnForBlogInstruction builds a burn credited to the creator's blog.
func NewBurnForBlogInstruction(creator, tokenAccount solana.PublicKey, amount uint64) (*solana.GenericInstruction, error) {
	blog, _, err := DeriveBlog(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive blog PDA: %w", err)
	}
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive stats PDA: %w", err)
	}
	data := make([]byte, 16)
	copy(data, discBurnForBlog[:])
	binary.LittleEndian.PutUint64(data[8:], amount)

	return solana.NewInstruction(ProgramID,
		burnGatedMetas(creator, blog, tokenAccount, stats, false), data), nil
}

// NewMintForBlogInstruction builds a mint of the fixed grant credited to the
// creator's blog.
func NewMintForBlogInstruction(creator, tokenAccount solana.PublicKey) (*solana.GenericInstruction, error) {
	blog, _, err := DeriveBlog(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to derive blog PDA: %w", err)
	}
	authority, _, err := memomint.DeriveMintAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to derive mint authority PDA: %w", err)
	}
	disc := discMintForBlog
	return solana.NewInstruction(ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(creator).WRITE().SIGNER(),
			solana.Meta(blog).WRITE(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(authority),
			solana.Meta(tokenAccount).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(memomint.ProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
		},
		disc[:],
	), nil
}
