package memomint

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/token"
)

// NewProcessMintInstruction builds a mint of the fixed grant to the user's
// own token account.
func NewProcessMintInstruction(user, tokenAccount solana.PublicKey) (*solana.GenericInstruction, error) {
	authority, _, err := DeriveMintAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to derive mint authority PDA: %w", err)
	}
	disc := discProcessMint
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(user).WRITE().SIGNER(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(authority),
			solana.Meta(tokenAccount).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
		},
		disc[:],
	), nil
}

// NewProcessMintToInstruction builds a mint of the fixed grant to the
// recipient's token account, paid for by caller.
func NewProcessMintToInstruction(caller, recipient, recipientTokenAccount solana.PublicKey) (*solana.GenericInstruction, error) {
	authority, _, err := DeriveMintAuthority()
	if err != nil {
		return nil, fmt.Errorf("failed to derive mint authority PDA: %w", err)
	}
	data := make([]byte, 40)
	copy(data, discProcessMintTo[:])
	copy(data[8:], recipient.Bytes())

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(caller).WRITE().SIGNER(),
			solana.Meta(AuthorizedMint).WRITE(),
			solana.Meta(authority),
			solana.Meta(recipientTokenAccount).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
		},
		data,
	), nil
}

// NewUpdateAuthorizedMintInstruction builds the admin log-only mint update.
func NewUpdateAuthorizedMintInstruction(admin, candidate solana.PublicKey) *solana.GenericInstruction {
	data := make([]byte, 40)
	copy(data, discUpdateAuthorizedMint[:])
	copy(data[8:], candidate.Bytes())

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(admin).SIGNER(),
		},
		data,
	)
}
