package memomint

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/envelope"
	"memocore/runtime"
	"memocore/token"
)

var (
	discProcessMint          = runtime.InstructionDiscriminator("process_mint")
	discProcessMintTo        = runtime.InstructionDiscriminator("process_mint_to")
	discUpdateAuthorizedMint = runtime.InstructionDiscriminator("update_authorized_mint")
)

// Program grants a fixed one-token mint per memo-carrying transaction,
// signing the token CPI with the mint authority PDA.
type Program struct{}

func (Program) ID() solana.PublicKey {
	return ProgramID
}

func (p Program) Execute(ctx *runtime.Context, data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("instruction data too short: %d bytes", len(data))
	}
	disc, args := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, discProcessMint[:]):
		return p.processMint(ctx, args)
	case bytes.Equal(disc, discProcessMintTo[:]):
		return p.processMintTo(ctx, args)
	case bytes.Equal(disc, discUpdateAuthorizedMint[:]):
		return p.updateAuthorizedMint(ctx, args)
	default:
		return fmt.Errorf("unknown instruction discriminator %x", disc)
	}
}

// processMint accounts:
// [user (signer, w), mint (w), mint_authority, token_account (w),
//  token_program, instructions sysvar]. Mints to the caller's own account.
func (p Program) processMint(ctx *runtime.Context, args []byte) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected instruction args: %d bytes", len(args))
	}
	userRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	if !userRef.IsSigner {
		return ErrMissingSignature
	}
	return p.executeMint(ctx, userRef.Key)
}

// processMintTo accounts are the same shape with the recipient's token
// account in place of the caller's; args carry the recipient pubkey.
func (p Program) processMintTo(ctx *runtime.Context, args []byte) error {
	if len(args) != 32 {
		return fmt.Errorf("expected recipient pubkey, got %d bytes", len(args))
	}
	callerRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	if !callerRef.IsSigner {
		return ErrMissingSignature
	}
	recipient := solana.PublicKeyFromBytes(args)
	return p.executeMint(ctx, recipient)
}

// executeMint is the shared path of both mint entrypoints: memo presence and
// length, account binding, supply cap, then the PDA-signed token CPI.
func (Program) executeMint(ctx *runtime.Context, owner solana.PublicKey) error {
	mintRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	authorityRef, err := ctx.Account(2)
	if err != nil {
		return err
	}
	tokenRef, err := ctx.Account(3)
	if err != nil {
		return err
	}
	if _, err := ctx.Account(4); err != nil {
		return err
	}
	sysvarRef, err := ctx.Account(5)
	if err != nil {
		return err
	}

	if err := envelope.RequireInstructionsSysvar(sysvarRef); err != nil {
		return err
	}
	if !mintRef.Key.Equals(AuthorizedMint) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedMint, mintRef.Key)
	}

	expected, bump, err := DeriveMintAuthority()
	if err != nil {
		return err
	}
	if !authorityRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrInvalidMintAuthority, authorityRef.Key, expected)
	}

	tokenAccount, err := token.DecodeAccount(tokenRef.Account.Data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTokenAccount, err)
	}
	if !tokenAccount.Mint.Equals(mintRef.Key) {
		return fmt.Errorf("%w: wrong mint %s", ErrInvalidTokenAccount, tokenAccount.Mint)
	}
	if !tokenAccount.Owner.Equals(owner) {
		return fmt.Errorf("%w: owner %s", ErrUnauthorizedTokenAccount, tokenAccount.Owner)
	}

	memoData, err := envelope.FindMemo(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMemoRequired, err)
	}
	if err := validateMemo(memoData); err != nil {
		return err
	}

	mint, err := token.DecodeMint(mintRef.Account.Data)
	if err != nil {
		return err
	}
	if mint.Supply >= MaxSupply || mint.Supply+MintAmount > MaxSupply {
		return fmt.Errorf("%w: supply %d", ErrSupplyLimitReached, mint.Supply)
	}

	mintIx, err := runtime.CompileInstruction(
		token.NewMintToInstruction(mintRef.Key, tokenRef.Key, authorityRef.Key, MintAmount))
	if err != nil {
		return err
	}
	if err := ctx.Invoke(mintIx, [][]byte{SeedMintAuthority, {bump}}); err != nil {
		return fmt.Errorf("token mint failed: %w", err)
	}

	ctx.Logf("minted %d units to %s, supply now %d, memo length %d bytes",
		MintAmount, owner, mint.Supply+MintAmount, len(memoData))
	return nil
}

// updateAuthorizedMint accounts: [admin (signer)]; args carry the candidate
// mint pubkey. Log only, no state changes.
func (Program) updateAuthorizedMint(ctx *runtime.Context, args []byte) error {
	if len(args) != 32 {
		return fmt.Errorf("expected mint pubkey, got %d bytes", len(args))
	}
	adminRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	if !adminRef.IsSigner {
		return ErrMissingSignature
	}
	if !adminRef.Key.Equals(AdminPubkey) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedAdmin, adminRef.Key)
	}
	candidate := solana.PublicKeyFromBytes(args)
	ctx.Logf("authorized mint update requested: %s (compiled-in mint stays %s)", candidate, AuthorizedMint)
	return nil
}

// validateMemo enforces the mint-side memo rules: length bounds and no null
// bytes. The envelope content is not inspected further here.
func validateMemo(memoData []byte) error {
	if err := envelope.ValidateLength(memoData, MemoMinLength, MemoMaxLength); err != nil {
		switch {
		case errors.Is(err, envelope.ErrMemoEmpty), errors.Is(err, envelope.ErrMemoTooShort):
			return fmt.Errorf("%w: %d bytes", ErrMemoTooShort, len(memoData))
		default:
			return fmt.Errorf("%w: %d bytes", ErrMemoTooLong, len(memoData))
		}
	}
	if bytes.IndexByte(memoData, 0) >= 0 {
		return ErrInvalidMemoFormat
	}
	return nil
}

// DeriveMintAuthority returns the mint authority PDA and bump.
func DeriveMintAuthority() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedMintAuthority}, ProgramID)
}
