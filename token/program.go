package token

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// Instruction opcodes (single byte, followed by positional arguments).
const (
	OpSetAuthority byte = 6
	OpMintTo       byte = 7
	OpBurn         byte = 8
)

// Authority kinds accepted by set_authority.
const (
	AuthorityMintTokens byte = 0
)

var (
	ErrInvalidInstruction   = errors.New("token: invalid instruction data")
	ErrOwnerMismatch        = errors.New("token: owner does not match")
	ErrMintMismatch         = errors.New("token: account mint does not match")
	ErrMissingSignature     = errors.New("token: authority signature missing")
	ErrInsufficientFunds    = errors.New("token: insufficient funds")
	ErrFixedSupplyAuthority = errors.New("token: mint has no mint authority")
	ErrAuthorityMismatch    = errors.New("token: authority does not match")
)

// Program is the token program: burn, mint_to and set_authority are the
// operations this system invokes; everything else about the token program is
// out of scope.
type Program struct{}

func (Program) ID() solana.PublicKey {
	return ProgramID
}

func (p Program) Execute(ctx *runtime.Context, data []byte) error {
	if len(data) < 1 {
		return ErrInvalidInstruction
	}
	switch data[0] {
	case OpBurn:
		return p.burn(ctx, data[1:])
	case OpMintTo:
		return p.mintTo(ctx, data[1:])
	case OpSetAuthority:
		return p.setAuthority(ctx, data[1:])
	default:
		return fmt.Errorf("%w: opcode %d", ErrInvalidInstruction, data[0])
	}
}

// burn accounts: [source, mint, authority].
func (Program) burn(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return ErrInvalidInstruction
	}
	amount := binary.LittleEndian.Uint64(args)

	source, err := ctx.Account(0)
	if err != nil {
		return err
	}
	mintRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	authority, err := ctx.Account(2)
	if err != nil {
		return err
	}
	if !authority.IsSigner {
		return ErrMissingSignature
	}

	account, err := DecodeAccount(source.Account.Data)
	if err != nil {
		return err
	}
	mint, err := DecodeMint(mintRef.Account.Data)
	if err != nil {
		return err
	}
	if !account.Mint.Equals(mintRef.Key) {
		return ErrMintMismatch
	}
	if !account.Owner.Equals(authority.Key) {
		return ErrOwnerMismatch
	}
	if account.Amount < amount {
		return ErrInsufficientFunds
	}

	account.Amount -= amount
	mint.Supply -= amount
	if err := source.SetData(account.Marshal()); err != nil {
		return err
	}
	return mintRef.SetData(mint.Marshal())
}

// mintTo accounts: [mint, destination, authority].
func (Program) mintTo(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return ErrInvalidInstruction
	}
	amount := binary.LittleEndian.Uint64(args)

	mintRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	dest, err := ctx.Account(1)
	if err != nil {
		return err
	}
	authority, err := ctx.Account(2)
	if err != nil {
		return err
	}
	if !authority.IsSigner {
		return ErrMissingSignature
	}

	mint, err := DecodeMint(mintRef.Account.Data)
	if err != nil {
		return err
	}
	if mint.MintAuthority == nil {
		return ErrFixedSupplyAuthority
	}
	if !mint.MintAuthority.Equals(authority.Key) {
		return ErrAuthorityMismatch
	}
	account, err := DecodeAccount(dest.Account.Data)
	if err != nil {
		return err
	}
	if !account.Mint.Equals(mintRef.Key) {
		return ErrMintMismatch
	}

	mint.Supply += amount
	account.Amount += amount
	if err := mintRef.SetData(mint.Marshal()); err != nil {
		return err
	}
	return dest.SetData(account.Marshal())
}

// setAuthority accounts: [mint, current authority].
// args: authority kind, option tag, new authority pubkey when present.
func (Program) setAuthority(ctx *runtime.Context, args []byte) error {
	if len(args) < 2 {
		return ErrInvalidInstruction
	}
	if args[0] != AuthorityMintTokens {
		return fmt.Errorf("%w: authority kind %d", ErrInvalidInstruction, args[0])
	}
	var newAuthority *solana.PublicKey
	switch args[1] {
	case 0:
		if len(args) != 2 {
			return ErrInvalidInstruction
		}
	case 1:
		if len(args) != 34 {
			return ErrInvalidInstruction
		}
		key := solana.PublicKeyFromBytes(args[2:34])
		newAuthority = &key
	default:
		return ErrInvalidInstruction
	}

	mintRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	current, err := ctx.Account(1)
	if err != nil {
		return err
	}
	if !current.IsSigner {
		return ErrMissingSignature
	}

	mint, err := DecodeMint(mintRef.Account.Data)
	if err != nil {
		return err
	}
	if mint.MintAuthority == nil {
		return ErrFixedSupplyAuthority
	}
	if !mint.MintAuthority.Equals(current.Key) {
		return ErrAuthorityMismatch
	}

	mint.MintAuthority = newAuthority
	return mintRef.SetData(mint.Marshal())
}
