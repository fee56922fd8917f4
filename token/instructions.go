package token

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// NewBurnInstruction builds a burn of amount units from source, signed by
// the account owner.
func NewBurnInstruction(source, mint, authority solana.PublicKey, amount uint64) *solana.GenericInstruction {
	data := make([]byte, 9)
	data[0] = OpBurn
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(source).WRITE(),
			solana.Meta(mint).WRITE(),
			solana.Meta(authority).SIGNER(),
		},
		data,
	)
}

// NewMintToInstruction builds a mint of amount units to destination, signed
// by the mint authority.
func NewMintToInstruction(mint, destination, authority solana.PublicKey, amount uint64) *solana.GenericInstruction {
	data := make([]byte, 9)
	data[0] = OpMintTo
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
			solana.Meta(destination).WRITE(),
			solana.Meta(authority).SIGNER(),
		},
		data,
	)
}

// NewSetAuthorityInstruction transfers the mint authority (nil revokes it).
func NewSetAuthorityInstruction(mint, currentAuthority solana.PublicKey, newAuthority *solana.PublicKey) *solana.GenericInstruction {
	data := []byte{OpSetAuthority, AuthorityMintTokens, 0}
	if newAuthority != nil {
		data[2] = 1
		data = append(data, newAuthority.Bytes()...)
	}

	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
			solana.Meta(currentAuthority).SIGNER(),
		},
		data,
	)
}

// InitMint writes a mint record directly into the ledger. Genesis helper:
// production mints are created by the token program's own tooling.
func InitMint(ledger *runtime.Ledger, mint solana.PublicKey, authority *solana.PublicKey, decimals uint8, supply uint64) {
	record := &Mint{
		MintAuthority: authority,
		Supply:        supply,
		Decimals:      decimals,
		Initialized:   true,
	}
	ledger.SetAccount(mint, &runtime.Account{
		Owner:    ProgramID,
		Lamports: runtime.RentExemptMinimum(MintSize),
		Data:     record.Marshal(),
	})
}

// InitAccount writes a token-account record directly into the ledger.
func InitAccount(ledger *runtime.Ledger, address, mint, owner solana.PublicKey, amount uint64) {
	record := &Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
	}
	ledger.SetAccount(address, &runtime.Account{
		Owner:    ProgramID,
		Lamports: runtime.RentExemptMinimum(AccountSize),
		Data:     record.Marshal(),
	})
}
