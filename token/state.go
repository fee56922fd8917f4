package token

import (
	"encoding/binary"
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ProgramID - SPL Token-2022.
var ProgramID = solana.Token2022ProgramID

// Fixed record sizes of the token program's own layouts.
const (
	MintSize    = 82
	AccountSize = 165
)

var (
	ErrInvalidMintData    = errors.New("token: invalid mint account data")
	ErrInvalidAccountData = errors.New("token: invalid token account data")
)

// Mint mirrors the token program's mint record.
type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        uint8
	Initialized     bool
	FreezeAuthority *solana.PublicKey
}

// Account mirrors the token program's token-account record. Only the fields
// this system reads are modelled; the rest of the layout stays zeroed.
type Account struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// COption layout: 4-byte little-endian tag then the 32-byte pubkey.
func putCOptionKey(dst []byte, key *solana.PublicKey) {
	if key == nil {
		return
	}
	binary.LittleEndian.PutUint32(dst[:4], 1)
	copy(dst[4:36], key.Bytes())
}

func getCOptionKey(src []byte) *solana.PublicKey {
	if binary.LittleEndian.Uint32(src[:4]) == 0 {
		return nil
	}
	key := solana.PublicKeyFromBytes(src[4:36])
	return &key
}

// Marshal encodes the mint into its 82-byte layout.
func (m *Mint) Marshal() []byte {
	data := make([]byte, MintSize)
	putCOptionKey(data[0:36], m.MintAuthority)
	binary.LittleEndian.PutUint64(data[36:44], m.Supply)
	data[44] = m.Decimals
	if m.Initialized {
		data[45] = 1
	}
	putCOptionKey(data[46:82], m.FreezeAuthority)
	return data
}

// DecodeMint parses an 82-byte mint record.
func DecodeMint(data []byte) (*Mint, error) {
	if len(data) != MintSize {
		return nil, ErrInvalidMintData
	}
	return &Mint{
		MintAuthority:   getCOptionKey(data[0:36]),
		Supply:          binary.LittleEndian.Uint64(data[36:44]),
		Decimals:        data[44],
		Initialized:     data[45] == 1,
		FreezeAuthority: getCOptionKey(data[46:82]),
	}, nil
}

// Marshal encodes the token account into its 165-byte layout.
func (a *Account) Marshal() []byte {
	data := make([]byte, AccountSize)
	copy(data[0:32], a.Mint.Bytes())
	copy(data[32:64], a.Owner.Bytes())
	binary.LittleEndian.PutUint64(data[64:72], a.Amount)
	data[108] = 1 // state = initialized
	return data
}

// DecodeAccount parses a 165-byte token-account record.
func DecodeAccount(data []byte) (*Account, error) {
	if len(data) != AccountSize || data[108] != 1 {
		return nil, ErrInvalidAccountData
	}
	return &Account{
		Mint:   solana.PublicKeyFromBytes(data[0:32]),
		Owner:  solana.PublicKeyFromBytes(data[32:64]),
		Amount: binary.LittleEndian.Uint64(data[64:72]),
	}, nil
}
