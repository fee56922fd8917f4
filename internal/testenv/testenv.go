// Package testenv wires the full program family into an in-memory runtime
// for the package tests.
package testenv

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap/zaptest"

	"memocore/memoblog"
	"memocore/memoburn"
	"memocore/memochat"
	"memocore/memoforum"
	"memocore/memomint"
	"memocore/memoprofile"
	"memocore/memoproject"
	"memocore/runtime"
	"memocore/token"
)

// GenesisTime is the fixed clock start of every environment.
const GenesisTime int64 = 1_700_000_000

// Env is a runtime with every program registered, the authorized mint
// installed under the mint-authority PDA, and a controllable clock.
type Env struct {
	RT  *runtime.Runtime
	now int64
}

func New(t *testing.T) *Env {
	t.Helper()
	env := &Env{now: GenesisTime}
	env.RT = runtime.New(
		runtime.WithClock(func() int64 { return env.now }),
		runtime.WithLogger(zaptest.NewLogger(t)),
	)
	env.RT.Register(token.Program{})
	env.RT.Register(memoburn.Program{})
	env.RT.Register(memomint.Program{})
	env.RT.Register(memoprofile.Program{})
	env.RT.Register(memoblog.Program{})
	env.RT.Register(memoforum.Program{})
	env.RT.Register(memoproject.Program{})
	env.RT.Register(memochat.Program{})

	authority, _, err := memomint.DeriveMintAuthority()
	if err != nil {
		t.Fatalf("failed to derive mint authority: %v", err)
	}
	token.InitMint(env.RT.Ledger(), memoburn.AuthorizedMint, &authority, 6, 0)
	return env
}

// Advance moves the clock forward.
func (e *Env) Advance(seconds int64) {
	e.now += seconds
}

// Now returns the current clock reading.
func (e *Env) Now() int64 {
	return e.now
}

// NewUser allocates a keypair and a token account funded with the given
// base units, bumping the mint supply to match.
func (e *Env) NewUser(t *testing.T, units uint64) (user, tokenAccount solana.PublicKey) {
	t.Helper()
	user = solana.NewWallet().PublicKey()
	tokenAccount = solana.NewWallet().PublicKey()
	e.RT.Ledger().SetAccount(user, &runtime.Account{
		Owner:    solana.SystemProgramID,
		Lamports: 100 * solana.LAMPORTS_PER_SOL,
	})
	token.InitAccount(e.RT.Ledger(), tokenAccount, memoburn.AuthorizedMint, user, units)

	mintAcc := e.RT.Ledger().Account(memoburn.AuthorizedMint)
	mint, err := token.DecodeMint(mintAcc.Data)
	if err != nil {
		t.Fatalf("failed to decode mint: %v", err)
	}
	mint.Supply += units
	mintAcc.Data = mint.Marshal()
	e.RT.Ledger().SetAccount(memoburn.AuthorizedMint, mintAcc)
	return user, tokenAccount
}

// FundAccount gives a system account enough lamports to pay rent.
func (e *Env) FundAccount(key solana.PublicKey) {
	e.RT.Ledger().SetAccount(key, &runtime.Account{
		Owner:    solana.SystemProgramID,
		Lamports: 100 * solana.LAMPORTS_PER_SOL,
	})
}

// Execute compiles and runs a transaction.
func (e *Env) Execute(t *testing.T, ixs ...solana.Instruction) error {
	t.Helper()
	tx, err := runtime.NewTransaction(ixs...)
	if err != nil {
		t.Fatalf("failed to compile transaction: %v", err)
	}
	return e.RT.ExecuteTransaction(tx)
}

// TokenBalance reads a token account balance from the ledger.
func (e *Env) TokenBalance(t *testing.T, tokenAccount solana.PublicKey) uint64 {
	t.Helper()
	acc := e.RT.Ledger().Account(tokenAccount)
	if acc == nil {
		t.Fatalf("token account %s not found", tokenAccount)
	}
	record, err := token.DecodeAccount(acc.Data)
	if err != nil {
		t.Fatalf("failed to decode token account: %v", err)
	}
	return record.Amount
}

// MintSupply reads the authorized mint's supply from the ledger.
func (e *Env) MintSupply(t *testing.T) uint64 {
	t.Helper()
	acc := e.RT.Ledger().Account(memoburn.AuthorizedMint)
	if acc == nil {
		t.Fatalf("mint account not found")
	}
	mint, err := token.DecodeMint(acc.Data)
	if err != nil {
		t.Fatalf("failed to decode mint: %v", err)
	}
	return mint.Supply
}
