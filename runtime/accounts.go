package runtime

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Account is a single record in the ledger: owner program, lamport balance
// and raw data bytes. The owning program is the only writer of Data.
type Account struct {
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// Exists reports whether the account has been allocated on the ledger.
func (a *Account) Exists() bool {
	return a != nil && (a.Lamports > 0 || len(a.Data) > 0)
}

func (a *Account) clone() *Account {
	if a == nil {
		return nil
	}
	cp := &Account{
		Owner:    a.Owner,
		Lamports: a.Lamports,
	}
	if len(a.Data) > 0 {
		cp.Data = make([]byte, len(a.Data))
		copy(cp.Data, a.Data)
	}
	return cp
}

// Ledger is the account registry. Transactions take the ledger lock for
// their whole execution, which gives the per-account serialization the host
// chain would otherwise provide.
type Ledger struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey]*Account
}

func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[solana.PublicKey]*Account),
	}
}

// Account returns a copy of the record at key, or nil if unallocated.
func (l *Ledger) Account(key solana.PublicKey) *Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts[key].clone()
}

// SetAccount installs a record directly. Intended for genesis-style setup;
// everything after that should go through transactions.
func (l *Ledger) SetAccount(key solana.PublicKey, acc *Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !acc.Exists() {
		delete(l.accounts, key)
		return
	}
	l.accounts[key] = acc.clone()
}

// Balance returns the lamport balance at key (0 if unallocated).
func (l *Ledger) Balance(key solana.PublicKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acc, ok := l.accounts[key]; ok {
		return acc.Lamports
	}
	return 0
}

func (l *Ledger) commit(working map[solana.PublicKey]*Account) {
	for key, acc := range working {
		if !acc.Exists() {
			delete(l.accounts, key)
			continue
		}
		l.accounts[key] = acc
	}
}

// Rent model: flat per-byte cost plus the account overhead, matching the
// rent-exempt minimum shape of the host chain.
const (
	rentPerByteYear     = 3480
	rentExemptYears     = 2
	accountRentOverhead = 128
)

// RentExemptMinimum returns the lamports an account of the given data size
// must hold to be allocated.
func RentExemptMinimum(size int) uint64 {
	return uint64(accountRentOverhead+size) * rentPerByteYear * rentExemptYears
}
