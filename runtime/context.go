package runtime

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrAccountIndexOutOfRange     = errors.New("account index out of range")
	ErrInstructionIndexOutOfRange = errors.New("instruction index out of range")
	ErrAccountNotWritable         = errors.New("account is not writable")
	ErrAccountAlreadyInUse        = errors.New("account already in use")
	ErrInsufficientLamports       = errors.New("payer has insufficient lamports")
	ErrMissingSignature           = errors.New("required signature is missing")
)

// AccountRef is one resolved account of the executing instruction. The
// Account pointer is the transaction-local working copy, shared with any
// sibling or nested instruction touching the same address.
type AccountRef struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Account    *Account
}

// SetData replaces the account data. The meta must be writable.
func (r *AccountRef) SetData(data []byte) error {
	if !r.IsWritable {
		return fmt.Errorf("%w: %s", ErrAccountNotWritable, r.Key)
	}
	r.Account.Data = data
	return nil
}

// Context is the execution context of a single instruction: resolved
// accounts, the enclosing transaction (for the instructions sysvar), the
// clock, and cross-program invocation.
type Context struct {
	rt       *Runtime
	tx       *Transaction
	index    int
	program  solana.PublicKey
	accounts []*AccountRef
	working  map[solana.PublicKey]*Account
}

func (c *Context) loadWorking(key solana.PublicKey) *Account {
	if acc, ok := c.working[key]; ok {
		return acc
	}
	acc := c.rt.ledger.accounts[key].clone()
	if acc == nil {
		acc = &Account{Owner: solana.SystemProgramID}
	}
	c.working[key] = acc
	return acc
}

// ProgramID returns the id of the executing program.
func (c *Context) ProgramID() solana.PublicKey {
	return c.program
}

// Account returns the i-th resolved account.
func (c *Context) Account(i int) (*AccountRef, error) {
	if i < 0 || i >= len(c.accounts) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrAccountIndexOutOfRange, i, len(c.accounts))
	}
	return c.accounts[i], nil
}

// AccountCount returns the number of resolved accounts.
func (c *Context) AccountCount() int {
	return len(c.accounts)
}

// CurrentIndex returns the position of the executing top-level instruction,
// as the instructions sysvar would report it. Nested invocations keep the
// index of their enclosing top-level instruction.
func (c *Context) CurrentIndex() int {
	return c.index
}

// InstructionCount returns the number of top-level instructions in the
// transaction.
func (c *Context) InstructionCount() int {
	return len(c.tx.Instructions)
}

// InstructionAt exposes the transaction's top-level instruction list, the
// same view the instructions sysvar gives on chain.
func (c *Context) InstructionAt(i int) (Instruction, error) {
	if i < 0 || i >= len(c.tx.Instructions) {
		return Instruction{}, fmt.Errorf("%w: %d", ErrInstructionIndexOutOfRange, i)
	}
	return c.tx.Instructions[i], nil
}

// UnixTimestamp returns the clock sysvar's unix time.
func (c *Context) UnixTimestamp() int64 {
	return c.rt.now()
}

// Logf emits a program log line.
func (c *Context) Logf(format string, args ...interface{}) {
	c.rt.logf(c.program, format, args...)
}

// Invoke performs a cross-program invocation. Each entry of signerSeeds
// lets the calling program sign for the program-derived address those seeds
// produce under the caller's program id. Signer privileges otherwise carry
// over from the caller's own signer set.
func (c *Context) Invoke(ix Instruction, signerSeeds ...[][]byte) error {
	allowed := make(map[solana.PublicKey]bool)
	for _, ref := range c.accounts {
		if ref.IsSigner {
			allowed[ref.Key] = true
		}
	}
	for _, seeds := range signerSeeds {
		pda, err := solana.CreateProgramAddress(seeds, c.program)
		if err != nil {
			return fmt.Errorf("invalid signer seeds: %w", err)
		}
		allowed[pda] = true
	}

	child := &Context{
		rt:      c.rt,
		tx:      c.tx,
		index:   c.index,
		working: c.working,
	}
	return c.rt.dispatch(child, ix, allowed)
}

// CreateAccount allocates ref as a fresh account of the given size, owned by
// owner, funding the rent-exempt minimum from payer.
func (c *Context) CreateAccount(ref, payer *AccountRef, owner solana.PublicKey, size int) error {
	if ref.Account.Exists() {
		return fmt.Errorf("%w: %s", ErrAccountAlreadyInUse, ref.Key)
	}
	if !ref.IsWritable {
		return fmt.Errorf("%w: %s", ErrAccountNotWritable, ref.Key)
	}
	if !payer.IsSigner {
		return fmt.Errorf("%w: payer %s", ErrMissingSignature, payer.Key)
	}
	if !payer.IsWritable {
		return fmt.Errorf("%w: payer %s", ErrAccountNotWritable, payer.Key)
	}
	rent := RentExemptMinimum(size)
	if payer.Account.Lamports < rent {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientLamports, rent, payer.Account.Lamports)
	}
	payer.Account.Lamports -= rent
	ref.Account.Owner = owner
	ref.Account.Lamports = rent
	ref.Account.Data = make([]byte, size)
	return nil
}

// CloseAccount deallocates ref and sends its lamports to dest.
func (c *Context) CloseAccount(ref, dest *AccountRef) error {
	if !ref.IsWritable {
		return fmt.Errorf("%w: %s", ErrAccountNotWritable, ref.Key)
	}
	if !dest.IsWritable {
		return fmt.Errorf("%w: %s", ErrAccountNotWritable, dest.Key)
	}
	dest.Account.Lamports += ref.Account.Lamports
	ref.Account.Lamports = 0
	ref.Account.Data = nil
	ref.Account.Owner = solana.SystemProgramID
	return nil
}
