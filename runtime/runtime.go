package runtime

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// ComputeBudgetProgramID - host compute budget program (no-op here).
var ComputeBudgetProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

var (
	ErrUnknownProgram   = errors.New("no program registered for program id")
	ErrInvalidMemoData  = errors.New("memo data must be valid UTF-8")
	ErrSignerEscalation = errors.New("instruction requires a signer the caller cannot provide")
)

// Program is an executable registered under its program id. Execute receives
// the raw instruction data (discriminator included).
type Program interface {
	ID() solana.PublicKey
	Execute(ctx *Context, data []byte) error
}

// Runtime executes transactions against a ledger. It owns program dispatch,
// the clock, and the program log sink.
type Runtime struct {
	ledger   *Ledger
	programs map[solana.PublicKey]Program
	now      func() int64
	log      *zap.SugaredLogger
}

type Option func(*Runtime)

// WithClock overrides the unix-seconds clock source.
func WithClock(now func() int64) Option {
	return func(r *Runtime) { r.now = now }
}

// WithLogger sets the program log sink.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runtime) { r.log = logger.Sugar() }
}

func New(opts ...Option) *Runtime {
	r := &Runtime{
		ledger:   NewLedger(),
		programs: make(map[solana.PublicKey]Program),
		now:      func() int64 { return time.Now().Unix() },
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runtime) Register(p Program) {
	r.programs[p.ID()] = p
}

func (r *Runtime) Ledger() *Ledger {
	return r.ledger
}

// ExecuteTransaction runs every instruction in order. All account writes are
// staged on a working set and committed only if every instruction succeeds;
// any error aborts the transaction with no observable effects.
func (r *Runtime) ExecuteTransaction(tx Transaction) error {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()

	working := make(map[solana.PublicKey]*Account)
	for i := range tx.Instructions {
		ctx := &Context{
			rt:      r,
			tx:      &tx,
			index:   i,
			working: working,
		}
		if err := r.dispatch(ctx, tx.Instructions[i], nil); err != nil {
			return fmt.Errorf("instruction %d failed: %w", i, err)
		}
	}
	r.ledger.commit(working)
	return nil
}

// dispatch resolves accounts and runs one instruction. allowedSigners is nil
// for top-level instructions (metas are trusted) and carries the caller's
// signer set plus PDA signers for cross-program invocations.
func (r *Runtime) dispatch(ctx *Context, ix Instruction, allowedSigners map[solana.PublicKey]bool) error {
	switch {
	case ix.ProgramID.Equals(solana.MemoProgramID):
		if !utf8.Valid(ix.Data) {
			return ErrInvalidMemoData
		}
		return nil
	case ix.ProgramID.Equals(ComputeBudgetProgramID):
		return nil
	case ix.ProgramID.Equals(solana.SystemProgramID):
		// Account creation runs through Context helpers; a bare system
		// instruction in a transaction is a no-op here.
		return nil
	}

	program, ok := r.programs[ix.ProgramID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, ix.ProgramID)
	}

	refs := make([]*AccountRef, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		if meta.IsSigner && allowedSigners != nil && !allowedSigners[meta.PublicKey] {
			return fmt.Errorf("%w: %s", ErrSignerEscalation, meta.PublicKey)
		}
		refs = append(refs, &AccountRef{
			Key:        meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    ctx.loadWorking(meta.PublicKey),
		})
	}

	ctx.program = ix.ProgramID
	ctx.accounts = refs
	return program.Execute(ctx, ix.Data)
}

func (r *Runtime) logf(program solana.PublicKey, format string, args ...interface{}) {
	r.log.Infof("program %s: %s", program.String(), fmt.Sprintf(format, args...))
}
