package envelope

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/runtime"
)

// Memo length bounds. The burn-side maximum leaves room for the full
// payload budget; the mint side is tighter.
const (
	MemoMinLength     = 69
	MemoMaxLength     = 800
	MintMemoMaxLength = 769
)

var (
	ErrMemoMissing  = errors.New("transaction carries no memo instruction")
	ErrMemoEmpty    = errors.New("memo data is empty")
	ErrMemoTooShort = errors.New("memo too short")
	ErrMemoTooLong  = errors.New("memo too long")
)

// FindMemo locates the memo instruction in the transaction via the
// instructions sysvar view. Index 1 is the expected position and is probed
// first; if it is not a memo, indices 0..current are swept in order
// (skipping 1). The first match wins; any further memo instructions are
// never consulted.
func FindMemo(ctx *runtime.Context) ([]byte, error) {
	if ctx.CurrentIndex() > 1 {
		if ix, err := ctx.InstructionAt(1); err == nil && ix.ProgramID.Equals(solana.MemoProgramID) {
			return ix.Data, nil
		}
	}
	for i := 0; i < ctx.CurrentIndex(); i++ {
		if i == 1 {
			continue
		}
		ix, err := ctx.InstructionAt(i)
		if err != nil {
			return nil, err
		}
		if ix.ProgramID.Equals(solana.MemoProgramID) {
			return ix.Data, nil
		}
	}
	return nil, ErrMemoMissing
}

// ValidateLength enforces the memo length bounds for an operation.
func ValidateLength(memoData []byte, minLength, maxLength int) error {
	if len(memoData) == 0 {
		return ErrMemoEmpty
	}
	if len(memoData) < minLength {
		return fmt.Errorf("%w: %d bytes (minimum %d)", ErrMemoTooShort, len(memoData), minLength)
	}
	if len(memoData) > maxLength {
		return fmt.Errorf("%w: %d bytes (maximum %d)", ErrMemoTooLong, len(memoData), maxLength)
	}
	return nil
}

// RequireInstructionsSysvar checks that the account passed as the
// instructions sysvar really is the sysvar; reading the memo from anywhere
// else would let a caller spoof it.
func RequireInstructionsSysvar(ref *runtime.AccountRef) error {
	if !ref.Key.Equals(solana.SysVarInstructionsPubkey) {
		return fmt.Errorf("account %s is not the instructions sysvar", ref.Key)
	}
	return nil
}

// Amount rules shared by every burn-gated operation.
var (
	ErrAmountTooSmall = errors.New("burn amount below minimum")
	ErrAmountTooLarge = errors.New("burn amount above per-transaction maximum")
	ErrAmountNotWhole = errors.New("burn amount is not a whole-token multiple")
)

// DecimalFactor converts whole tokens to base units (6 decimals).
const DecimalFactor uint64 = 1_000_000

// MaxBurnPerTx caps a single burn at one trillion whole tokens.
const MaxBurnPerTx uint64 = 1_000_000_000_000 * DecimalFactor

// ValidateAmount enforces the amount rules: at least minAmount base units,
// at most MaxBurnPerTx, and a whole-token multiple.
func ValidateAmount(amount, minAmount uint64) error {
	if amount < minAmount {
		return fmt.Errorf("%w: %d units (minimum %d)", ErrAmountTooSmall, amount, minAmount)
	}
	if amount > MaxBurnPerTx {
		return fmt.Errorf("%w: %d units", ErrAmountTooLarge, amount)
	}
	if amount%DecimalFactor != 0 {
		return fmt.Errorf("%w: %d units", ErrAmountNotWhole, amount)
	}
	return nil
}

// Header validation shared by the typed payload records.
var (
	ErrPayloadVersion  = errors.New("unsupported payload version")
	ErrWrongCategory   = errors.New("payload category mismatch")
	ErrWrongOperation  = errors.New("payload operation mismatch")
	ErrBadSignerPubkey = errors.New("payload signer pubkey is not a valid base58 key")
	ErrSignerMismatch  = errors.New("payload signer does not match transaction signer")
)

// ValidateHeader checks the common head of a typed payload: structure
// version, exact category and operation tags, and that the embedded signer
// pubkey string names the actual transaction signer.
func ValidateHeader(version uint8, category, operation, signer string, wantCategory, wantOperation string, expectedSigner solana.PublicKey) error {
	if version != BurnMemoVersion {
		return fmt.Errorf("%w: %d", ErrPayloadVersion, version)
	}
	if category != wantCategory {
		return fmt.Errorf("%w: %q (expected %q)", ErrWrongCategory, category, wantCategory)
	}
	if operation != wantOperation {
		return fmt.Errorf("%w: %q (expected %q)", ErrWrongOperation, operation, wantOperation)
	}
	parsed, err := solana.PublicKeyFromBase58(signer)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrBadSignerPubkey, signer)
	}
	if !parsed.Equals(expectedSigner) {
		return fmt.Errorf("%w: %s vs %s", ErrSignerMismatch, parsed, expectedSigner)
	}
	return nil
}
