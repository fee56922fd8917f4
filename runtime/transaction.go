package runtime

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Instruction is one entry of a transaction: target program, ordered account
// metas and opaque data bytes.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []solana.AccountMeta
	Data      []byte
}

// Transaction is an ordered instruction list executed atomically.
type Transaction struct {
	Instructions []Instruction
}

// CompileInstruction converts a client-built instruction into the runtime
// representation.
func CompileInstruction(ix solana.Instruction) (Instruction, error) {
	data, err := ix.Data()
	if err != nil {
		return Instruction{}, fmt.Errorf("failed to get instruction data: %w", err)
	}
	metas := make([]solana.AccountMeta, 0, len(ix.Accounts()))
	for _, meta := range ix.Accounts() {
		metas = append(metas, *meta)
	}
	return Instruction{
		ProgramID: ix.ProgramID(),
		Accounts:  metas,
		Data:      data,
	}, nil
}

// NewTransaction compiles client-built instructions into a transaction,
// preserving order. Signer flags on the account metas are taken as verified
// signatures.
func NewTransaction(ixs ...solana.Instruction) (Transaction, error) {
	tx := Transaction{Instructions: make([]Instruction, 0, len(ixs))}
	for i, ix := range ixs {
		compiled, err := CompileInstruction(ix)
		if err != nil {
			return Transaction{}, fmt.Errorf("instruction %d: %w", i, err)
		}
		tx.Instructions = append(tx.Instructions, compiled)
	}
	return tx, nil
}
