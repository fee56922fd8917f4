package client

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/envelope"
	"memocore/runtime"
)

// DefaultComputeUnitLimit covers the deepest CPI chain (consumer program,
// burn program, token program).
const DefaultComputeUnitLimit uint32 = 400_000

// compute budget opcode for set_compute_unit_limit
const opSetComputeUnitLimit byte = 2

// NewComputeUnitLimitInstruction builds a compute budget request.
func NewComputeUnitLimitInstruction(units uint32) *solana.GenericInstruction {
	data := make([]byte, 5)
	data[0] = opSetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], units)
	return solana.NewInstruction(runtime.ComputeBudgetProgramID, solana.AccountMetaSlice{}, data)
}

// NewMemoInstruction wraps raw memo bytes in a memo program instruction.
func NewMemoInstruction(data []byte) *solana.GenericInstruction {
	return solana.NewInstruction(solana.MemoProgramID, solana.AccountMetaSlice{}, data)
}

// NewBurnMemoInstruction serializes a typed payload into the base64 burn
// envelope and wraps it in a memo instruction.
func NewBurnMemoInstruction(burnAmount uint64, payload interface{}) (*solana.GenericInstruction, error) {
	raw, err := envelope.MarshalPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}
	memo := &envelope.BurnMemo{
		Version:    envelope.BurnMemoVersion,
		BurnAmount: burnAmount,
		Payload:    raw,
	}
	encoded, err := memo.MarshalBase64()
	if err != nil {
		return nil, fmt.Errorf("failed to encode memo: %w", err)
	}
	return NewMemoInstruction(encoded), nil
}

// BuildMemoTransaction assembles the canonical instruction order: compute
// budget first, the memo at index 1 where the programs probe for it, then
// the business instructions.
func BuildMemoTransaction(memoIx solana.Instruction, business ...solana.Instruction) (runtime.Transaction, error) {
	ixs := make([]solana.Instruction, 0, len(business)+2)
	ixs = append(ixs, NewComputeUnitLimitInstruction(DefaultComputeUnitLimit), memoIx)
	ixs = append(ixs, business...)
	return runtime.NewTransaction(ixs...)
}
