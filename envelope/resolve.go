package envelope

import (
	"errors"
	"fmt"

	"memocore/runtime"
)

var ErrAmountMismatch = errors.New("envelope burn_amount does not match instruction amount")

// ResolvePayload is the consumer-side memo path: locate the memo, enforce
// the standard length bounds, decode the envelope and cross-check the
// declared amount against the instruction argument. Returns the embedded
// typed payload bytes.
func ResolvePayload(ctx *runtime.Context, expectedAmount uint64) ([]byte, error) {
	memoData, err := FindMemo(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateLength(memoData, MemoMinLength, MemoMaxLength); err != nil {
		return nil, err
	}
	memo, err := Decode(memoData)
	if err != nil {
		return nil, err
	}
	if memo.BurnAmount != expectedAmount {
		return nil, fmt.Errorf("%w: memo %d, instruction %d", ErrAmountMismatch, memo.BurnAmount, expectedAmount)
	}
	return memo.Payload, nil
}

// ResolveMintPayload is ResolvePayload without the amount cross-check, for
// mint-side operations whose envelopes carry no burn.
func ResolveMintPayload(ctx *runtime.Context) ([]byte, error) {
	memoData, err := FindMemo(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateLength(memoData, MemoMinLength, MintMemoMaxLength); err != nil {
		return nil, err
	}
	memo, err := Decode(memoData)
	if err != nil {
		return nil, err
	}
	return memo.Payload, nil
}
