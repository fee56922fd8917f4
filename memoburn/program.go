package memoburn

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"memocore/envelope"
	"memocore/runtime"
	"memocore/token"
)

var (
	discInitializeUserGlobalBurnStats = runtime.InstructionDiscriminator("initialize_user_global_burn_stats")
	discProcessBurn                   = runtime.InstructionDiscriminator("process_burn")
)

// Program validates memo-carried burn intents and executes the token burn.
type Program struct{}

func (Program) ID() solana.PublicKey {
	return ProgramID
}

func (p Program) Execute(ctx *runtime.Context, data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("instruction data too short: %d bytes", len(data))
	}
	disc, args := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, discInitializeUserGlobalBurnStats[:]):
		return p.initializeUserGlobalBurnStats(ctx, args)
	case bytes.Equal(disc, discProcessBurn[:]):
		return p.processBurn(ctx, args)
	default:
		return fmt.Errorf("unknown instruction discriminator %x", disc)
	}
}

// initializeUserGlobalBurnStats accounts:
// [user_global_burn_stats (w), user (signer, w), system_program].
func (Program) initializeUserGlobalBurnStats(ctx *runtime.Context, args []byte) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected instruction args: %d bytes", len(args))
	}
	statsRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	userRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	if !userRef.IsSigner {
		return ErrMissingUserSignature
	}

	expected, bump, err := DeriveUserGlobalBurnStats(userRef.Key)
	if err != nil {
		return err
	}
	if !statsRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrInvalidStatsAccount, statsRef.Key, expected)
	}

	if err := ctx.CreateAccount(statsRef, userRef, ProgramID, UserGlobalBurnStatsSpace); err != nil {
		return err
	}
	stats := &UserGlobalBurnStats{
		User: userRef.Key,
		Bump: bump,
	}
	data, err := stats.Marshal()
	if err != nil {
		return err
	}
	if err := statsRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("initialized burn stats for user %s", userRef.Key)
	return nil
}

// processBurn accounts:
// [user (signer), mint (w), token_account (w), user_global_burn_stats (w),
//  token_program, instructions sysvar].
func (Program) processBurn(ctx *runtime.Context, args []byte) error {
	if len(args) != 8 {
		return fmt.Errorf("expected u64 amount, got %d bytes", len(args))
	}
	amount := binary.LittleEndian.Uint64(args)

	userRef, err := ctx.Account(0)
	if err != nil {
		return err
	}
	mintRef, err := ctx.Account(1)
	if err != nil {
		return err
	}
	tokenRef, err := ctx.Account(2)
	if err != nil {
		return err
	}
	statsRef, err := ctx.Account(3)
	if err != nil {
		return err
	}
	if _, err := ctx.Account(4); err != nil {
		return err
	}
	sysvarRef, err := ctx.Account(5)
	if err != nil {
		return err
	}

	if !userRef.IsSigner {
		return ErrMissingUserSignature
	}
	if err := envelope.RequireInstructionsSysvar(sysvarRef); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInstructionsSysvar, sysvarRef.Key)
	}
	if !mintRef.Key.Equals(AuthorizedMint) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedMint, mintRef.Key)
	}

	if err := validateBurnAmount(amount); err != nil {
		return err
	}

	tokenAccount, err := token.DecodeAccount(tokenRef.Account.Data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTokenAccount, err)
	}
	if !tokenAccount.Mint.Equals(mintRef.Key) {
		return fmt.Errorf("%w: wrong mint %s", ErrInvalidTokenAccount, tokenAccount.Mint)
	}
	if !tokenAccount.Owner.Equals(userRef.Key) {
		return fmt.Errorf("%w: owner %s", ErrUnauthorizedTokenAccount, tokenAccount.Owner)
	}

	memoAmount, err := resolveMemoAmount(ctx)
	if err != nil {
		return err
	}
	if memoAmount != amount {
		return fmt.Errorf("%w: memo %d, instruction %d", ErrBurnAmountMismatch, memoAmount, amount)
	}

	expected, _, err := DeriveUserGlobalBurnStats(userRef.Key)
	if err != nil {
		return err
	}
	if !statsRef.Key.Equals(expected) {
		return fmt.Errorf("%w: got %s, expected %s", ErrInvalidStatsAccount, statsRef.Key, expected)
	}
	if !statsRef.Account.Exists() || !runtime.HasDiscriminator(UserGlobalBurnStatsDiscriminator, statsRef.Account.Data) {
		return fmt.Errorf("%w: %s", ErrStatsNotInitialized, statsRef.Key)
	}
	stats, err := DecodeUserGlobalBurnStats(statsRef.Account.Data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatsAccount, err)
	}
	if !stats.User.Equals(userRef.Key) {
		return fmt.Errorf("%w: stats belong to %s", ErrInvalidStatsAccount, stats.User)
	}

	burnIx, err := runtime.CompileInstruction(
		token.NewBurnInstruction(tokenRef.Key, mintRef.Key, userRef.Key, amount))
	if err != nil {
		return err
	}
	if err := ctx.Invoke(burnIx); err != nil {
		return fmt.Errorf("token burn failed: %w", err)
	}

	stats.RecordBurn(amount, ctx.UnixTimestamp())
	data, err := stats.Marshal()
	if err != nil {
		return err
	}
	if err := statsRef.SetData(data); err != nil {
		return err
	}
	ctx.Logf("burned %d units for user %s (lifetime %d over %d burns)",
		amount, userRef.Key, stats.TotalBurned, stats.BurnCount)
	return nil
}

func validateBurnAmount(amount uint64) error {
	err := envelope.ValidateAmount(amount, MinBurnAmount)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, envelope.ErrAmountTooSmall):
		return fmt.Errorf("%w: %d units", ErrBurnAmountTooSmall, amount)
	case errors.Is(err, envelope.ErrAmountTooLarge):
		return fmt.Errorf("%w: %d units", ErrBurnAmountTooLarge, amount)
	default:
		return fmt.Errorf("%w: %d units", ErrInvalidBurnAmount, amount)
	}
}

// resolveMemoAmount locates the memo, enforces length bounds and extracts the
// declared burn amount: borsh envelope first, then the legacy JSON form.
func resolveMemoAmount(ctx *runtime.Context) (uint64, error) {
	memoData, err := envelope.FindMemo(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrMemoRequired, err)
	}
	if err := envelope.ValidateLength(memoData, MemoMinLength, MemoMaxLength); err != nil {
		switch {
		case errors.Is(err, envelope.ErrMemoEmpty):
			return 0, ErrMemoRequired
		case errors.Is(err, envelope.ErrMemoTooShort):
			return 0, fmt.Errorf("%w: %d bytes", ErrMemoTooShort, len(memoData))
		default:
			return 0, fmt.Errorf("%w: %d bytes", ErrMemoTooLong, len(memoData))
		}
	}

	memo, err := envelope.Decode(memoData)
	if err == nil {
		return memo.BurnAmount, nil
	}
	switch {
	case errors.Is(err, envelope.ErrUnsupportedVersion):
		return 0, ErrUnsupportedMemoVersion
	case errors.Is(err, envelope.ErrPayloadTooLong):
		return 0, ErrPayloadTooLong
	}
	if amount, ok := envelope.DecodeLegacyJSON(memoData); ok {
		return amount, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidMemoFormat, err)
}
