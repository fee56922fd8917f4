package memoburn_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memocore/client"
	"memocore/envelope"
	"memocore/internal/testenv"
	"memocore/memoburn"
	"memocore/runtime"
	"memocore/token"
)

// rawMemoIx builds a memo instruction carrying a borsh envelope with an
// opaque payload padded to clear the minimum memo length.
func rawMemoIx(t *testing.T, amount uint64, payloadLen int) *solana.GenericInstruction {
	t.Helper()
	memo := &envelope.BurnMemo{
		Version:    envelope.BurnMemoVersion,
		BurnAmount: amount,
		Payload:    bytes.Repeat([]byte{0x7a}, payloadLen),
	}
	encoded, err := memo.MarshalBase64()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(encoded), envelope.MemoMinLength)
	return client.NewMemoInstruction(encoded)
}

func initStats(t *testing.T, env *testenv.Env, user solana.PublicKey) {
	t.Helper()
	ix, err := memoburn.NewInitializeUserGlobalBurnStatsInstruction(user)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, ix))
}

func loadStats(t *testing.T, env *testenv.Env, user solana.PublicKey) *memoburn.UserGlobalBurnStats {
	t.Helper()
	statsKey, _, err := memoburn.DeriveUserGlobalBurnStats(user)
	require.NoError(t, err)
	acc := env.RT.Ledger().Account(statsKey)
	require.NotNil(t, acc)
	stats, err := memoburn.DecodeUserGlobalBurnStats(acc.Data)
	require.NoError(t, err)
	return stats
}

func TestInitializeUserGlobalBurnStats(t *testing.T) {
	env := testenv.New(t)
	user, _ := env.NewUser(t, 0)

	initStats(t, env, user)
	stats := loadStats(t, env, user)
	assert.Equal(t, user, stats.User)
	assert.Zero(t, stats.TotalBurned)
	assert.Zero(t, stats.BurnCount)

	// second init must fail
	ix, err := memoburn.NewInitializeUserGlobalBurnStatsInstruction(user)
	require.NoError(t, err)
	assert.ErrorIs(t, env.Execute(t, ix), runtime.ErrAccountAlreadyInUse)
}

func TestProcessBurnHappyPath(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		rawMemoIx(t, 1_000_000, 64),
		burnIx,
	)
	require.NoError(t, err)

	assert.Equal(t, uint64(9_000_000), env.TokenBalance(t, tokenAccount))
	assert.Equal(t, uint64(9_000_000), env.MintSupply(t))

	stats := loadStats(t, env, user)
	assert.Equal(t, uint64(1_000_000), stats.TotalBurned)
	assert.Equal(t, uint64(1), stats.BurnCount)
	assert.Equal(t, env.Now(), stats.LastBurnTime)
}

func TestProcessBurnAmountMismatch(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		rawMemoIx(t, 2_000_000, 64),
		burnIx,
	)
	assert.ErrorIs(t, err, memoburn.ErrBurnAmountMismatch)
	assert.Equal(t, uint64(10_000_000), env.TokenBalance(t, tokenAccount))
}

func TestProcessBurnAmountRules(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	cases := []struct {
		name    string
		amount  uint64
		wantErr error
	}{
		{"fractional token", 1_500_000, memoburn.ErrInvalidBurnAmount},
		{"below minimum", 999_999, memoburn.ErrBurnAmountTooSmall},
		{"zero", 0, memoburn.ErrBurnAmountTooSmall},
		{"over per-tx cap", memoburn.MaxBurnPerTx + 1_000_000, memoburn.ErrBurnAmountTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, tc.amount)
			require.NoError(t, err)
			err = env.Execute(t,
				client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
				rawMemoIx(t, tc.amount, 64),
				burnIx,
			)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestProcessBurnRequiresMemo(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		burnIx,
	)
	assert.ErrorIs(t, err, memoburn.ErrMemoRequired)
}

func TestProcessBurnLegacyJSONMemo(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	memoText := `{"burn_amount": 1000000, "note": "` + strings.Repeat("x", 40) + `"}`
	require.GreaterOrEqual(t, len(memoText), memoburn.MemoMinLength)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		client.NewMemoInstruction([]byte(memoText)),
		burnIx,
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_000_000), env.TokenBalance(t, tokenAccount))
}

func TestProcessBurnMemoAtMinimumLength(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	// Padded base64 always comes in multiples of 4 bytes, so the 69-byte
	// floor is only reachable exactly through the legacy JSON form.
	skeleton := `{"burn_amount":1000000,"note":""}`
	note := strings.Repeat("x", memoburn.MemoMinLength-len(skeleton))
	memoText := `{"burn_amount":1000000,"note":"` + note + `"}`
	require.Len(t, memoText, memoburn.MemoMinLength)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		client.NewMemoInstruction([]byte(memoText)),
		burnIx,
	))

	stats := loadStats(t, env, user)
	assert.Equal(t, uint64(1_000_000), stats.TotalBurned)
	assert.Equal(t, uint64(1), stats.BurnCount)
	assert.Equal(t, uint64(9_000_000), env.TokenBalance(t, tokenAccount))

	// the smallest borsh envelope clearing the floor encodes to 72 bytes
	memo := &envelope.BurnMemo{
		Version:    envelope.BurnMemoVersion,
		BurnAmount: 1_000_000,
		Payload:    bytes.Repeat([]byte{0x7a}, 39),
	}
	encoded, err := memo.MarshalBase64()
	require.NoError(t, err)
	require.Len(t, encoded, 72)

	burnIx, err = memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		client.NewMemoInstruction(encoded),
		burnIx,
	))
	assert.Equal(t, uint64(2), loadStats(t, env, user).BurnCount)
}

func TestProcessBurnMemoFormatErrors(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	cases := []struct {
		name    string
		memo    string
		wantErr error
	}{
		{"garbage text", strings.Repeat("!?", 50), memoburn.ErrInvalidMemoFormat},
		{"too short", strings.Repeat("A", memoburn.MemoMinLength-1), memoburn.ErrMemoTooShort},
		{"too long", strings.Repeat("A", memoburn.MemoMaxLength+1), memoburn.ErrMemoTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
			require.NoError(t, err)
			err = env.Execute(t,
				client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
				client.NewMemoInstruction([]byte(tc.memo)),
				burnIx,
			)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestProcessBurnRejectsUnsupportedEnvelopeVersion(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	memo := &envelope.BurnMemo{Version: 7, BurnAmount: 1_000_000, Payload: make([]byte, 64)}
	encoded, err := memo.MarshalBase64()
	require.NoError(t, err)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		client.NewMemoInstruction(encoded),
		burnIx,
	)
	assert.ErrorIs(t, err, memoburn.ErrUnsupportedMemoVersion)
}

func TestProcessBurnFirstMemoWins(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)

	// the matching memo sits at index 1; a contradictory one later in the
	// transaction is never consulted
	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		rawMemoIx(t, 1_000_000, 64),
		burnIx,
		rawMemoIx(t, 999_000_000, 64),
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_000_000), env.TokenBalance(t, tokenAccount))
}

func TestProcessBurnSweepsWhenIndexOneIsNotMemo(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)

	// memo at index 0, compute budget at index 1
	err = env.Execute(t,
		rawMemoIx(t, 1_000_000, 64),
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		burnIx,
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_000_000), env.TokenBalance(t, tokenAccount))
}

func TestProcessBurnRejectsForeignTokenAccount(t *testing.T) {
	env := testenv.New(t)
	user, _ := env.NewUser(t, 10_000_000)
	_, victimAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, victimAccount, 1_000_000)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		rawMemoIx(t, 1_000_000, 64),
		burnIx,
	)
	assert.ErrorIs(t, err, memoburn.ErrUnauthorizedTokenAccount)
	assert.Equal(t, uint64(10_000_000), env.TokenBalance(t, victimAccount))
}

func TestProcessBurnRejectsWrongMintAccount(t *testing.T) {
	env := testenv.New(t)
	user, _ := env.NewUser(t, 0)
	initStats(t, env, user)

	otherMint := solana.NewWallet().PublicKey()
	otherAccount := solana.NewWallet().PublicKey()
	token.InitAccount(env.RT.Ledger(), otherAccount, otherMint, user, 10_000_000)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, otherAccount, 1_000_000)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		rawMemoIx(t, 1_000_000, 64),
		burnIx,
	)
	assert.ErrorIs(t, err, memoburn.ErrInvalidTokenAccount)
}

func TestProcessBurnRequiresInitializedStats(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)

	burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 1_000_000)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		rawMemoIx(t, 1_000_000, 64),
		burnIx,
	)
	assert.ErrorIs(t, err, memoburn.ErrStatsNotInitialized)
}

func TestProcessBurnAccumulatesStats(t *testing.T) {
	env := testenv.New(t)
	user, tokenAccount := env.NewUser(t, 10_000_000)
	initStats(t, env, user)

	for i := 0; i < 3; i++ {
		burnIx, err := memoburn.NewProcessBurnInstruction(user, tokenAccount, 2_000_000)
		require.NoError(t, err)
		require.NoError(t, env.Execute(t,
			client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
			rawMemoIx(t, 2_000_000, 64),
			burnIx,
		))
		env.Advance(10)
	}

	stats := loadStats(t, env, user)
	assert.Equal(t, uint64(6_000_000), stats.TotalBurned)
	assert.Equal(t, uint64(3), stats.BurnCount)
	assert.Equal(t, uint64(4_000_000), env.TokenBalance(t, tokenAccount))
}
