package memoforum_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memocore/client"
	"memocore/envelope"
	"memocore/internal/testenv"
	"memocore/memoburn"
	"memocore/memoforum"
	"memocore/memomint"
)

const oneToken = memoforum.MinPostBurnAmount

func newEnv(t *testing.T) *testenv.Env {
	t.Helper()
	env := testenv.New(t)
	env.FundAccount(memoforum.AuthorizedAdmin)
	ix, err := memoforum.NewInitializeGlobalCounterInstruction(memoforum.AuthorizedAdmin)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, ix))
	return env
}

func setupUser(t *testing.T, env *testenv.Env, units uint64) (solana.PublicKey, solana.PublicKey) {
	t.Helper()
	user, tokenAccount := env.NewUser(t, units)
	ix, err := memoburn.NewInitializeUserGlobalBurnStatsInstruction(user)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, ix))
	return user, tokenAccount
}

func createPost(t *testing.T, env *testenv.Env, creator, tokenAccount solana.PublicKey, postID uint64) {
	t.Helper()
	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.PostCreationData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoforum.Category,
		Operation: memoforum.OpCreatePost,
		Creator:   creator.String(),
		PostID:    postID,
		Title:     "introductions",
		Content:   "say hi here",
	})
	require.NoError(t, err)
	createIx, err := memoforum.NewCreatePostInstruction(creator, tokenAccount, postID, oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	))
}

func loadPost(t *testing.T, env *testenv.Env, postID uint64) *memoforum.Post {
	t.Helper()
	key, _, err := memoforum.DerivePost(postID)
	require.NoError(t, err)
	acc := env.RT.Ledger().Account(key)
	require.NotNil(t, acc)
	post, err := memoforum.DecodePost(acc.Data)
	require.NoError(t, err)
	return post
}

func loadCounter(t *testing.T, env *testenv.Env) *memoforum.GlobalPostCounter {
	t.Helper()
	key, _, err := memoforum.DeriveGlobalCounter()
	require.NoError(t, err)
	acc := env.RT.Ledger().Account(key)
	require.NotNil(t, acc)
	counter, err := memoforum.DecodeGlobalPostCounter(acc.Data)
	require.NoError(t, err)
	return counter
}

func TestInitializeGlobalCounter(t *testing.T) {
	env := newEnv(t)
	assert.Equal(t, uint64(0), loadCounter(t, env).TotalPosts)

	// second init fails
	ix, err := memoforum.NewInitializeGlobalCounterInstruction(memoforum.AuthorizedAdmin)
	require.NoError(t, err)
	err = env.Execute(t, ix)
	assert.ErrorIs(t, err, memoforum.ErrCounterAlreadyInitialized)
}

func TestInitializeGlobalCounterRejectsNonAdmin(t *testing.T) {
	env := testenv.New(t)
	imposter := solana.NewWallet().PublicKey()
	env.FundAccount(imposter)

	ix, err := memoforum.NewInitializeGlobalCounterInstruction(imposter)
	require.NoError(t, err)
	err = env.Execute(t, ix)
	assert.ErrorIs(t, err, memoforum.ErrUnauthorizedAdmin)
}

func TestCreatePost(t *testing.T) {
	env := newEnv(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)

	createPost(t, env, creator, tokenAccount, 0)

	post := loadPost(t, env, 0)
	assert.Equal(t, uint64(0), post.PostID)
	assert.Equal(t, creator, post.Creator)
	assert.Equal(t, "introductions", post.Title)
	assert.Equal(t, "say hi here", post.Content)
	assert.Equal(t, uint64(oneToken), post.BurnedAmount)
	assert.Equal(t, uint64(0), post.ReplyCount)
	assert.Equal(t, uint64(1), loadCounter(t, env).TotalPosts)
	assert.Equal(t, uint64(9_000_000), env.TokenBalance(t, tokenAccount))

	// ids stay sequential
	createPost(t, env, creator, tokenAccount, 1)
	assert.Equal(t, uint64(2), loadCounter(t, env).TotalPosts)
}

func TestCreatePostRejectsWrongExpectedID(t *testing.T) {
	env := newEnv(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)

	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.PostCreationData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoforum.Category,
		Operation: memoforum.OpCreatePost,
		Creator:   creator.String(),
		PostID:    5,
		Title:     "stale id",
		Content:   "raced another creator",
	})
	require.NoError(t, err)
	createIx, err := memoforum.NewCreatePostInstruction(creator, tokenAccount, 5, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	)
	assert.ErrorIs(t, err, memoforum.ErrPostIDMismatch)
}

func TestCreatePostRejectsPayloadIDDrift(t *testing.T) {
	env := newEnv(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)

	// instruction id is right, memo payload disagrees
	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.PostCreationData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoforum.Category,
		Operation: memoforum.OpCreatePost,
		Creator:   creator.String(),
		PostID:    3,
		Title:     "drift",
		Content:   "payload lies",
	})
	require.NoError(t, err)
	createIx, err := memoforum.NewCreatePostInstruction(creator, tokenAccount, 0, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	)
	assert.ErrorIs(t, err, memoforum.ErrPostIDMismatch)
}

func TestCreatePostRequiresCounter(t *testing.T) {
	env := testenv.New(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)

	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.PostCreationData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoforum.Category,
		Operation: memoforum.OpCreatePost,
		Creator:   creator.String(),
		Title:     "too early",
		Content:   "forum not launched",
	})
	require.NoError(t, err)
	createIx, err := memoforum.NewCreatePostInstruction(creator, tokenAccount, 0, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	)
	assert.ErrorIs(t, err, memoforum.ErrCounterNotInitialized)
}

func TestBurnForPost(t *testing.T) {
	env := newEnv(t)
	creator, creatorToken := setupUser(t, env, 10_000_000)
	createPost(t, env, creator, creatorToken, 0)

	// anyone can reply with a burn, not just the creator
	replier, replierToken := setupUser(t, env, 10_000_000)
	env.Advance(45)

	memoIx, err := client.NewBurnMemoInstruction(3*oneToken, &envelope.PostBurnData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoforum.Category,
		Operation: memoforum.OpBurnForPost,
		User:      replier.String(),
		PostID:    0,
		Message:   "great thread",
	})
	require.NoError(t, err)
	burnIx, err := memoforum.NewBurnForPostInstruction(replier, replierToken, 0, 3*oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		burnIx,
	))

	post := loadPost(t, env, 0)
	assert.Equal(t, uint64(4*oneToken), post.BurnedAmount)
	assert.Equal(t, uint64(1), post.ReplyCount)
	assert.Equal(t, env.Now(), post.LastReplyTime)
	assert.Equal(t, uint64(7_000_000), env.TokenBalance(t, replierToken))
}

func TestBurnForPostRejectsMissingPost(t *testing.T) {
	env := newEnv(t)
	replier, replierToken := setupUser(t, env, 10_000_000)

	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.PostBurnData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoforum.Category,
		Operation: memoforum.OpBurnForPost,
		User:      replier.String(),
		PostID:    9,
	})
	require.NoError(t, err)
	burnIx, err := memoforum.NewBurnForPostInstruction(replier, replierToken, 9, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		burnIx,
	)
	assert.ErrorIs(t, err, memoforum.ErrPostNotFound)
}

func TestMintForPost(t *testing.T) {
	env := newEnv(t)
	creator, creatorToken := setupUser(t, env, 10_000_000)
	createPost(t, env, creator, creatorToken, 0)

	replier, replierToken := setupUser(t, env, 0)
	env.Advance(90)

	memoIx, err := client.NewBurnMemoInstruction(0, &envelope.PostMintData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoforum.Category,
		Operation: memoforum.OpMintForPost,
		User:      replier.String(),
		PostID:    0,
		Message:   "bumping this",
	})
	require.NoError(t, err)
	mintIx, err := memoforum.NewMintForPostInstruction(replier, replierToken, 0)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		mintIx,
	))

	post := loadPost(t, env, 0)
	assert.Equal(t, uint64(oneToken), post.BurnedAmount) // mint replies burn nothing
	assert.Equal(t, uint64(1), post.ReplyCount)
	assert.Equal(t, env.Now(), post.LastReplyTime)
	assert.Equal(t, memomint.MintAmount, env.TokenBalance(t, replierToken))
}
