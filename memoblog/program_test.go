package memoblog_test

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memocore/client"
	"memocore/envelope"
	"memocore/internal/testenv"
	"memocore/memoblog"
	"memocore/memoburn"
	"memocore/memomint"
	"memocore/runtime"
	"memocore/token"
)

const oneToken = memoblog.MinBlogBurnAmount

func setupCreator(t *testing.T, env *testenv.Env, units uint64) (solana.PublicKey, solana.PublicKey) {
	t.Helper()
	creator, tokenAccount := env.NewUser(t, units)
	ix, err := memoburn.NewInitializeUserGlobalBurnStatsInstruction(creator)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, ix))
	return creator, tokenAccount
}

func createBlog(t *testing.T, env *testenv.Env, creator, tokenAccount solana.PublicKey) {
	t.Helper()
	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.BlogCreationData{
		Version:     envelope.BurnMemoVersion,
		Category:    memoblog.Category,
		Operation:   memoblog.OpCreateBlog,
		Creator:     creator.String(),
		Name:        "field notes",
		Description: "assorted notes",
		Image:       "ipfs://header",
	})
	require.NoError(t, err)
	createIx, err := memoblog.NewCreateBlogInstruction(creator, tokenAccount, oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	))
}

func loadBlog(t *testing.T, env *testenv.Env, creator solana.PublicKey) *memoblog.Blog {
	t.Helper()
	key, _, err := memoblog.DeriveBlog(creator)
	require.NoError(t, err)
	acc := env.RT.Ledger().Account(key)
	require.NotNil(t, acc)
	blog, err := memoblog.DecodeBlog(acc.Data)
	require.NoError(t, err)
	return blog
}

func TestCreateBlog(t *testing.T) {
	env := testenv.New(t)
	creator, tokenAccount := setupCreator(t, env, 10_000_000)

	createBlog(t, env, creator, tokenAccount)

	blog := loadBlog(t, env, creator)
	assert.Equal(t, creator, blog.Creator)
	assert.Equal(t, "field notes", blog.Name)
	assert.Equal(t, "assorted notes", blog.Description)
	assert.Equal(t, "ipfs://header", blog.Image)
	assert.Equal(t, uint64(oneToken), blog.BurnedAmount)
	assert.Equal(t, uint64(0), blog.MemoCount)
	assert.Equal(t, int64(0), blog.LastMemoTime)
	assert.Equal(t, env.Now(), blog.CreatedAt)
	assert.Equal(t, uint64(9_000_000), env.TokenBalance(t, tokenAccount))
}

func TestCreateBlogRejectsDuplicate(t *testing.T) {
	env := testenv.New(t)
	creator, tokenAccount := setupCreator(t, env, 10_000_000)
	createBlog(t, env, creator, tokenAccount)

	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.BlogCreationData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoblog.Category,
		Operation: memoblog.OpCreateBlog,
		Creator:   creator.String(),
		Name:      "second blog",
	})
	require.NoError(t, err)
	createIx, err := memoblog.NewCreateBlogInstruction(creator, tokenAccount, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	)
	assert.ErrorIs(t, err, memoblog.ErrBlogAlreadyExists)
}

func TestUpdateBlog(t *testing.T) {
	env := testenv.New(t)
	creator, tokenAccount := setupCreator(t, env, 10_000_000)
	createBlog(t, env, creator, tokenAccount)
	env.Advance(300)

	name := "field notes v2"
	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.BlogUpdateData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoblog.Category,
		Operation: memoblog.OpUpdateBlog,
		Creator:   creator.String(),
		Name:      &name,
	})
	require.NoError(t, err)
	updateIx, err := memoblog.NewUpdateBlogInstruction(creator, tokenAccount, oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		updateIx,
	))

	blog := loadBlog(t, env, creator)
	assert.Equal(t, "field notes v2", blog.Name)
	assert.Equal(t, "assorted notes", blog.Description)
	assert.Equal(t, uint64(2*oneToken), blog.BurnedAmount)
	assert.Equal(t, env.Now(), blog.LastUpdated)
	// updates never count as memo activity
	assert.Equal(t, uint64(0), blog.MemoCount)
	assert.Equal(t, int64(0), blog.LastMemoTime)
}

func TestUpdateBlogRejectsStranger(t *testing.T) {
	env := testenv.New(t)
	creator, creatorToken := setupCreator(t, env, 10_000_000)
	createBlog(t, env, creator, creatorToken)

	stranger, strangerToken := setupCreator(t, env, 10_000_000)
	victimBlog, _, err := memoblog.DeriveBlog(creator)
	require.NoError(t, err)
	stats, _, err := memoburn.DeriveUserGlobalBurnStats(stranger)
	require.NoError(t, err)

	name := "hijacked"
	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.BlogUpdateData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoblog.Category,
		Operation: memoblog.OpUpdateBlog,
		Creator:   stranger.String(),
		Name:      &name,
	})
	require.NoError(t, err)

	// the stranger aims their update at someone else's blog PDA
	disc := runtime.InstructionDiscriminator("update_blog")
	data := make([]byte, 16)
	copy(data, disc[:])
	binary.LittleEndian.PutUint64(data[8:], oneToken)
	updateIx := solana.NewInstruction(
		memoblog.ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(stranger).WRITE().SIGNER(),
			solana.Meta(victimBlog).WRITE(),
			solana.Meta(memoblog.AuthorizedMint).WRITE(),
			solana.Meta(strangerToken).WRITE(),
			solana.Meta(stats).WRITE(),
			solana.Meta(token.ProgramID),
			solana.Meta(memoburn.ProgramID),
			solana.Meta(solana.SysVarInstructionsPubkey),
		},
		data,
	)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		updateIx,
	)
	assert.ErrorIs(t, err, memoblog.ErrUnauthorizedBlogAccess)
}

func TestBurnForBlog(t *testing.T) {
	env := testenv.New(t)
	creator, tokenAccount := setupCreator(t, env, 10_000_000)
	createBlog(t, env, creator, tokenAccount)
	env.Advance(120)

	memoIx, err := client.NewBurnMemoInstruction(2*oneToken, &envelope.BlogBurnData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoblog.Category,
		Operation: memoblog.OpBurnForBlog,
		Burner:    creator.String(),
		Message:   "gm from the blog",
	})
	require.NoError(t, err)
	burnIx, err := memoblog.NewBurnForBlogInstruction(creator, tokenAccount, 2*oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		burnIx,
	))

	blog := loadBlog(t, env, creator)
	assert.Equal(t, uint64(3*oneToken), blog.BurnedAmount)
	assert.Equal(t, uint64(1), blog.MemoCount)
	assert.Equal(t, env.Now(), blog.LastMemoTime)
	assert.Equal(t, uint64(7_000_000), env.TokenBalance(t, tokenAccount))
}

func TestBurnForBlogRejectsWrongCategory(t *testing.T) {
	env := testenv.New(t)
	creator, tokenAccount := setupCreator(t, env, 10_000_000)
	createBlog(t, env, creator, tokenAccount)

	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.BlogBurnData{
		Version:   envelope.BurnMemoVersion,
		Category:  "forum",
		Operation: memoblog.OpBurnForBlog,
		Burner:    creator.String(),
	})
	require.NoError(t, err)
	burnIx, err := memoblog.NewBurnForBlogInstruction(creator, tokenAccount, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		burnIx,
	)
	assert.ErrorIs(t, err, memoblog.ErrInvalidCategory)
}

func TestMintForBlog(t *testing.T) {
	env := testenv.New(t)
	creator, tokenAccount := setupCreator(t, env, 10_000_000)
	createBlog(t, env, creator, tokenAccount)
	env.Advance(60)

	memoIx, err := client.NewBurnMemoInstruction(0, &envelope.BlogMintData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoblog.Category,
		Operation: memoblog.OpMintForBlog,
		Minter:    creator.String(),
		Message:   "fresh post is up",
	})
	require.NoError(t, err)
	mintIx, err := memoblog.NewMintForBlogInstruction(creator, tokenAccount)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		mintIx,
	))

	blog := loadBlog(t, env, creator)
	assert.Equal(t, uint64(oneToken), blog.BurnedAmount) // minting burns nothing
	assert.Equal(t, uint64(1), blog.MemoCount)
	assert.Equal(t, env.Now(), blog.LastMemoTime)
	assert.Equal(t, uint64(9_000_000)+memomint.MintAmount, env.TokenBalance(t, tokenAccount))
}

func TestMintForBlogRequiresExistingBlog(t *testing.T) {
	env := testenv.New(t)
	creator, tokenAccount := setupCreator(t, env, 10_000_000)

	memoIx, err := client.NewBurnMemoInstruction(0, &envelope.BlogMintData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoblog.Category,
		Operation: memoblog.OpMintForBlog,
		Minter:    creator.String(),
	})
	require.NoError(t, err)
	mintIx, err := memoblog.NewMintForBlogInstruction(creator, tokenAccount)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		mintIx,
	)
	assert.ErrorIs(t, err, memoblog.ErrBlogNotFound)
}
