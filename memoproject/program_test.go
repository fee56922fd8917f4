package memoproject_test

import (
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memocore/client"
	"memocore/envelope"
	"memocore/internal/testenv"
	"memocore/memoburn"
	"memocore/memoproject"
)

const oneToken = memoproject.MinProjectBurnAmount

func newEnv(t *testing.T) *testenv.Env {
	t.Helper()
	env := testenv.New(t)
	env.FundAccount(memoproject.AuthorizedAdmin)
	counterIx, err := memoproject.NewInitializeGlobalCounterInstruction(memoproject.AuthorizedAdmin)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, counterIx))
	leaderboardIx, err := memoproject.NewInitializeBurnLeaderboardInstruction(memoproject.AuthorizedAdmin)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, leaderboardIx))
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

func creationPayload(projectID uint64) *envelope.ProjectCreationData {
	return &envelope.ProjectCreationData{
		Version:     envelope.BurnMemoVersion,
		Category:    memoproject.Category,
		Operation:   memoproject.OpCreateProject,
		ProjectID:   projectID,
		Name:        "memo tools",
		Description: "small cli helpers",
		Website:     "https://example.org",
		Tags:        []string{"tooling", "cli"},
	}
}

func createProject(t *testing.T, env *testenv.Env, creator, tokenAccount solana.PublicKey, projectID uint64) {
	t.Helper()
	memoIx, err := client.NewBurnMemoInstruction(oneToken, creationPayload(projectID))
	require.NoError(t, err)
	createIx, err := memoproject.NewCreateProjectInstruction(creator, tokenAccount, projectID, oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	))
}

func loadProject(t *testing.T, env *testenv.Env, projectID uint64) *memoproject.Project {
	t.Helper()
	key, _, err := memoproject.DeriveProject(projectID)
	require.NoError(t, err)
	acc := env.RT.Ledger().Account(key)
	require.NotNil(t, acc)
	project, err := memoproject.DecodeProject(acc.Data)
	require.NoError(t, err)
	return project
}

func loadCounter(t *testing.T, env *testenv.Env) *memoproject.GlobalProjectCounter {
	t.Helper()
	key, _, err := memoproject.DeriveGlobalCounter()
	require.NoError(t, err)
	acc := env.RT.Ledger().Account(key)
	require.NotNil(t, acc)
	counter, err := memoproject.DecodeGlobalProjectCounter(acc.Data)
	require.NoError(t, err)
	return counter
}

func loadLeaderboard(t *testing.T, env *testenv.Env) *memoproject.BurnLeaderboard {
	t.Helper()
	key, _, err := memoproject.DeriveBurnLeaderboard()
	require.NoError(t, err)
	acc := env.RT.Ledger().Account(key)
	require.NotNil(t, acc)
	leaderboard, err := memoproject.DecodeBurnLeaderboard(acc.Data)
	require.NoError(t, err)
	return leaderboard
}

func TestInitializeGlobalCounterAdminGate(t *testing.T) {
	env := testenv.New(t)
	imposter := solana.NewWallet().PublicKey()
	env.FundAccount(imposter)

	ix, err := memoproject.NewInitializeGlobalCounterInstruction(imposter)
	require.NoError(t, err)
	err = env.Execute(t, ix)
	assert.ErrorIs(t, err, memoproject.ErrUnauthorizedAdmin)

	env.FundAccount(memoproject.AuthorizedAdmin)
	ix, err = memoproject.NewInitializeGlobalCounterInstruction(memoproject.AuthorizedAdmin)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, ix))
	assert.Equal(t, uint64(0), loadCounter(t, env).TotalProjects)
}

func TestCreateProject(t *testing.T) {
	env := newEnv(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)

	createProject(t, env, creator, tokenAccount, 0)

	project := loadProject(t, env, 0)
	assert.Equal(t, uint64(0), project.ProjectID)
	assert.Equal(t, creator, project.Creator)
	assert.Equal(t, "memo tools", project.Name)
	assert.Equal(t, "small cli helpers", project.Description)
	assert.Equal(t, "https://example.org", project.Website)
	assert.Equal(t, []string{"tooling", "cli"}, project.Tags)
	assert.Equal(t, uint64(oneToken), project.BurnedAmount)
	assert.Equal(t, uint64(0), project.MemoCount)
	assert.Equal(t, uint64(1), loadCounter(t, env).TotalProjects)
	assert.Equal(t, uint64(9_000_000), env.TokenBalance(t, tokenAccount))

	leaderboard := loadLeaderboard(t, env)
	require.Len(t, leaderboard.Entries, 1)
	assert.Equal(t, memoproject.LeaderboardEntry{ProjectID: 0, BurnedAmount: oneToken}, leaderboard.Entries[0])
}

func TestCreateProjectRejectsWrongExpectedID(t *testing.T) {
	env := newEnv(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)

	memoIx, err := client.NewBurnMemoInstruction(oneToken, creationPayload(4))
	require.NoError(t, err)
	createIx, err := memoproject.NewCreateProjectInstruction(creator, tokenAccount, 4, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	)
	assert.ErrorIs(t, err, memoproject.ErrProjectIDMismatch)
}

func TestCreateProjectTagValidation(t *testing.T) {
	env := newEnv(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)

	cases := []struct {
		name    string
		tags    []string
		wantErr error
	}{
		{"too many tags", []string{"a", "b", "c", "d", "e"}, memoproject.ErrTooManyTags},
		{"empty tag", []string{"ok", ""}, memoproject.ErrInvalidTag},
		{"tag too long", []string{strings.Repeat("t", memoproject.MaxTagLength+1)}, memoproject.ErrInvalidTag},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := creationPayload(0)
			payload.Tags = tc.tags
			memoIx, err := client.NewBurnMemoInstruction(oneToken, payload)
			require.NoError(t, err)
			createIx, err := memoproject.NewCreateProjectInstruction(creator, tokenAccount, 0, oneToken)
			require.NoError(t, err)
			err = env.Execute(t,
				client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
				memoIx,
				createIx,
			)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUpdateProject(t *testing.T) {
	env := newEnv(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)
	createProject(t, env, creator, tokenAccount, 0)
	env.Advance(600)

	website := "https://memo.tools"
	tags := []string{"infra"}
	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.ProjectUpdateData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoproject.Category,
		Operation: memoproject.OpUpdateProject,
		ProjectID: 0,
		Website:   &website,
		Tags:      &tags,
	})
	require.NoError(t, err)
	updateIx, err := memoproject.NewUpdateProjectInstruction(creator, tokenAccount, 0, oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		updateIx,
	))

	project := loadProject(t, env, 0)
	assert.Equal(t, "memo tools", project.Name)
	assert.Equal(t, "https://memo.tools", project.Website)
	assert.Equal(t, []string{"infra"}, project.Tags)
	assert.Equal(t, uint64(2*oneToken), project.BurnedAmount)
	assert.Equal(t, env.Now(), project.LastUpdated)
	// metadata edits are not memo activity
	assert.Equal(t, int64(0), project.LastMemoTime)
}

func TestUpdateProjectRejectsNonCreator(t *testing.T) {
	env := newEnv(t)
	creator, creatorToken := setupUser(t, env, 10_000_000)
	createProject(t, env, creator, creatorToken, 0)

	stranger, strangerToken := setupUser(t, env, 10_000_000)
	name := "takeover"
	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.ProjectUpdateData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoproject.Category,
		Operation: memoproject.OpUpdateProject,
		ProjectID: 0,
		Name:      &name,
	})
	require.NoError(t, err)
	updateIx, err := memoproject.NewUpdateProjectInstruction(stranger, strangerToken, 0, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		updateIx,
	)
	assert.ErrorIs(t, err, memoproject.ErrUnauthorizedProjectAccess)
}

func TestBurnForProject(t *testing.T) {
	env := newEnv(t)
	creator, creatorToken := setupUser(t, env, 10_000_000)
	createProject(t, env, creator, creatorToken, 0)

	// support burns are open to everyone
	supporter, supporterToken := setupUser(t, env, 10_000_000)
	env.Advance(30)

	memoIx, err := client.NewBurnMemoInstruction(5*oneToken, &envelope.ProjectBurnData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoproject.Category,
		Operation: memoproject.OpBurnForProject,
		ProjectID: 0,
		Burner:    supporter.String(),
		Message:   "shipping good stuff",
	})
	require.NoError(t, err)
	burnIx, err := memoproject.NewBurnForProjectInstruction(supporter, supporterToken, 0, 5*oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		burnIx,
	))

	project := loadProject(t, env, 0)
	assert.Equal(t, uint64(6*oneToken), project.BurnedAmount)
	assert.Equal(t, uint64(1), project.MemoCount)
	assert.Equal(t, env.Now(), project.LastMemoTime)
	assert.Equal(t, uint64(5_000_000), env.TokenBalance(t, supporterToken))
}

func TestBurnForProjectRejectsPayloadIDDrift(t *testing.T) {
	env := newEnv(t)
	creator, creatorToken := setupUser(t, env, 10_000_000)
	createProject(t, env, creator, creatorToken, 0)

	memoIx, err := client.NewBurnMemoInstruction(oneToken, &envelope.ProjectBurnData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoproject.Category,
		Operation: memoproject.OpBurnForProject,
		ProjectID: 7,
		Burner:    creator.String(),
	})
	require.NoError(t, err)
	burnIx, err := memoproject.NewBurnForProjectInstruction(creator, creatorToken, 0, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		burnIx,
	)
	assert.ErrorIs(t, err, memoproject.ErrProjectIDMismatch)
}

func TestInitializeBurnLeaderboardAdminGate(t *testing.T) {
	env := testenv.New(t)
	imposter := solana.NewWallet().PublicKey()
	env.FundAccount(imposter)

	ix, err := memoproject.NewInitializeBurnLeaderboardInstruction(imposter)
	require.NoError(t, err)
	assert.ErrorIs(t, env.Execute(t, ix), memoproject.ErrUnauthorizedAdmin)

	env.FundAccount(memoproject.AuthorizedAdmin)
	ix, err = memoproject.NewInitializeBurnLeaderboardInstruction(memoproject.AuthorizedAdmin)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, ix))
	assert.Empty(t, loadLeaderboard(t, env).Entries)

	// second init must fail
	ix, err = memoproject.NewInitializeBurnLeaderboardInstruction(memoproject.AuthorizedAdmin)
	require.NoError(t, err)
	assert.ErrorIs(t, env.Execute(t, ix), memoproject.ErrLeaderboardAlreadyInitialized)
}

func TestCreateProjectRequiresLeaderboard(t *testing.T) {
	env := testenv.New(t)
	env.FundAccount(memoproject.AuthorizedAdmin)
	counterIx, err := memoproject.NewInitializeGlobalCounterInstruction(memoproject.AuthorizedAdmin)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t, counterIx))

	creator, tokenAccount := setupUser(t, env, 10_000_000)
	memoIx, err := client.NewBurnMemoInstruction(oneToken, creationPayload(0))
	require.NoError(t, err)
	createIx, err := memoproject.NewCreateProjectInstruction(creator, tokenAccount, 0, oneToken)
	require.NoError(t, err)

	err = env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		createIx,
	)
	assert.ErrorIs(t, err, memoproject.ErrLeaderboardNotInitialized)
	assert.Equal(t, uint64(10_000_000), env.TokenBalance(t, tokenAccount))
}

func TestLeaderboardTracksLifetimeTotals(t *testing.T) {
	env := newEnv(t)
	creator, tokenAccount := setupUser(t, env, 10_000_000)
	createProject(t, env, creator, tokenAccount, 0)

	memoIx, err := client.NewBurnMemoInstruction(5*oneToken, &envelope.ProjectBurnData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoproject.Category,
		Operation: memoproject.OpBurnForProject,
		ProjectID: 0,
		Burner:    creator.String(),
	})
	require.NoError(t, err)
	burnIx, err := memoproject.NewBurnForProjectInstruction(creator, tokenAccount, 0, 5*oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		burnIx,
	))

	leaderboard := loadLeaderboard(t, env)
	require.Len(t, leaderboard.Entries, 1)
	assert.Equal(t, uint64(6*oneToken), leaderboard.Entries[0].BurnedAmount)

	// a burn-gated metadata update re-ranks the same slot
	name := "memo tools v2"
	memoIx, err = client.NewBurnMemoInstruction(oneToken, &envelope.ProjectUpdateData{
		Version:   envelope.BurnMemoVersion,
		Category:  memoproject.Category,
		Operation: memoproject.OpUpdateProject,
		ProjectID: 0,
		Name:      &name,
	})
	require.NoError(t, err)
	updateIx, err := memoproject.NewUpdateProjectInstruction(creator, tokenAccount, 0, oneToken)
	require.NoError(t, err)
	require.NoError(t, env.Execute(t,
		client.NewComputeUnitLimitInstruction(client.DefaultComputeUnitLimit),
		memoIx,
		updateIx,
	))

	leaderboard = loadLeaderboard(t, env)
	require.Len(t, leaderboard.Entries, 1)
	assert.Equal(t, memoproject.LeaderboardEntry{ProjectID: 0, BurnedAmount: 7 * oneToken}, leaderboard.Entries[0])
}

func TestLeaderboardReplacementWhenFull(t *testing.T) {
	board := new(memoproject.BurnLeaderboard)
	for i := 0; i < memoproject.MaxLeaderboardEntries; i++ {
		require.True(t, board.Update(uint64(i), uint64(i+2)*memoproject.DecimalFactor))
	}
	require.Len(t, board.Entries, memoproject.MaxLeaderboardEntries)

	find := func(id uint64) *memoproject.LeaderboardEntry {
		for i := range board.Entries {
			if board.Entries[i].ProjectID == id {
				return &board.Entries[i]
			}
		}
		return nil
	}

	// below the current minimum: no slot, board unchanged
	assert.False(t, board.Update(500, memoproject.DecimalFactor))
	assert.Len(t, board.Entries, memoproject.MaxLeaderboardEntries)
	assert.Nil(t, find(500))

	// beats the minimum (project 0 holds 2 tokens): displaces it
	require.True(t, board.Update(600, 3*memoproject.DecimalFactor))
	assert.Len(t, board.Entries, memoproject.MaxLeaderboardEntries)
	assert.Nil(t, find(0))
	entry := find(600)
	require.NotNil(t, entry)
	assert.Equal(t, 3*memoproject.DecimalFactor, entry.BurnedAmount)

	// an existing project re-ranks in place and never consumes a second slot
	require.True(t, board.Update(600, 50*memoproject.DecimalFactor))
	assert.Len(t, board.Entries, memoproject.MaxLeaderboardEntries)
	assert.Equal(t, 50*memoproject.DecimalFactor, find(600).BurnedAmount)
}
