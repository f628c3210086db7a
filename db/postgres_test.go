package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbackend/core"
	"planbackend/db"
	"planbackend/models"
	"planbackend/testutils"
)

func TestPostgresIntegrationsRepository(t *testing.T) {
	testDB := testutils.SetupTestDB(t)
	usersRepo := db.NewPostgresUsersRepository(testDB.DB, testDB.Schema)
	repo := db.NewPostgresIntegrationsRepository(testDB.DB, testDB.Schema)
	ctx := context.Background()

	t.Run("create skips when a record already exists", func(t *testing.T) {
		user := testutils.CreateTestUser(t, usersRepo)

		first := &models.Integration{ID: core.NewID("int"), UserID: user.ID, Service: models.ServiceSlack}
		require.NoError(t, first.Config.SetTokens(models.SlackTokens{AccessToken: "xoxp-1"}))
		created, err := repo.CreateIntegration(ctx, first)
		require.NoError(t, err)
		assert.True(t, created)
		assert.False(t, first.CreatedAt.IsZero())

		second := &models.Integration{ID: core.NewID("int"), UserID: user.ID, Service: models.ServiceSlack}
		created, err = repo.CreateIntegration(ctx, second)
		require.NoError(t, err)
		assert.False(t, created)

		found, err := repo.GetIntegrationByUserAndService(ctx, user.ID, models.ServiceSlack)
		require.NoError(t, err)
		require.True(t, found.IsPresent())
		assert.Equal(t, first.ID, found.MustGet().ID)

		var tokens models.SlackTokens
		require.NoError(t, found.MustGet().Config.DecodeTokens(&tokens))
		assert.Equal(t, "xoxp-1", tokens.AccessToken)
	})

	t.Run("concurrent creates leave exactly one record", func(t *testing.T) {
		user := testutils.CreateTestUser(t, usersRepo)

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = repo.CreateIntegration(ctx, &models.Integration{
					ID:      core.NewID("int"),
					UserID:  user.ID,
					Service: models.ServiceGoogle,
				})
			}()
		}
		wg.Wait()

		integrations, err := repo.GetIntegrationsByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, integrations, 1)

		found, err := repo.GetIntegrationByUserAndService(ctx, user.ID, models.ServiceGoogle)
		require.NoError(t, err)
		assert.True(t, found.IsPresent())
	})

	t.Run("patch config merges top level keys", func(t *testing.T) {
		user := testutils.CreateTestUser(t, usersRepo)

		integration := &models.Integration{
			ID:      core.NewID("int"),
			UserID:  user.ID,
			Service: models.ServiceNotion,
			Config:  models.IntegrationConfig{WorkspaceID: "ws_1"},
		}
		require.NoError(t, integration.Config.SetSealedTokens("sealed"))
		_, err := repo.CreateIntegration(ctx, integration)
		require.NoError(t, err)

		patched, err := repo.PatchIntegrationConfig(ctx, user.ID, models.ServiceNotion, map[string]any{
			"databaseId": "db_1",
		})
		require.NoError(t, err)
		require.True(t, patched.IsPresent())
		assert.Equal(t, "db_1", patched.MustGet().Config.DatabaseID)
		assert.Equal(t, "ws_1", patched.MustGet().Config.WorkspaceID)

		sealed, err := patched.MustGet().Config.SealedTokens()
		require.NoError(t, err)
		assert.Equal(t, "sealed", sealed)

		missing, err := repo.PatchIntegrationConfig(ctx, user.ID, models.ServiceGoogle, map[string]any{"x": 1})
		require.NoError(t, err)
		assert.True(t, missing.IsAbsent())
	})

	t.Run("delete", func(t *testing.T) {
		user := testutils.CreateTestUser(t, usersRepo)

		integration := &models.Integration{ID: core.NewID("int"), UserID: user.ID, Service: models.ServiceSlack}
		_, err := repo.CreateIntegration(ctx, integration)
		require.NoError(t, err)

		deleted, err := repo.DeleteIntegrationByID(ctx, integration.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteIntegrationByID(ctx, integration.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestPostgresOAuthStatesRepository(t *testing.T) {
	testDB := testutils.SetupTestDB(t)
	repo := db.NewPostgresOAuthStatesRepository(testDB.DB, testDB.Schema)
	ctx := context.Background()

	state, err := core.NewStateToken()
	require.NoError(t, err)

	require.NoError(t, repo.CreateOAuthState(ctx, &models.OAuthState{State: state, UserID: "u_1", Service: models.ServiceGoogle}))

	first, err := repo.RedeemOAuthState(ctx, state)
	require.NoError(t, err)
	require.True(t, first.IsPresent())
	assert.Equal(t, "u_1", first.MustGet().UserID)

	second, err := repo.RedeemOAuthState(ctx, state)
	require.NoError(t, err)
	assert.True(t, second.IsAbsent())

	stale, err := core.NewStateToken()
	require.NoError(t, err)
	require.NoError(t, repo.CreateOAuthState(ctx, &models.OAuthState{State: stale, UserID: "u_1", Service: models.ServiceSlack}))

	deleted, err := repo.DeleteOAuthStatesCreatedBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))
}

func TestPostgresOAuthStatesRepository_KeepsCallerCreatedAt(t *testing.T) {
	testDB := testutils.SetupTestDB(t)
	repo := db.NewPostgresOAuthStatesRepository(testDB.DB, testDB.Schema)
	ctx := context.Background()

	// far enough from the database clock that a NOW() default would be obvious
	issuedAt := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	state, err := core.NewStateToken()
	require.NoError(t, err)

	require.NoError(t, repo.CreateOAuthState(ctx, &models.OAuthState{
		State:     state,
		UserID:    "u_1",
		Service:   models.ServiceNotion,
		CreatedAt: issuedAt,
	}))

	redeemed, err := repo.RedeemOAuthState(ctx, state)
	require.NoError(t, err)
	require.True(t, redeemed.IsPresent())
	assert.True(t, issuedAt.Equal(redeemed.MustGet().CreatedAt), "got %s", redeemed.MustGet().CreatedAt)
}

func TestPostgresTasksRepository(t *testing.T) {
	testDB := testutils.SetupTestDB(t)
	usersRepo := db.NewPostgresUsersRepository(testDB.DB, testDB.Schema)
	repo := db.NewPostgresTasksRepository(testDB.DB, testDB.Schema)
	ctx := context.Background()

	user := testutils.CreateTestUser(t, usersRepo)
	other := testutils.CreateTestUser(t, usersRepo)

	plannedDate := "2025-03-01"
	service := models.ServiceNotion
	task := &models.Task{
		ID:                  core.NewID("tsk"),
		UserID:              user.ID,
		Title:               "Finish report",
		Notes:               "https://www.notion.so/page",
		PlannedDate:         &plannedDate,
		Status:              models.TaskStatusPlanned,
		OriginalIntegration: &service,
		External:            &models.ExternalRef{Service: models.ServiceNotion, PageID: "page_1", DatabaseID: "db_1"},
	}
	require.NoError(t, repo.CreateTask(ctx, task))
	assert.False(t, task.CreatedAt.IsZero())

	tasks, err := repo.GetTasksByPlannedDate(ctx, user.ID, plannedDate)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Finish report", tasks[0].Title)
	require.NotNil(t, tasks[0].External)
	assert.Equal(t, "page_1", tasks[0].External.PageID)
	assert.Nil(t, tasks[0].StartTime)

	notOwned, err := repo.GetTaskByID(ctx, task.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, notOwned.IsAbsent())

	updated, err := repo.UpdateTaskStatus(ctx, task.ID, user.ID, models.TaskStatusDone)
	require.NoError(t, err)
	require.True(t, updated.IsPresent())
	assert.Equal(t, models.TaskStatusDone, updated.MustGet().Status)

	native := &models.Task{ID: core.NewID("tsk"), UserID: user.ID, Title: "Native", Status: models.TaskStatusInbox}
	require.NoError(t, repo.CreateTask(ctx, native))
	found, err := repo.GetTaskByID(ctx, native.ID, user.ID)
	require.NoError(t, err)
	require.True(t, found.IsPresent())
	assert.Nil(t, found.MustGet().External)
	assert.Nil(t, found.MustGet().OriginalIntegration)
}
