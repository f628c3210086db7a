package imports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"planbackend/core"
	"planbackend/models"
	googleintegrations "planbackend/services/google_integrations"
	notionintegrations "planbackend/services/notion_integrations"
	slackintegrations "planbackend/services/slack_integrations"
	"planbackend/services/tasks"
)

type testDeps struct {
	notion *notionintegrations.MockNotionIntegrationsService
	slack  *slackintegrations.MockSlackIntegrationsService
	google *googleintegrations.MockGoogleIntegrationsService
	tasks  *tasks.MockTasksService
}

func setupUseCase() (*ImportsUseCase, testDeps) {
	deps := testDeps{
		notion: &notionintegrations.MockNotionIntegrationsService{},
		slack:  &slackintegrations.MockSlackIntegrationsService{},
		google: &googleintegrations.MockGoogleIntegrationsService{},
		tasks:  &tasks.MockTasksService{},
	}
	return NewImportsUseCase(deps.notion, deps.slack, deps.google, deps.tasks), deps
}

// expectCreate stores whatever task the use case builds and hands it back with an id
func expectCreate(ctx context.Context, deps testDeps) *models.Task {
	stored := &models.Task{}
	deps.tasks.On("CreateTask", ctx, mock.AnythingOfType("*models.Task")).
		Run(func(args mock.Arguments) {
			*stored = *args.Get(1).(*models.Task)
			stored.ID = "tsk_01HZX5J1W7T0KZ4Q0N4V8M3B6C"
		}).
		Return(stored, nil)
	return stored
}

func TestImportsUseCase_ImportNotionPage(t *testing.T) {
	t.Run("maps and stores a planned task", func(t *testing.T) {
		// Arrange
		useCase, deps := setupUseCase()
		ctx := context.Background()
		userID := core.NewID("u")
		page := &models.NotionPage{
			ID:         "page-1",
			URL:        "https://www.notion.so/page-1",
			DatabaseID: "db1",
			Properties: []models.NotionProperty{
				{Name: "Name", Type: "title", Text: "Finish report"},
				{Name: "Due", Type: "date", Date: &models.NotionDate{Start: "2025-03-01"}},
			},
		}
		deps.notion.On("GetPage", ctx, userID, "page-1").Return(page, nil, nil)
		stored := expectCreate(ctx, deps)

		// Act
		task, err := useCase.ImportNotionPage(ctx, userID, "page-1", "")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, stored.ID, task.ID)
		assert.Equal(t, "Finish report", task.Title)
		require.NotNil(t, task.PlannedDate)
		assert.Equal(t, "2025-03-01", *task.PlannedDate)
		assert.Equal(t, models.TaskStatusPlanned, task.Status)
		assert.Equal(t, userID, task.UserID)
		require.NotNil(t, task.External)
		assert.Equal(t, models.ServiceNotion, task.External.Service)
		assert.Equal(t, "page-1", task.External.PageID)
	})

	t.Run("page date wins over the override", func(t *testing.T) {
		useCase, deps := setupUseCase()
		ctx := context.Background()
		userID := core.NewID("u")
		page := &models.NotionPage{
			ID: "page-1",
			Properties: []models.NotionProperty{
				{Name: "Name", Type: "title", Text: "Finish report"},
				{Name: "Due", Type: "date", Date: &models.NotionDate{Start: "2025-03-01"}},
			},
		}
		deps.notion.On("GetPage", ctx, userID, "page-1").Return(page, nil, nil)
		expectCreate(ctx, deps)

		task, err := useCase.ImportNotionPage(ctx, userID, "page-1", "2025-04-01")

		require.NoError(t, err)
		assert.Equal(t, "2025-03-01", *task.PlannedDate)
	})

	t.Run("override fills a missing date", func(t *testing.T) {
		useCase, deps := setupUseCase()
		ctx := context.Background()
		userID := core.NewID("u")
		page := &models.NotionPage{ID: "page-1", Properties: []models.NotionProperty{{Name: "Name", Type: "title", Text: "Someday"}}}
		deps.notion.On("GetPage", ctx, userID, "page-1").Return(page, nil, nil)
		expectCreate(ctx, deps)

		task, err := useCase.ImportNotionPage(ctx, userID, "page-1", "2025-04-01")

		require.NoError(t, err)
		assert.Equal(t, "2025-04-01", *task.PlannedDate)
	})

	t.Run("remote failure stores nothing", func(t *testing.T) {
		useCase, deps := setupUseCase()
		ctx := context.Background()
		userID := core.NewID("u")
		deps.notion.On("GetPage", ctx, userID, "page-1").Return(nil, nil, core.NewProviderError("notion", 500, "oops"))

		_, err := useCase.ImportNotionPage(ctx, userID, "page-1", "")

		require.Error(t, err)
		deps.tasks.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
	})

	t.Run("missing page id", func(t *testing.T) {
		useCase, deps := setupUseCase()

		_, err := useCase.ImportNotionPage(context.Background(), core.NewID("u"), "", "")

		assert.ErrorIs(t, err, core.ErrInvalidInput)
		deps.notion.AssertNotCalled(t, "GetPage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad override date", func(t *testing.T) {
		useCase, _ := setupUseCase()

		_, err := useCase.ImportNotionPage(context.Background(), core.NewID("u"), "page-1", "March 1st")

		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("write failure is returned", func(t *testing.T) {
		useCase, deps := setupUseCase()
		ctx := context.Background()
		userID := core.NewID("u")
		deps.notion.On("GetPage", ctx, userID, "page-1").Return(&models.NotionPage{ID: "page-1"}, nil, nil)
		deps.tasks.On("CreateTask", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, err := useCase.ImportNotionPage(ctx, userID, "page-1", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestImportsUseCase_ImportSlackMessage(t *testing.T) {
	useCase, deps := setupUseCase()
	ctx := context.Background()
	userID := core.NewID("u")
	deps.slack.On("GetStarredMessage", ctx, userID, "C123", "1690000000.123456").Return(&models.SlackStarredMessage{
		Channel: "C123",
		TS:      "1690000000.123456",
		Text:    "Ship the release",
	}, nil)
	expectCreate(ctx, deps)

	task, err := useCase.ImportSlackMessage(ctx, userID, "C123", "1690000000.123456", "2025-03-01")

	require.NoError(t, err)
	assert.Equal(t, "Ship the release", task.Title)
	assert.Equal(t, models.TaskStatusPlanned, task.Status)
	require.NotNil(t, task.PlannedDate)
	assert.Equal(t, "2025-03-01", *task.PlannedDate)
	require.NotNil(t, task.External)
	assert.Equal(t, "https://slack.com/archives/C123/p1690000000123456", task.External.URL)
	assert.Equal(t, models.ServiceSlack, *task.OriginalIntegration)
}

func TestImportsUseCase_ImportGoogleEvent(t *testing.T) {
	t.Run("timed event keeps its own date", func(t *testing.T) {
		useCase, deps := setupUseCase()
		ctx := context.Background()
		userID := core.NewID("u")
		deps.google.On("GetEvent", ctx, userID, "evt1").Return(&models.GoogleEvent{
			ID:            "evt1",
			Summary:       "Design review",
			StartDateTime: "2025-03-01T09:00:00Z",
			EndDateTime:   "2025-03-01T10:00:00Z",
		}, nil)
		expectCreate(ctx, deps)

		task, err := useCase.ImportGoogleEvent(ctx, userID, "evt1", "2025-04-01")

		require.NoError(t, err)
		assert.Equal(t, "2025-03-01", *task.PlannedDate)
		assert.True(t, task.IsTimeboxed)
		assert.Equal(t, models.TaskStatusPlanned, task.Status)
	})

	t.Run("not connected", func(t *testing.T) {
		useCase, deps := setupUseCase()
		ctx := context.Background()
		userID := core.NewID("u")
		deps.google.On("GetEvent", ctx, userID, "evt1").Return(nil, core.ErrIntegrationNotFound)

		_, err := useCase.ImportGoogleEvent(ctx, userID, "evt1", "")

		assert.ErrorIs(t, err, core.ErrNotFound)
		deps.tasks.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
	})
}
