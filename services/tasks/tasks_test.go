package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"planbackend/core"
	"planbackend/models"
	notionintegrations "planbackend/services/notion_integrations"
)

type mockTasksRepository struct {
	mock.Mock
}

func (m *mockTasksRepository) CreateTask(ctx context.Context, task *models.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTasksRepository) GetTaskByID(ctx context.Context, id, userID string) (mo.Option[*models.Task], error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(mo.Option[*models.Task]), args.Error(1)
}

func (m *mockTasksRepository) GetTasksByPlannedDate(ctx context.Context, userID, plannedDate string) ([]*models.Task, error) {
	args := m.Called(ctx, userID, plannedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *mockTasksRepository) UpdateTaskStatus(
	ctx context.Context,
	id, userID string,
	status models.TaskStatus,
) (mo.Option[*models.Task], error) {
	args := m.Called(ctx, id, userID, status)
	return args.Get(0).(mo.Option[*models.Task]), args.Error(1)
}

func notionTask(userID string) *models.Task {
	service := models.ServiceNotion
	return &models.Task{
		ID:                  core.NewID("tsk"),
		UserID:              userID,
		Title:               "Finish report",
		Status:              models.TaskStatusDone,
		OriginalIntegration: &service,
		External:            &models.ExternalRef{Service: models.ServiceNotion, PageID: "p1"},
	}
}

func TestTasksService_CreateTask(t *testing.T) {
	t.Run("assigns id and default status", func(t *testing.T) {
		repo := &mockTasksRepository{}
		service := NewTasksService(repo, &notionintegrations.MockNotionIntegrationsService{})
		ctx := context.Background()
		plannedDate := "2025-03-01"
		task := &models.Task{UserID: core.NewID("u"), Title: "  Finish report ", PlannedDate: &plannedDate}

		repo.On("CreateTask", ctx, task).Return(nil)

		created, err := service.CreateTask(ctx, task)

		require.NoError(t, err)
		assert.True(t, core.IsValidULID(created.ID))
		assert.Contains(t, created.ID, "tsk_")
		assert.Equal(t, "Finish report", created.Title)
		assert.Equal(t, models.TaskStatusInbox, created.Status)
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name string
		task *models.Task
	}{
		{name: "missing user", task: &models.Task{Title: "x"}},
		{name: "empty title", task: &models.Task{UserID: core.NewID("u"), Title: "   "}},
		{name: "bad date", task: &models.Task{UserID: core.NewID("u"), Title: "x", PlannedDate: ptr("01/03/2025")}},
		{name: "bad status", task: &models.Task{UserID: core.NewID("u"), Title: "x", Status: "later"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTasksRepository{}
			service := NewTasksService(repo, &notionintegrations.MockNotionIntegrationsService{})

			_, err := service.CreateTask(context.Background(), tt.task)

			assert.ErrorIs(t, err, core.ErrInvalidInput)
			repo.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
		})
	}
}

func TestTasksService_ListTasksByPlannedDate(t *testing.T) {
	repo := &mockTasksRepository{}
	service := NewTasksService(repo, &notionintegrations.MockNotionIntegrationsService{})
	ctx := context.Background()
	userID := core.NewID("u")

	repo.On("GetTasksByPlannedDate", ctx, userID, "2025-03-01").Return([]*models.Task{{Title: "a"}}, nil)

	tasks, err := service.ListTasksByPlannedDate(ctx, userID, "2025-03-01")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = service.ListTasksByPlannedDate(ctx, userID, "tomorrow")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestTasksService_UpdateTaskStatus(t *testing.T) {
	t.Run("mirrors status to notion", func(t *testing.T) {
		repo := &mockTasksRepository{}
		notion := &notionintegrations.MockNotionIntegrationsService{}
		service := NewTasksService(repo, notion)
		ctx := context.Background()
		userID := core.NewID("u")
		task := notionTask(userID)

		repo.On("UpdateTaskStatus", ctx, task.ID, userID, models.TaskStatusDone).Return(mo.Some(task), nil)
		notion.On("UpdateRemoteStatus", ctx, userID, "p1", models.TaskStatusDone).Return(nil)

		updated, err := service.UpdateTaskStatus(ctx, userID, task.ID, models.TaskStatusDone)

		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusDone, updated.Status)
		notion.AssertExpectations(t)
	})

	t.Run("write-back failure does not fail the update", func(t *testing.T) {
		repo := &mockTasksRepository{}
		notion := &notionintegrations.MockNotionIntegrationsService{}
		service := NewTasksService(repo, notion)
		ctx := context.Background()
		userID := core.NewID("u")
		task := notionTask(userID)

		repo.On("UpdateTaskStatus", ctx, task.ID, userID, models.TaskStatusDone).Return(mo.Some(task), nil)
		notion.On("UpdateRemoteStatus", ctx, userID, "p1", models.TaskStatusDone).Return(core.ErrTokenInvalid)

		updated, err := service.UpdateTaskStatus(ctx, userID, task.ID, models.TaskStatusDone)

		require.NoError(t, err)
		assert.Equal(t, task.ID, updated.ID)
	})

	t.Run("write-back panic does not fail the update", func(t *testing.T) {
		repo := &mockTasksRepository{}
		notion := &notionintegrations.MockNotionIntegrationsService{}
		service := NewTasksService(repo, notion)
		ctx := context.Background()
		userID := core.NewID("u")
		task := notionTask(userID)

		repo.On("UpdateTaskStatus", ctx, task.ID, userID, models.TaskStatusDone).Return(mo.Some(task), nil)
		notion.On("UpdateRemoteStatus", ctx, userID, "p1", models.TaskStatusDone).
			Run(func(mock.Arguments) { panic("boom") })

		_, err := service.UpdateTaskStatus(ctx, userID, task.ID, models.TaskStatusDone)

		require.NoError(t, err)
	})

	t.Run("tasks from other sources are not mirrored", func(t *testing.T) {
		repo := &mockTasksRepository{}
		notion := &notionintegrations.MockNotionIntegrationsService{}
		service := NewTasksService(repo, notion)
		ctx := context.Background()
		userID := core.NewID("u")
		task := &models.Task{ID: core.NewID("tsk"), UserID: userID, Status: models.TaskStatusDone}

		repo.On("UpdateTaskStatus", ctx, task.ID, userID, models.TaskStatusDone).Return(mo.Some(task), nil)

		_, err := service.UpdateTaskStatus(ctx, userID, task.ID, models.TaskStatusDone)

		require.NoError(t, err)
		notion.AssertNotCalled(t, "UpdateRemoteStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing task", func(t *testing.T) {
		repo := &mockTasksRepository{}
		service := NewTasksService(repo, &notionintegrations.MockNotionIntegrationsService{})
		ctx := context.Background()
		userID := core.NewID("u")

		repo.On("UpdateTaskStatus", ctx, "tsk_missing", userID, models.TaskStatusDone).Return(mo.None[*models.Task](), nil)

		_, err := service.UpdateTaskStatus(ctx, userID, "tsk_missing", models.TaskStatusDone)

		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := &mockTasksRepository{}
		service := NewTasksService(repo, &notionintegrations.MockNotionIntegrationsService{})

		_, err := service.UpdateTaskStatus(context.Background(), core.NewID("u"), "tsk_1", "later")

		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := &mockTasksRepository{}
		service := NewTasksService(repo, &notionintegrations.MockNotionIntegrationsService{})
		ctx := context.Background()
		userID := core.NewID("u")

		repo.On("UpdateTaskStatus", ctx, "tsk_1", userID, models.TaskStatusDone).
			Return(mo.None[*models.Task](), errors.New("db down"))

		_, err := service.UpdateTaskStatus(ctx, userID, "tsk_1", models.TaskStatusDone)

		require.Error(t, err)
	})
}

func ptr(s string) *string {
	return &s
}
