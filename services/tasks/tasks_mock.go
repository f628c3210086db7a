package tasks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"planbackend/models"
)

// MockTasksService is a mock implementation of the TasksService interface
type MockTasksService struct {
	mock.Mock
}

func (m *MockTasksService) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTasksService) ListTasksByPlannedDate(ctx context.Context, userID, plannedDate string) ([]*models.Task, error) {
	args := m.Called(ctx, userID, plannedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTasksService) UpdateTaskStatus(
	ctx context.Context,
	userID, taskID string,
	status models.TaskStatus,
) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}
