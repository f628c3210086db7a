package imports

import (
	"context"

	"github.com/stretchr/testify/mock"

	"planbackend/models"
)

// MockImportsUseCase is a mock implementation of the ImportsUseCaseInterface
type MockImportsUseCase struct {
	mock.Mock
}

func (m *MockImportsUseCase) ImportNotionPage(ctx context.Context, userID, pageID, plannedDate string) (*models.Task, error) {
	args := m.Called(ctx, userID, pageID, plannedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockImportsUseCase) ImportSlackMessage(
	ctx context.Context,
	userID, channel, ts, plannedDate string,
) (*models.Task, error) {
	args := m.Called(ctx, userID, channel, ts, plannedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockImportsUseCase) ImportGoogleEvent(ctx context.Context, userID, eventID, plannedDate string) (*models.Task, error) {
	args := m.Called(ctx, userID, eventID, plannedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}
