package slackintegrations

import (
	"context"

	"github.com/stretchr/testify/mock"

	"planbackend/models"
)

// MockSlackIntegrationsService is a mock implementation of the SlackIntegrationsService interface
type MockSlackIntegrationsService struct {
	mock.Mock
}

func (m *MockSlackIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSlackIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	args := m.Called(ctx, code, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockSlackIntegrationsService) ListTaskCandidates(ctx context.Context, userID string) ([]models.SlackTaskCandidate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SlackTaskCandidate), args.Error(1)
}

func (m *MockSlackIntegrationsService) GetStarredMessage(
	ctx context.Context,
	userID, channel, ts string,
) (*models.SlackStarredMessage, error) {
	args := m.Called(ctx, userID, channel, ts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlackStarredMessage), args.Error(1)
}
