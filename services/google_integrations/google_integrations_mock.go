package googleintegrations

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"planbackend/models"
)

// MockGoogleIntegrationsService is a mock implementation of the GoogleIntegrationsService interface
type MockGoogleIntegrationsService struct {
	mock.Mock
}

func (m *MockGoogleIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockGoogleIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	args := m.Called(ctx, code, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockGoogleIntegrationsService) ConnectWithTokens(
	ctx context.Context,
	userID string,
	tokens models.GoogleTokens,
) (*models.Integration, error) {
	args := m.Called(ctx, userID, tokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockGoogleIntegrationsService) ListEvents(
	ctx context.Context,
	userID string,
	timeMin, timeMax time.Time,
) ([]models.GoogleEvent, error) {
	args := m.Called(ctx, userID, timeMin, timeMax)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GoogleEvent), args.Error(1)
}

func (m *MockGoogleIntegrationsService) GetEvent(ctx context.Context, userID, eventID string) (*models.GoogleEvent, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GoogleEvent), args.Error(1)
}
