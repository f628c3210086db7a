package google

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"planbackend/models"
)

// MockGoogleClient is a mock implementation of the clients.GoogleClient interface
type MockGoogleClient struct {
	mock.Mock
}

func (m *MockGoogleClient) AuthCodeURL(state, redirectURL string) string {
	args := m.Called(state, redirectURL)
	return args.String(0)
}

func (m *MockGoogleClient) ExchangeCode(ctx context.Context, code, redirectURL string) (*models.GoogleTokens, error) {
	args := m.Called(ctx, code, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GoogleTokens), args.Error(1)
}

func (m *MockGoogleClient) RefreshTokens(ctx context.Context, tokens models.GoogleTokens) (*models.GoogleTokens, error) {
	args := m.Called(ctx, tokens)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GoogleTokens), args.Error(1)
}

func (m *MockGoogleClient) GetUserEmail(ctx context.Context, tokens models.GoogleTokens) (string, error) {
	args := m.Called(ctx, tokens)
	return args.String(0), args.Error(1)
}

func (m *MockGoogleClient) ListEvents(
	ctx context.Context,
	tokens models.GoogleTokens,
	timeMin, timeMax time.Time,
) ([]models.GoogleEvent, error) {
	args := m.Called(ctx, tokens, timeMin, timeMax)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GoogleEvent), args.Error(1)
}

func (m *MockGoogleClient) GetEvent(ctx context.Context, tokens models.GoogleTokens, eventID string) (*models.GoogleEvent, error) {
	args := m.Called(ctx, tokens, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GoogleEvent), args.Error(1)
}
