package slack

import (
	"context"

	"github.com/stretchr/testify/mock"

	"planbackend/clients"
	"planbackend/models"
)

// MockSlackClient is a mock implementation of the clients.SlackClient interface
type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) AuthCodeURL(state, redirectURL string) string {
	args := m.Called(state, redirectURL)
	return args.String(0)
}

func (m *MockSlackClient) ExchangeCode(ctx context.Context, code, redirectURL string) (*clients.SlackOAuthResult, error) {
	args := m.Called(ctx, code, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SlackOAuthResult), args.Error(1)
}

func (m *MockSlackClient) ListStarredMessages(ctx context.Context, accessToken string) ([]models.SlackStarredMessage, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SlackStarredMessage), args.Error(1)
}
