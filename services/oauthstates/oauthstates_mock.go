package oauthstates

import (
	"context"

	"github.com/stretchr/testify/mock"

	"planbackend/models"
)

// MockOAuthStatesService is a mock implementation of the OAuthStatesService interface
type MockOAuthStatesService struct {
	mock.Mock
}

func (m *MockOAuthStatesService) BeginFlow(ctx context.Context, userID string, service models.Service) (string, error) {
	args := m.Called(ctx, userID, service)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthStatesService) Redeem(ctx context.Context, state string, service models.Service) (string, error) {
	args := m.Called(ctx, state, service)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthStatesService) SweepExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
