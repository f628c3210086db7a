package integrations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"planbackend/models"
)

// MockIntegrationsService is a mock implementation of the IntegrationsService interface
type MockIntegrationsService struct {
	mock.Mock
}

func (m *MockIntegrationsService) ListIntegrations(ctx context.Context, userID string) ([]*models.Integration, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Integration), args.Error(1)
}

func (m *MockIntegrationsService) FindIntegration(
	ctx context.Context,
	userID string,
	service models.Service,
) (mo.Option[*models.Integration], error) {
	args := m.Called(ctx, userID, service)
	return args.Get(0).(mo.Option[*models.Integration]), args.Error(1)
}

func (m *MockIntegrationsService) UpsertFirstIntegration(
	ctx context.Context,
	integration *models.Integration,
) (*models.Integration, bool, error) {
	args := m.Called(ctx, integration)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Integration), args.Bool(1), args.Error(2)
}

func (m *MockIntegrationsService) CreateIntegration(
	ctx context.Context,
	userID string,
	service models.Service,
	config models.IntegrationConfig,
	scopes []string,
) (*models.Integration, error) {
	args := m.Called(ctx, userID, service, config, scopes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockIntegrationsService) PatchIntegrationConfig(
	ctx context.Context,
	userID string,
	service models.Service,
	patch map[string]any,
) (*models.Integration, error) {
	args := m.Called(ctx, userID, service, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockIntegrationsService) UpdateIntegrationConnection(
	ctx context.Context,
	integrationID string,
	patch map[string]any,
	scopes []string,
) (*models.Integration, error) {
	args := m.Called(ctx, integrationID, patch, scopes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockIntegrationsService) DeleteIntegration(ctx context.Context, integrationID, requestingUserID string) error {
	args := m.Called(ctx, integrationID, requestingUserID)
	return args.Error(0)
}
