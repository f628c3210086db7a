package notionintegrations

import (
	"context"

	"github.com/stretchr/testify/mock"

	"planbackend/clients"
	"planbackend/models"
)

// MockNotionIntegrationsService is a mock implementation of the NotionIntegrationsService interface
type MockNotionIntegrationsService struct {
	mock.Mock
}

func (m *MockNotionIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockNotionIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	args := m.Called(ctx, code, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockNotionIntegrationsService) UpdateConfig(
	ctx context.Context,
	userID string,
	update models.NotionConfigUpdate,
) (*models.Integration, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockNotionIntegrationsService) ListDatabases(
	ctx context.Context,
	userID string,
	page clients.NotionPagination,
) (*models.NotionDatabaseList, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotionDatabaseList), args.Error(1)
}

func (m *MockNotionIntegrationsService) ListDatabasePages(
	ctx context.Context,
	userID, databaseID string,
	page clients.NotionPagination,
) (*models.NotionPageList, error) {
	args := m.Called(ctx, userID, databaseID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotionPageList), args.Error(1)
}

func (m *MockNotionIntegrationsService) ListTasks(ctx context.Context, userID, from, to string) ([]*models.Task, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockNotionIntegrationsService) GetPage(
	ctx context.Context,
	userID, pageID string,
) (*models.NotionPage, *models.NotionFieldMappings, error) {
	args := m.Called(ctx, userID, pageID)
	var page *models.NotionPage
	if args.Get(0) != nil {
		page = args.Get(0).(*models.NotionPage)
	}
	var mappings *models.NotionFieldMappings
	if args.Get(1) != nil {
		mappings = args.Get(1).(*models.NotionFieldMappings)
	}
	return page, mappings, args.Error(2)
}

func (m *MockNotionIntegrationsService) UpdateRemoteStatus(
	ctx context.Context,
	userID, pageID string,
	status models.TaskStatus,
) error {
	args := m.Called(ctx, userID, pageID, status)
	return args.Error(0)
}
