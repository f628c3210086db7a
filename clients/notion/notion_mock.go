package notion

import (
	"context"

	"github.com/stretchr/testify/mock"

	"planbackend/clients"
	"planbackend/models"
)

// MockNotionClient is a mock implementation of the clients.NotionClient interface
type MockNotionClient struct {
	mock.Mock
}

func (m *MockNotionClient) AuthCodeURL(state, redirectURL string) string {
	args := m.Called(state, redirectURL)
	return args.String(0)
}

func (m *MockNotionClient) ExchangeCode(ctx context.Context, code, redirectURL string) (*models.NotionTokens, error) {
	args := m.Called(ctx, code, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotionTokens), args.Error(1)
}

func (m *MockNotionClient) SearchDatabases(
	ctx context.Context,
	accessToken string,
	page clients.NotionPagination,
) (*models.NotionDatabaseList, error) {
	args := m.Called(ctx, accessToken, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotionDatabaseList), args.Error(1)
}

func (m *MockNotionClient) GetDatabase(ctx context.Context, accessToken, databaseID string) (*models.NotionDatabase, error) {
	args := m.Called(ctx, accessToken, databaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotionDatabase), args.Error(1)
}

func (m *MockNotionClient) QueryDatabase(
	ctx context.Context,
	accessToken, databaseID string,
	query clients.NotionQuery,
) (*models.NotionPageList, error) {
	args := m.Called(ctx, accessToken, databaseID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotionPageList), args.Error(1)
}

func (m *MockNotionClient) GetPage(ctx context.Context, accessToken, pageID string) (*models.NotionPage, error) {
	args := m.Called(ctx, accessToken, pageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotionPage), args.Error(1)
}

func (m *MockNotionClient) UpdatePageProperties(
	ctx context.Context,
	accessToken, pageID string,
	properties map[string]any,
) error {
	args := m.Called(ctx, accessToken, pageID, properties)
	return args.Error(0)
}
