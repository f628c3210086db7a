package notionintegrations

import (
	"context"
	"fmt"

	"planbackend/clients"
	"planbackend/core"
	"planbackend/models"
)

var errNotionNotConfigured = fmt.Errorf("notion: %w", core.ErrNotConfigured)

// OptionalNotionIntegrationsService returns errors for all operations when Notion is not configured
type OptionalNotionIntegrationsService struct{}

func NewOptionalNotionIntegrationsService() *OptionalNotionIntegrationsService {
	return &OptionalNotionIntegrationsService{}
}

func (s *OptionalNotionIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	return "", errNotionNotConfigured
}

func (s *OptionalNotionIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	return nil, errNotionNotConfigured
}

func (s *OptionalNotionIntegrationsService) UpdateConfig(
	ctx context.Context,
	userID string,
	update models.NotionConfigUpdate,
) (*models.Integration, error) {
	return nil, errNotionNotConfigured
}

func (s *OptionalNotionIntegrationsService) ListDatabases(
	ctx context.Context,
	userID string,
	page clients.NotionPagination,
) (*models.NotionDatabaseList, error) {
	return nil, errNotionNotConfigured
}

func (s *OptionalNotionIntegrationsService) ListDatabasePages(
	ctx context.Context,
	userID, databaseID string,
	page clients.NotionPagination,
) (*models.NotionPageList, error) {
	return nil, errNotionNotConfigured
}

func (s *OptionalNotionIntegrationsService) ListTasks(ctx context.Context, userID, from, to string) ([]*models.Task, error) {
	return nil, errNotionNotConfigured
}

func (s *OptionalNotionIntegrationsService) GetPage(
	ctx context.Context,
	userID, pageID string,
) (*models.NotionPage, *models.NotionFieldMappings, error) {
	return nil, nil, errNotionNotConfigured
}

func (s *OptionalNotionIntegrationsService) UpdateRemoteStatus(
	ctx context.Context,
	userID, pageID string,
	status models.TaskStatus,
) error {
	return errNotionNotConfigured
}
