package services

import (
	"context"
	"time"

	"github.com/samber/mo"

	"planbackend/clients"
	"planbackend/models"
)

// UsersService defines the interface for user-related operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, authProvider, authProviderID string) (*models.User, error)
}

// OAuthStatesService mints and redeems one-time OAuth state tokens
type OAuthStatesService interface {
	BeginFlow(ctx context.Context, userID string, service models.Service) (string, error)
	// Redeem returns the user that began the flow. It fails with core.ErrInvalidState when the state
	// is unknown, already redeemed, expired or was minted for another service.
	Redeem(ctx context.Context, state string, service models.Service) (string, error)
	SweepExpired(ctx context.Context) (int64, error)
}

// TokenCipher seals credentials at rest
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// IntegrationsService is the integration record store, one record per (user, service)
type IntegrationsService interface {
	ListIntegrations(ctx context.Context, userID string) ([]*models.Integration, error)
	FindIntegration(ctx context.Context, userID string, service models.Service) (mo.Option[*models.Integration], error)
	// UpsertFirstIntegration inserts the record unless the user already has one for the service.
	// It returns the stored record and whether it was created by this call.
	UpsertFirstIntegration(ctx context.Context, integration *models.Integration) (*models.Integration, bool, error)
	CreateIntegration(
		ctx context.Context,
		userID string,
		service models.Service,
		config models.IntegrationConfig,
		scopes []string,
	) (*models.Integration, error)
	PatchIntegrationConfig(
		ctx context.Context,
		userID string,
		service models.Service,
		patch map[string]any,
	) (*models.Integration, error)
	UpdateIntegrationConnection(
		ctx context.Context,
		integrationID string,
		patch map[string]any,
		scopes []string,
	) (*models.Integration, error)
	DeleteIntegration(ctx context.Context, integrationID, requestingUserID string) error
}

// ProviderConnector is the connect/callback half of every provider integration
type ProviderConnector interface {
	GetAuthURL(ctx context.Context, userID string) (string, error)
	CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error)
}

// GoogleIntegrationsService connects Google Calendar and reads events
type GoogleIntegrationsService interface {
	ProviderConnector
	ConnectWithTokens(ctx context.Context, userID string, tokens models.GoogleTokens) (*models.Integration, error)
	ListEvents(ctx context.Context, userID string, timeMin, timeMax time.Time) ([]models.GoogleEvent, error)
	GetEvent(ctx context.Context, userID, eventID string) (*models.GoogleEvent, error)
}

// NotionIntegrationsService connects Notion, proxies databases and writes status back to pages
type NotionIntegrationsService interface {
	ProviderConnector
	UpdateConfig(ctx context.Context, userID string, update models.NotionConfigUpdate) (*models.Integration, error)
	ListDatabases(ctx context.Context, userID string, page clients.NotionPagination) (*models.NotionDatabaseList, error)
	ListDatabasePages(
		ctx context.Context,
		userID, databaseID string,
		page clients.NotionPagination,
	) (*models.NotionPageList, error)
	// ListTasks maps the pages of the configured database dated within [from, to] to unsaved tasks
	ListTasks(ctx context.Context, userID, from, to string) ([]*models.Task, error)
	// GetPage returns the page and the user's saved field mappings, which may be nil
	GetPage(ctx context.Context, userID, pageID string) (*models.NotionPage, *models.NotionFieldMappings, error)
	UpdateRemoteStatus(ctx context.Context, userID, pageID string, status models.TaskStatus) error
}

// SlackIntegrationsService connects Slack and surfaces starred messages
type SlackIntegrationsService interface {
	ProviderConnector
	ListTaskCandidates(ctx context.Context, userID string) ([]models.SlackTaskCandidate, error)
	GetStarredMessage(ctx context.Context, userID, channel, ts string) (*models.SlackStarredMessage, error)
}

// TasksService persists unified tasks
type TasksService interface {
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	ListTasksByPlannedDate(ctx context.Context, userID, plannedDate string) ([]*models.Task, error)
	UpdateTaskStatus(ctx context.Context, userID, taskID string, status models.TaskStatus) (*models.Task, error)
}

// TransactionManager handles database transactions via context
type TransactionManager interface {
	// WithTransaction runs fn in a transaction, reusing one already present in ctx
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
