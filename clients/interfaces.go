package clients

import (
	"context"
	"time"

	"planbackend/models"
)

// GoogleClient covers Google's OAuth endpoints and the Calendar API
type GoogleClient interface {
	AuthCodeURL(state, redirectURL string) string
	ExchangeCode(ctx context.Context, code, redirectURL string) (*models.GoogleTokens, error)
	// RefreshTokens returns tokens unchanged while the access token is valid, otherwise a refreshed bundle
	RefreshTokens(ctx context.Context, tokens models.GoogleTokens) (*models.GoogleTokens, error)
	GetUserEmail(ctx context.Context, tokens models.GoogleTokens) (string, error)
	ListEvents(ctx context.Context, tokens models.GoogleTokens, timeMin, timeMax time.Time) ([]models.GoogleEvent, error)
	GetEvent(ctx context.Context, tokens models.GoogleTokens, eventID string) (*models.GoogleEvent, error)
}

// NotionClient covers Notion's OAuth token endpoint and the pages/databases API
type NotionClient interface {
	AuthCodeURL(state, redirectURL string) string
	ExchangeCode(ctx context.Context, code, redirectURL string) (*models.NotionTokens, error)
	SearchDatabases(ctx context.Context, accessToken string, page NotionPagination) (*models.NotionDatabaseList, error)
	GetDatabase(ctx context.Context, accessToken, databaseID string) (*models.NotionDatabase, error)
	QueryDatabase(ctx context.Context, accessToken, databaseID string, query NotionQuery) (*models.NotionPageList, error)
	GetPage(ctx context.Context, accessToken, pageID string) (*models.NotionPage, error)
	UpdatePageProperties(ctx context.Context, accessToken, pageID string, properties map[string]any) error
}

// SlackClient covers Slack's OAuth v2 endpoints and the stars API
type SlackClient interface {
	AuthCodeURL(state, redirectURL string) string
	ExchangeCode(ctx context.Context, code, redirectURL string) (*SlackOAuthResult, error)
	ListStarredMessages(ctx context.Context, accessToken string) ([]models.SlackStarredMessage, error)
}
