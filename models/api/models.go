package api

import "time"

// Error codes carried next to the message so clients can tell a lost session
// from a provider grant that has to be reconnected
const (
	ErrorCodeUnauthorized  = "unauthorized"
	ErrorCodeTokenInvalid  = "integration_token_invalid"
	ErrorCodeForbidden     = "forbidden"
	ErrorCodeNotFound      = "not_found"
	ErrorCodeInvalidInput  = "invalid_input"
	ErrorCodeAlreadyExists = "already_exists"
	ErrorCodeNotConfigured = "not_configured"
	ErrorCodeProviderError = "provider_error"
	ErrorCodeInternal      = "internal"
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// IntegrationModel never carries credentials
type IntegrationModel struct {
	ID          string                 `json:"id"`
	Service     string                 `json:"service"`
	Config      IntegrationConfigModel `json:"config"`
	Scopes      []string               `json:"scopes"`
	ConnectedAt time.Time              `json:"connectedAt"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type IntegrationConfigModel struct {
	WorkspaceID   string                    `json:"workspaceId,omitempty"`
	WorkspaceName string                    `json:"workspaceName,omitempty"`
	DatabaseID    string                    `json:"databaseId,omitempty"`
	FieldMappings *NotionFieldMappingsModel `json:"fieldMappings,omitempty"`
	TeamID        string                    `json:"teamId,omitempty"`
	TeamName      string                    `json:"teamName,omitempty"`
	Email         string                    `json:"email,omitempty"`
}

type NotionFieldMappingsModel struct {
	Title        string            `json:"title,omitempty"`
	Date         string            `json:"date,omitempty"`
	Status       string            `json:"status,omitempty"`
	StatusType   string            `json:"statusType,omitempty"   validate:"omitempty,oneof=status select checkbox"`
	StatusValues map[string]string `json:"statusValues,omitempty"`
}

type TaskModel struct {
	ID                  string            `json:"id,omitempty"`
	Title               string            `json:"title"`
	Notes               string            `json:"notes"`
	PlannedDate         *string           `json:"plannedDate"`
	StartTime           *string           `json:"startTime"`
	EndTime             *string           `json:"endTime"`
	IsTimeboxed         bool              `json:"isTimeboxed"`
	Status              string            `json:"status,omitempty"`
	OriginalIntegration *string           `json:"originalIntegration"`
	External            *ExternalRefModel `json:"external"`
	CreatedAt           *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time        `json:"updatedAt,omitempty"`
}

type ExternalRefModel struct {
	Service    string `json:"service"`
	PageID     string `json:"pageId,omitempty"`
	DatabaseID string `json:"databaseId,omitempty"`
	EventID    string `json:"eventId,omitempty"`
	ChannelID  string `json:"channelId,omitempty"`
	MessageTS  string `json:"messageTs,omitempty"`
	URL        string `json:"url,omitempty"`
}

type SlackTaskCandidateModel struct {
	Title       string `json:"title"`
	Notes       string `json:"notes"`
	ExternalURL string `json:"externalUrl"`
	// CreatedAt is ISO 8601 with millisecond precision
	CreatedAt string `json:"createdAt"`
	Channel   string `json:"channel"`
	TS        string `json:"ts"`
}

type NotionDatabaseModel struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	URL        string             `json:"url"`
	Properties []NotionFieldModel `json:"properties"`
}

type NotionFieldModel struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type NotionPageModel struct {
	ID         string                `json:"id"`
	URL        string                `json:"url"`
	Archived   bool                  `json:"archived"`
	Properties []NotionPropertyModel `json:"properties"`
}

type NotionPropertyModel struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Option   string `json:"option,omitempty"`
	Checkbox *bool  `json:"checkbox,omitempty"`
}

// Cursor-paginated list responses
type NotionDatabaseListResponse struct {
	Databases  []NotionDatabaseModel `json:"databases"`
	NextCursor *string               `json:"next_cursor"`
	HasMore    bool                  `json:"has_more"`
}

type NotionPageListResponse struct {
	Pages      []NotionPageModel `json:"pages"`
	NextCursor *string           `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}
