package handlers

import (
	"encoding/json"

	"planbackend/models/api"
)

type CreateIntegrationRequest struct {
	Service string          `json:"service" validate:"required,oneof=google notion slack"`
	Config  json.RawMessage `json:"config"`
	Scopes  []string        `json:"scopes"`
}

// GoogleAutoConnectRequest carries a credential the browser obtained itself
type GoogleAutoConnectRequest struct {
	AccessToken  string `json:"accessToken"  validate:"required"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expiresIn"    validate:"gte=0"`
}

type NotionConfigRequest struct {
	DatabaseID    *string                       `json:"databaseId"    validate:"omitempty,min=1"`
	FieldMappings *api.NotionFieldMappingsModel `json:"fieldMappings"`
}

type NotionImportRequest struct {
	PageID      string `json:"pageId"      validate:"required"`
	PlannedDate string `json:"plannedDate" validate:"omitempty,datetime=2006-01-02"`
}

type SlackImportRequest struct {
	Channel     string `json:"channel"     validate:"required"`
	TS          string `json:"ts"          validate:"required"`
	PlannedDate string `json:"plannedDate" validate:"omitempty,datetime=2006-01-02"`
}

type GoogleImportRequest struct {
	EventID     string `json:"eventId"     validate:"required"`
	PlannedDate string `json:"plannedDate" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=inbox backlog draft planned done pending_acceptance awaiting_approval rejected blocked"`
}
