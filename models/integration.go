package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type Service string

const (
	ServiceGoogle Service = "google"
	ServiceNotion Service = "notion"
	ServiceSlack  Service = "slack"
)

// ParseService validates a service tag coming from a request
func ParseService(value string) (Service, bool) {
	switch Service(value) {
	case ServiceGoogle, ServiceNotion, ServiceSlack:
		return Service(value), true
	}
	return "", false
}

// Integration is a user's connection to one external service.
// There is at most one integration per (UserID, Service).
type Integration struct {
	ID          string            `db:"id"           json:"id"`
	UserID      string            `db:"user_id"      json:"user_id"`
	Service     Service           `db:"service"      json:"service"`
	Config      IntegrationConfig `db:"config"       json:"-"`
	Scopes      pq.StringArray    `db:"scopes"       json:"scopes"`
	ConnectedAt time.Time         `db:"connected_at" json:"connected_at"`
	CreatedAt   time.Time         `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"   json:"updated_at"`
}

// IntegrationConfig is stored as JSONB. Tokens holds a JSON object for Google and Slack
// and a JSON string (the ciphertext) for Notion.
type IntegrationConfig struct {
	Tokens json.RawMessage `json:"tokens,omitempty"`

	// Notion
	WorkspaceID   string               `json:"workspaceId,omitempty"`
	WorkspaceName string               `json:"workspaceName,omitempty"`
	BotID         string               `json:"botId,omitempty"`
	DatabaseID    string               `json:"databaseId,omitempty"`
	FieldMappings *NotionFieldMappings `json:"fieldMappings,omitempty"`

	// Slack
	TeamID      string `json:"teamId,omitempty"`
	TeamName    string `json:"teamName,omitempty"`
	SlackUserID string `json:"slackUserId,omitempty"`

	// Google
	Email string `json:"email,omitempty"`
}

// NotionFieldMappings names the database properties used when mapping pages to tasks
type NotionFieldMappings struct {
	Title        string            `json:"title,omitempty"`
	Date         string            `json:"date,omitempty"`
	Status       string            `json:"status,omitempty"`
	StatusType   string            `json:"statusType,omitempty"   validate:"omitempty,oneof=status select checkbox"`
	StatusValues map[string]string `json:"statusValues,omitempty"`
}

// Value returns text, lib/pq would send []byte as bytea
func (c IntegrationConfig) Value() (driver.Value, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal integration config: %w", err)
	}
	return string(data), nil
}

func (c *IntegrationConfig) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = IntegrationConfig{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported integration config type %T", src)
	}
	return json.Unmarshal(data, c)
}

// SetTokens stores a structured token bundle
func (c *IntegrationConfig) SetTokens(tokens any) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	c.Tokens = data
	return nil
}

// DecodeTokens reads a structured token bundle into dest
func (c IntegrationConfig) DecodeTokens(dest any) error {
	if len(c.Tokens) == 0 {
		return fmt.Errorf("integration has no stored tokens")
	}
	if err := json.Unmarshal(c.Tokens, dest); err != nil {
		return fmt.Errorf("failed to decode stored tokens: %w", err)
	}
	return nil
}

// SetSealedTokens stores an opaque ciphertext blob
func (c *IntegrationConfig) SetSealedTokens(ciphertext string) error {
	return c.SetTokens(ciphertext)
}

// SealedTokens returns the opaque ciphertext blob
func (c IntegrationConfig) SealedTokens() (string, error) {
	var ciphertext string
	if err := c.DecodeTokens(&ciphertext); err != nil {
		return "", err
	}
	return ciphertext, nil
}

// NotionConfigUpdate is a partial update of a Notion integration's config. Nil fields are left as stored.
type NotionConfigUpdate struct {
	DatabaseID    *string
	FieldMappings *NotionFieldMappings
}
