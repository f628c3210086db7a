package models

import (
	"encoding/json"
	"time"
)

// GoogleTokens is persisted as structured plaintext
type GoogleTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scope        string    `json:"scope,omitempty"`
}

// SlackTokens is persisted as structured plaintext.
// AccessToken is the user token (stars are per user), BotAccessToken is kept when the app also installs a bot.
type SlackTokens struct {
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type,omitempty"`
	Scope          string `json:"scope,omitempty"`
	BotAccessToken string `json:"bot_access_token,omitempty"`
}

// NotionTokens is the full bundle returned by Notion's token endpoint. It is encrypted as one blob.
type NotionTokens struct {
	AccessToken          string          `json:"access_token"`
	TokenType            string          `json:"token_type,omitempty"`
	BotID                string          `json:"bot_id,omitempty"`
	WorkspaceID          string          `json:"workspace_id,omitempty"`
	WorkspaceName        string          `json:"workspace_name,omitempty"`
	WorkspaceIcon        string          `json:"workspace_icon,omitempty"`
	DuplicatedTemplateID string          `json:"duplicated_template_id,omitempty"`
	Owner                json.RawMessage `json:"owner,omitempty"`
}
