package clients

import "planbackend/models"

// NotionPagination is the cursor window of a Notion list call
type NotionPagination struct {
	StartCursor string
	PageSize    int
}

// NotionQuery is a database query. Filter is passed to Notion as-is when set.
type NotionQuery struct {
	NotionPagination
	Filter map[string]any
	Sorts  []map[string]any
}

// SlackOAuthResult is the part of oauth.v2.access the integration keeps
type SlackOAuthResult struct {
	Tokens      models.SlackTokens
	Scopes      []string
	TeamID      string
	TeamName    string
	SlackUserID string
}
