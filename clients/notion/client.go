package notion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"planbackend/clients"
	"planbackend/core"
	"planbackend/models"
)

const (
	providerName   = "notion"
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"
)

// NotionClient implements the clients.NotionClient interface over Notion's JSON API
type NotionClient struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

// NewNotionClient creates a Notion client for one public integration
func NewNotionClient(clientID, clientSecret string, timeout time.Duration) *NotionClient {
	return NewNotionClientWithBaseURL(clientID, clientSecret, &http.Client{Timeout: timeout}, defaultBaseURL)
}

// NewNotionClientWithBaseURL creates a Notion client talking to baseURL instead of api.notion.com
func NewNotionClientWithBaseURL(clientID, clientSecret string, httpClient *http.Client, baseURL string) *NotionClient {
	return &NotionClient{
		httpClient:   httpClient,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

var _ clients.NotionClient = (*NotionClient)(nil)

// TokenExchangeRequest represents the OAuth token exchange request
type TokenExchangeRequest struct {
	GrantType   string `json:"grant_type"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

func (c *NotionClient) AuthCodeURL(state, redirectURL string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("response_type", "code")
	params.Set("owner", "user")
	params.Set("redirect_uri", redirectURL)
	params.Set("state", state)
	return c.baseURL + "/v1/oauth/authorize?" + params.Encode()
}

// ExchangeCode exchanges an OAuth authorization code for the full Notion token bundle.
// Notion authenticates the integration with HTTP Basic auth instead of form fields.
func (c *NotionClient) ExchangeCode(ctx context.Context, code, redirectURL string) (*models.NotionTokens, error) {
	reqBody := TokenExchangeRequest{
		GrantType:   "authorization_code",
		Code:        code,
		RedirectURI: redirectURL,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth/token", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, providerError(resp.StatusCode, body)
	}

	var tokens models.NotionTokens
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("missing access token in notion response")
	}

	return &tokens, nil
}

type searchRequest struct {
	Filter      map[string]string `json:"filter"`
	StartCursor string            `json:"start_cursor,omitempty"`
	PageSize    int               `json:"page_size,omitempty"`
}

type databaseListResponse struct {
	Results    []wireDatabase `json:"results"`
	NextCursor *string        `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

// SearchDatabases lists the databases the integration was granted access to
func (c *NotionClient) SearchDatabases(
	ctx context.Context,
	accessToken string,
	page clients.NotionPagination,
) (*models.NotionDatabaseList, error) {
	reqBody := searchRequest{
		Filter:      map[string]string{"property": "object", "value": "database"},
		StartCursor: page.StartCursor,
		PageSize:    page.PageSize,
	}

	var response databaseListResponse
	if err := c.do(ctx, accessToken, http.MethodPost, "/v1/search", reqBody, &response); err != nil {
		return nil, err
	}

	list := &models.NotionDatabaseList{HasMore: response.HasMore}
	if response.NextCursor != nil {
		list.NextCursor = *response.NextCursor
	}
	for _, database := range response.Results {
		list.Databases = append(list.Databases, database.toModel())
	}

	return list, nil
}

func (c *NotionClient) GetDatabase(ctx context.Context, accessToken, databaseID string) (*models.NotionDatabase, error) {
	var response wireDatabase
	if err := c.do(ctx, accessToken, http.MethodGet, "/v1/databases/"+url.PathEscape(databaseID), nil, &response); err != nil {
		return nil, err
	}

	database := response.toModel()
	return &database, nil
}

type queryRequest struct {
	Filter      map[string]any   `json:"filter,omitempty"`
	Sorts       []map[string]any `json:"sorts,omitempty"`
	StartCursor string           `json:"start_cursor,omitempty"`
	PageSize    int              `json:"page_size,omitempty"`
}

type pageListResponse struct {
	Results    []wirePage `json:"results"`
	NextCursor *string    `json:"next_cursor"`
	HasMore    bool       `json:"has_more"`
}

func (c *NotionClient) QueryDatabase(
	ctx context.Context,
	accessToken, databaseID string,
	query clients.NotionQuery,
) (*models.NotionPageList, error) {
	reqBody := queryRequest{
		Filter:      query.Filter,
		Sorts:       query.Sorts,
		StartCursor: query.StartCursor,
		PageSize:    query.PageSize,
	}

	var response pageListResponse
	path := "/v1/databases/" + url.PathEscape(databaseID) + "/query"
	if err := c.do(ctx, accessToken, http.MethodPost, path, reqBody, &response); err != nil {
		return nil, err
	}

	list := &models.NotionPageList{HasMore: response.HasMore}
	if response.NextCursor != nil {
		list.NextCursor = *response.NextCursor
	}
	for _, page := range response.Results {
		list.Pages = append(list.Pages, page.toModel())
	}

	return list, nil
}

func (c *NotionClient) GetPage(ctx context.Context, accessToken, pageID string) (*models.NotionPage, error) {
	var response wirePage
	if err := c.do(ctx, accessToken, http.MethodGet, "/v1/pages/"+url.PathEscape(pageID), nil, &response); err != nil {
		return nil, err
	}

	page := response.toModel()
	return &page, nil
}

func (c *NotionClient) UpdatePageProperties(
	ctx context.Context,
	accessToken, pageID string,
	properties map[string]any,
) error {
	reqBody := map[string]any{"properties": properties}
	return c.do(ctx, accessToken, http.MethodPatch, "/v1/pages/"+url.PathEscape(pageID), reqBody, nil)
}

func (c *NotionClient) do(ctx context.Context, accessToken, method, path string, reqBody, dest any) error {
	var body io.Reader
	if reqBody != nil {
		jsonBody, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Notion-Version", notionVersion)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("notion rejected the token: %w", core.ErrTokenInvalid)
		case http.StatusNotFound:
			return fmt.Errorf("notion object %w", core.ErrNotFound)
		}
		return providerError(resp.StatusCode, respBody)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode notion response: %w", err)
	}

	return nil
}

// errorResponse covers both API errors ("code") and OAuth errors ("error")
type errorResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func providerError(statusCode int, body []byte) *core.ProviderError {
	providerErr := core.NewProviderError(providerName, statusCode, string(body))

	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		providerErr.Code = parsed.Code
		if providerErr.Code == "" {
			providerErr.Code = parsed.Error
		}
	}
	return providerErr
}
