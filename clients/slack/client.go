package slack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"planbackend/clients"
	"planbackend/core"
	"planbackend/models"
	"planbackend/utils"
)

const (
	providerName    = "slack"
	authorizeURL    = "https://slack.com/oauth/v2/authorize"
	userScopes      = "stars:read"
	starsPageSize   = 100
	maxStarsPages   = 5
	maxResponseSize = 10 << 20
)

// Slack error codes that mean the stored token is no longer usable
var tokenInvalidErrors = map[string]bool{
	"invalid_auth":     true,
	"not_authed":       true,
	"token_revoked":    true,
	"token_expired":    true,
	"account_inactive": true,
}

// SlackClient implements the clients.SlackClient interface using the slack-go/slack SDK
type SlackClient struct {
	clientID     string
	clientSecret string
	timeout      time.Duration
	transport    http.RoundTripper
}

// NewSlackClient creates a Slack client for one Slack app
func NewSlackClient(clientID, clientSecret string, timeout time.Duration) *SlackClient {
	return NewSlackClientWithTransport(clientID, clientSecret, timeout, http.DefaultTransport)
}

// NewSlackClientWithTransport routes every Slack call through transport
func NewSlackClientWithTransport(
	clientID, clientSecret string,
	timeout time.Duration,
	transport http.RoundTripper,
) *SlackClient {
	return &SlackClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		timeout:      timeout,
		transport:    transport,
	}
}

var _ clients.SlackClient = (*SlackClient)(nil)

// AuthCodeURL builds the Slack authorize URL requesting the user scopes needed to read stars
func (c *SlackClient) AuthCodeURL(state, redirectURL string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("user_scope", userScopes)
	params.Set("redirect_uri", redirectURL)
	params.Set("state", state)
	return authorizeURL + "?" + params.Encode()
}

// ExchangeCode exchanges an OAuth authorization code for access tokens
func (c *SlackClient) ExchangeCode(ctx context.Context, code, redirectURL string) (*clients.SlackOAuthResult, error) {
	httpClient, recorder := c.newHTTPClient()

	response, err := slack.GetOAuthV2ResponseContext(ctx, httpClient, c.clientID, c.clientSecret, code, redirectURL)
	if err != nil {
		return nil, c.mapError(err, recorder)
	}

	if response.AuthedUser.AccessToken == "" && response.AccessToken == "" {
		return nil, core.NewProviderError(providerName, http.StatusOK, "oauth.v2.access returned no access token")
	}

	tokens := models.SlackTokens{
		AccessToken: response.AuthedUser.AccessToken,
		TokenType:   response.AuthedUser.TokenType,
		Scope:       response.AuthedUser.Scope,
	}
	if response.TokenType == "bot" {
		tokens.BotAccessToken = response.AccessToken
	}
	// Apps installed without user scopes only return a bot token
	if tokens.AccessToken == "" {
		tokens.AccessToken = response.AccessToken
		tokens.TokenType = response.TokenType
		tokens.Scope = response.Scope
	}

	return &clients.SlackOAuthResult{
		Tokens:      tokens,
		Scopes:      utils.SplitAndTrim(tokens.Scope),
		TeamID:      response.Team.ID,
		TeamName:    response.Team.Name,
		SlackUserID: response.AuthedUser.ID,
	}, nil
}

// ListStarredMessages returns the user's starred items of type "message", newest first
func (c *SlackClient) ListStarredMessages(ctx context.Context, accessToken string) ([]models.SlackStarredMessage, error) {
	httpClient, recorder := c.newHTTPClient()
	api := slack.New(accessToken, slack.OptionHTTPClient(httpClient))

	var messages []models.SlackStarredMessage
	params := slack.NewStarsParameters()
	params.Count = starsPageSize

	for page := 1; ; page++ {
		params.Page = page
		items, paging, err := api.ListStarsContext(ctx, params)
		if err != nil {
			return nil, c.mapError(err, recorder)
		}

		for _, item := range items {
			message, ok := starredMessageFromItem(item)
			if !ok {
				continue
			}
			messages = append(messages, message)
		}

		if paging == nil || paging.Page >= paging.Pages {
			break
		}
		if page == maxStarsPages {
			log.Printf("⚠️ Stopped listing starred Slack items after %d of %d pages", page, paging.Pages)
			break
		}
	}

	return messages, nil
}

func starredMessageFromItem(item slack.Item) (models.SlackStarredMessage, bool) {
	if item.Type != slack.TYPE_MESSAGE || item.Message == nil {
		return models.SlackStarredMessage{}, false
	}

	channel := item.Channel
	if channel == "" {
		channel = item.Message.Channel
	}
	if channel == "" || item.Message.Timestamp == "" {
		return models.SlackStarredMessage{}, false
	}

	return models.SlackStarredMessage{
		Channel:   channel,
		TS:        item.Message.Timestamp,
		Text:      item.Message.Text,
		User:      item.Message.User,
		Permalink: item.Message.Permalink,
	}, true
}

func (c *SlackClient) mapError(err error, recorder *errorBodyRecorder) error {
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		if tokenInvalidErrors[slackErr.Err] {
			return fmt.Errorf("slack rejected the token (%s): %w", slackErr.Err, core.ErrTokenInvalid)
		}
		return &core.ProviderError{
			Provider:   providerName,
			StatusCode: http.StatusOK,
			Code:       slackErr.Err,
			Body:       recorder.Body(),
		}
	}

	var statusErr slack.StatusCodeError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusUnauthorized {
			return fmt.Errorf("slack rejected the token: %w", core.ErrTokenInvalid)
		}
		return core.NewProviderError(providerName, statusErr.Code, recorder.Body())
	}

	var rateLimitErr *slack.RateLimitedError
	if errors.As(err, &rateLimitErr) {
		return &core.ProviderError{
			Provider:   providerName,
			StatusCode: http.StatusTooManyRequests,
			Code:       "ratelimited",
		}
	}

	return fmt.Errorf("slack request failed: %w", err)
}

func (c *SlackClient) newHTTPClient() (*http.Client, *errorBodyRecorder) {
	recorder := &errorBodyRecorder{base: c.transport, limit: maxResponseSize}
	return &http.Client{Timeout: c.timeout, Transport: recorder}, recorder
}

// errorBodyRecorder keeps the body of the last response, which the SDK drops from its errors.
// Every 2xx body is kept as well since Slack reports ok:false with HTTP 200.
type errorBodyRecorder struct {
	base  http.RoundTripper
	limit int64

	mu   sync.Mutex
	body []byte
}

func (r *errorBodyRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, r.limit+1))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read slack response: %w", readErr)
	}
	if int64(len(body)) > r.limit {
		log.Printf("⚠️ Slack response from %s exceeded %d bytes, truncating", req.URL.Path, r.limit)
		body = body[:r.limit]
	}

	r.mu.Lock()
	r.body = body
	r.mu.Unlock()

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (r *errorBodyRecorder) Body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.TrimSpace(string(r.body))
}
