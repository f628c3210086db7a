package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"planbackend/clients"
	"planbackend/core"
	"planbackend/models"
)

const (
	providerName     = "google"
	primaryCalendar  = "primary"
	maxEventsPerPage = 250
)

var scopes = []string{
	calendar.CalendarReadonlyScope,
	oauth2api.UserinfoEmailScope,
}

// GoogleClient implements the clients.GoogleClient interface using x/oauth2 and the Calendar API
type GoogleClient struct {
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	// apiBaseURL overrides https://www.googleapis.com/ when set
	apiBaseURL string
	httpClient *http.Client
}

// NewGoogleClient creates a Google client for one OAuth app
func NewGoogleClient(clientID, clientSecret string, timeout time.Duration) *GoogleClient {
	return NewGoogleClientWithEndpoints(clientID, clientSecret, &http.Client{Timeout: timeout}, googleoauth.Endpoint, "")
}

// NewGoogleClientWithEndpoints creates a Google client talking to custom OAuth and API endpoints
func NewGoogleClientWithEndpoints(
	clientID, clientSecret string,
	httpClient *http.Client,
	endpoint oauth2.Endpoint,
	apiBaseURL string,
) *GoogleClient {
	return &GoogleClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     endpoint,
		apiBaseURL:   apiBaseURL,
		httpClient:   httpClient,
	}
}

var _ clients.GoogleClient = (*GoogleClient)(nil)

func (c *GoogleClient) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     c.endpoint,
	}
}

func (c *GoogleClient) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// AuthCodeURL asks for offline access and forces the consent screen so a refresh token is always issued
func (c *GoogleClient) AuthCodeURL(state, redirectURL string) string {
	return c.oauthConfig(redirectURL).AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode exchanges an OAuth authorization code for access and refresh tokens
func (c *GoogleClient) ExchangeCode(ctx context.Context, code, redirectURL string) (*models.GoogleTokens, error) {
	token, err := c.oauthConfig(redirectURL).Exchange(c.oauthContext(ctx), code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, providerErrorFromRetrieve(retrieveErr)
		}
		return nil, fmt.Errorf("failed to exchange google authorization code: %w", err)
	}

	return tokensFromOAuth(token), nil
}

// RefreshTokens returns a valid bundle, refreshing the access token through the refresh token when it expired
func (c *GoogleClient) RefreshTokens(ctx context.Context, tokens models.GoogleTokens) (*models.GoogleTokens, error) {
	if tokens.AccessToken == "" && tokens.RefreshToken == "" {
		return nil, fmt.Errorf("stored google tokens are empty: %w", core.ErrTokenInvalid)
	}

	current := oauthFromTokens(tokens)
	if current.Valid() {
		return &tokens, nil
	}
	if tokens.RefreshToken == "" {
		return nil, fmt.Errorf("google access token expired and no refresh token is stored: %w", core.ErrTokenInvalid)
	}

	source := c.oauthConfig("").TokenSource(c.oauthContext(ctx), current)
	refreshed, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("google refused to refresh the token (%s): %w", retrieveErr.ErrorCode, core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("failed to refresh google token: %w", err)
	}

	result := tokensFromOAuth(refreshed)
	// Google omits the refresh token and scope on refresh
	if result.RefreshToken == "" {
		result.RefreshToken = tokens.RefreshToken
	}
	if result.Scope == "" {
		result.Scope = tokens.Scope
	}
	return result, nil
}

func (c *GoogleClient) GetUserEmail(ctx context.Context, tokens models.GoogleTokens) (string, error) {
	srv, err := oauth2api.NewService(ctx, c.apiOptions(tokens, "")...)
	if err != nil {
		return "", fmt.Errorf("unable to create google oauth2 service: %w", err)
	}

	userinfo, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", mapAPIError(err, "userinfo")
	}

	return userinfo.Email, nil
}

// ListEvents returns the events of the primary calendar overlapping [timeMin, timeMax), recurring events expanded
func (c *GoogleClient) ListEvents(
	ctx context.Context,
	tokens models.GoogleTokens,
	timeMin, timeMax time.Time,
) ([]models.GoogleEvent, error) {
	srv, err := c.calendarService(ctx, tokens)
	if err != nil {
		return nil, err
	}

	var events []models.GoogleEvent
	call := srv.Events.List(primaryCalendar).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxEventsPerPage)

	err = call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			events = append(events, eventFromAPI(item))
		}
		return nil
	})
	if err != nil {
		return nil, mapAPIError(err, "calendar events")
	}

	return events, nil
}

func (c *GoogleClient) GetEvent(ctx context.Context, tokens models.GoogleTokens, eventID string) (*models.GoogleEvent, error) {
	srv, err := c.calendarService(ctx, tokens)
	if err != nil {
		return nil, err
	}

	item, err := srv.Events.Get(primaryCalendar, eventID).Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError(err, "calendar event")
	}

	event := eventFromAPI(item)
	return &event, nil
}

func (c *GoogleClient) calendarService(ctx context.Context, tokens models.GoogleTokens) (*calendar.Service, error) {
	srv, err := calendar.NewService(ctx, c.apiOptions(tokens, "calendar/v3/")...)
	if err != nil {
		return nil, fmt.Errorf("unable to create google calendar service: %w", err)
	}
	return srv, nil
}

// apiOptions authenticates API calls with the stored access token as-is, refreshing is RefreshTokens' job
func (c *GoogleClient) apiOptions(tokens models.GoogleTokens, servicePath string) []option.ClientOption {
	httpClient := &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(oauthFromTokens(tokens)),
			Base:   c.httpClient.Transport,
		},
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.apiBaseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimSuffix(c.apiBaseURL, "/")+"/"+servicePath))
	}
	return opts
}

func eventFromAPI(item *calendar.Event) models.GoogleEvent {
	event := models.GoogleEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		HTMLLink:    item.HtmlLink,
		Status:      item.Status,
	}
	if item.Start != nil {
		event.StartDate = item.Start.Date
		event.StartDateTime = item.Start.DateTime
	}
	if item.End != nil {
		event.EndDate = item.End.Date
		event.EndDateTime = item.End.DateTime
	}
	return event
}

func tokensFromOAuth(token *oauth2.Token) *models.GoogleTokens {
	tokens := &models.GoogleTokens{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		tokens.Scope = scope
	}
	return tokens
}

func oauthFromTokens(tokens models.GoogleTokens) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		Expiry:       tokens.Expiry,
	}
}

func providerErrorFromRetrieve(retrieveErr *oauth2.RetrieveError) *core.ProviderError {
	providerErr := &core.ProviderError{
		Provider: providerName,
		Code:     retrieveErr.ErrorCode,
		Body:     string(retrieveErr.Body),
	}
	if retrieveErr.Response != nil {
		providerErr.StatusCode = retrieveErr.Response.StatusCode
	}
	return providerErr
}

func mapAPIError(err error, resource string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("google rejected the token: %w", core.ErrTokenInvalid)
		case http.StatusNotFound:
			return fmt.Errorf("google %s %w", resource, core.ErrNotFound)
		}
		return core.NewProviderError(providerName, apiErr.Code, apiErr.Body)
	}
	return fmt.Errorf("google %s request failed: %w", resource, err)
}
