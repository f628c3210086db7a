package googleintegrations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"planbackend/clients"
	"planbackend/core"
	"planbackend/models"
	"planbackend/services"
)

type GoogleIntegrationsService struct {
	integrationsService services.IntegrationsService
	oauthStatesService  services.OAuthStatesService
	googleClient        clients.GoogleClient
	redirectURL         string
}

func NewGoogleIntegrationsService(
	integrationsService services.IntegrationsService,
	oauthStatesService services.OAuthStatesService,
	googleClient clients.GoogleClient,
	redirectURL string,
) *GoogleIntegrationsService {
	return &GoogleIntegrationsService{
		integrationsService: integrationsService,
		oauthStatesService:  oauthStatesService,
		googleClient:        googleClient,
		redirectURL:         redirectURL,
	}
}

func (s *GoogleIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	state, err := s.oauthStatesService.BeginFlow(ctx, userID, models.ServiceGoogle)
	if err != nil {
		return "", fmt.Errorf("failed to begin google oauth flow: %w", err)
	}
	return s.googleClient.AuthCodeURL(state, s.redirectURL), nil
}

func (s *GoogleIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	log.Printf("📋 Starting to complete Google OAuth callback")
	if code == "" {
		return nil, core.InvalidInputf("missing code")
	}

	userID, err := s.oauthStatesService.Redeem(ctx, state, models.ServiceGoogle)
	if err != nil {
		return nil, err
	}

	tokens, err := s.googleClient.ExchangeCode(ctx, code, s.redirectURL)
	if err != nil {
		log.Printf("❌ Google token exchange failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to exchange google authorization code: %w", err)
	}

	integration, err := s.storeTokens(ctx, userID, *tokens)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - connected Google for user: %s", userID)
	return integration, nil
}

// ConnectWithTokens stores credentials the browser obtained itself, skipping the code exchange
func (s *GoogleIntegrationsService) ConnectWithTokens(
	ctx context.Context,
	userID string,
	tokens models.GoogleTokens,
) (*models.Integration, error) {
	log.Printf("📋 Starting to connect Google with client-side credentials for user: %s", userID)
	if tokens.AccessToken == "" {
		return nil, core.InvalidInputf("missing credential")
	}

	integration, err := s.storeTokens(ctx, userID, tokens)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - connected Google with client-side credentials for user: %s", userID)
	return integration, nil
}

func (s *GoogleIntegrationsService) storeTokens(
	ctx context.Context,
	userID string,
	tokens models.GoogleTokens,
) (*models.Integration, error) {
	email, err := s.googleClient.GetUserEmail(ctx, tokens)
	if err != nil {
		log.Printf("⚠️ Could not read Google account email for user %s: %v", userID, err)
	}

	config := models.IntegrationConfig{Email: email}
	if err := config.SetTokens(tokens); err != nil {
		return nil, err
	}
	scopes := strings.Fields(tokens.Scope)

	integration, created, err := s.integrationsService.UpsertFirstIntegration(ctx, &models.Integration{
		UserID:  userID,
		Service: models.ServiceGoogle,
		Config:  config,
		Scopes:  scopes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store google integration: %w", err)
	}
	if created {
		return integration, nil
	}

	// Reconnect: keep the record, replace the grant
	patch := map[string]any{"tokens": tokens}
	if email != "" {
		patch["email"] = email
	}
	return s.integrationsService.UpdateIntegrationConnection(ctx, integration.ID, patch, scopes)
}

func (s *GoogleIntegrationsService) ListEvents(
	ctx context.Context,
	userID string,
	timeMin, timeMax time.Time,
) ([]models.GoogleEvent, error) {
	log.Printf("📋 Starting to list Google Calendar events for user: %s", userID)
	if !timeMax.After(timeMin) {
		return nil, core.InvalidInputf("end must be after start")
	}

	tokens, err := s.validTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.googleClient.ListEvents(ctx, *tokens, timeMin, timeMax)
	if err != nil {
		return nil, fmt.Errorf("failed to list google calendar events: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d Google Calendar events for user: %s", len(events), userID)
	return events, nil
}

func (s *GoogleIntegrationsService) GetEvent(ctx context.Context, userID, eventID string) (*models.GoogleEvent, error) {
	log.Printf("📋 Starting to get Google Calendar event %s for user: %s", eventID, userID)
	if eventID == "" {
		return nil, core.InvalidInputf("missing eventId")
	}

	tokens, err := s.validTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.googleClient.GetEvent(ctx, *tokens, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get google calendar event: %w", err)
	}

	log.Printf("📋 Completed successfully - got Google Calendar event %s", eventID)
	return event, nil
}

// validTokens loads the stored bundle and refreshes it when expired, persisting the refreshed bundle
func (s *GoogleIntegrationsService) validTokens(ctx context.Context, userID string) (*models.GoogleTokens, error) {
	integrationOpt, err := s.integrationsService.FindIntegration(ctx, userID, models.ServiceGoogle)
	if err != nil {
		return nil, err
	}
	if integrationOpt.IsAbsent() {
		return nil, core.ErrIntegrationNotFound
	}
	integration := integrationOpt.MustGet()

	var stored models.GoogleTokens
	if err := integration.Config.DecodeTokens(&stored); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTokenInvalid, err)
	}

	fresh, err := s.googleClient.RefreshTokens(ctx, stored)
	if err != nil {
		if errors.Is(err, core.ErrTokenInvalid) {
			log.Printf("⚠️ Google token for user %s can no longer be refreshed", userID)
		}
		return nil, err
	}

	if fresh.AccessToken != stored.AccessToken {
		services.NonCriticalEffect{Name: "persist refreshed google tokens"}.Run(ctx, func(ctx context.Context) error {
			_, err := s.integrationsService.PatchIntegrationConfig(ctx, userID, models.ServiceGoogle, map[string]any{
				"tokens": *fresh,
			})
			return err
		})
	}

	return fresh, nil
}
