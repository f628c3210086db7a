package slackintegrations

import (
	"context"
	"fmt"
	"log"

	"planbackend/clients"
	"planbackend/core"
	"planbackend/models"
	"planbackend/services"
)

type SlackIntegrationsService struct {
	integrationsService services.IntegrationsService
	oauthStatesService  services.OAuthStatesService
	slackClient         clients.SlackClient
	redirectURL         string
}

func NewSlackIntegrationsService(
	integrationsService services.IntegrationsService,
	oauthStatesService services.OAuthStatesService,
	slackClient clients.SlackClient,
	redirectURL string,
) *SlackIntegrationsService {
	return &SlackIntegrationsService{
		integrationsService: integrationsService,
		oauthStatesService:  oauthStatesService,
		slackClient:         slackClient,
		redirectURL:         redirectURL,
	}
}

func (s *SlackIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	state, err := s.oauthStatesService.BeginFlow(ctx, userID, models.ServiceSlack)
	if err != nil {
		return "", fmt.Errorf("failed to begin slack oauth flow: %w", err)
	}
	return s.slackClient.AuthCodeURL(state, s.redirectURL), nil
}

func (s *SlackIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	log.Printf("📋 Starting to complete Slack OAuth callback")
	if code == "" {
		return nil, core.InvalidInputf("missing code")
	}

	userID, err := s.oauthStatesService.Redeem(ctx, state, models.ServiceSlack)
	if err != nil {
		return nil, err
	}

	result, err := s.slackClient.ExchangeCode(ctx, code, s.redirectURL)
	if err != nil {
		log.Printf("❌ Slack token exchange failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to exchange slack authorization code: %w", err)
	}

	config := models.IntegrationConfig{
		TeamID:      result.TeamID,
		TeamName:    result.TeamName,
		SlackUserID: result.SlackUserID,
	}
	if err := config.SetTokens(result.Tokens); err != nil {
		return nil, err
	}

	integration, created, err := s.integrationsService.UpsertFirstIntegration(ctx, &models.Integration{
		UserID:  userID,
		Service: models.ServiceSlack,
		Config:  config,
		Scopes:  result.Scopes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store slack integration: %w", err)
	}
	if !created {
		integration, err = s.integrationsService.UpdateIntegrationConnection(ctx, integration.ID, map[string]any{
			"tokens":      result.Tokens,
			"teamId":      result.TeamID,
			"teamName":    result.TeamName,
			"slackUserId": result.SlackUserID,
		}, result.Scopes)
		if err != nil {
			return nil, err
		}
	}

	log.Printf("📋 Completed successfully - connected Slack team %s for user: %s", result.TeamID, userID)
	return integration, nil
}

func (s *SlackIntegrationsService) ListTaskCandidates(ctx context.Context, userID string) ([]models.SlackTaskCandidate, error) {
	log.Printf("📋 Starting to list Slack task candidates for user: %s", userID)
	messages, err := s.starredMessages(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.SlackTaskCandidate, 0, len(messages))
	for _, message := range messages {
		candidates = append(candidates, MapStarredMessage(message))
	}

	log.Printf("📋 Completed successfully - found %d Slack task candidates for user: %s", len(candidates), userID)
	return candidates, nil
}

// GetStarredMessage finds one of the user's starred messages. Slack has no lookup by id for stars.
func (s *SlackIntegrationsService) GetStarredMessage(
	ctx context.Context,
	userID, channel, ts string,
) (*models.SlackStarredMessage, error) {
	if channel == "" || ts == "" {
		return nil, core.InvalidInputf("missing channel or ts")
	}

	messages, err := s.starredMessages(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range messages {
		if messages[i].Channel == channel && messages[i].TS == ts {
			return &messages[i], nil
		}
	}
	return nil, fmt.Errorf("starred slack message %s/%s %w", channel, ts, core.ErrNotFound)
}

func (s *SlackIntegrationsService) starredMessages(ctx context.Context, userID string) ([]models.SlackStarredMessage, error) {
	integrationOpt, err := s.integrationsService.FindIntegration(ctx, userID, models.ServiceSlack)
	if err != nil {
		return nil, err
	}
	if integrationOpt.IsAbsent() {
		return nil, core.ErrIntegrationNotFound
	}

	var tokens models.SlackTokens
	if err := integrationOpt.MustGet().Config.DecodeTokens(&tokens); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTokenInvalid, err)
	}

	messages, err := s.slackClient.ListStarredMessages(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list slack stars: %w", err)
	}
	return messages, nil
}
