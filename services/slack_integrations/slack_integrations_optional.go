package slackintegrations

import (
	"context"
	"fmt"

	"planbackend/core"
	"planbackend/models"
)

var errSlackNotConfigured = fmt.Errorf("slack: %w", core.ErrNotConfigured)

// OptionalSlackIntegrationsService returns errors for all operations when Slack is not configured
type OptionalSlackIntegrationsService struct{}

// NewOptionalSlackIntegrationsService creates a new optional Slack integrations service
func NewOptionalSlackIntegrationsService() *OptionalSlackIntegrationsService {
	return &OptionalSlackIntegrationsService{}
}

func (s *OptionalSlackIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	return "", errSlackNotConfigured
}

func (s *OptionalSlackIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	return nil, errSlackNotConfigured
}

func (s *OptionalSlackIntegrationsService) ListTaskCandidates(ctx context.Context, userID string) ([]models.SlackTaskCandidate, error) {
	return nil, errSlackNotConfigured
}

func (s *OptionalSlackIntegrationsService) GetStarredMessage(
	ctx context.Context,
	userID, channel, ts string,
) (*models.SlackStarredMessage, error) {
	return nil, errSlackNotConfigured
}
