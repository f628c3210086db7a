package googleintegrations

import (
	"context"
	"fmt"
	"time"

	"planbackend/core"
	"planbackend/models"
)

var errGoogleNotConfigured = fmt.Errorf("google: %w", core.ErrNotConfigured)

// OptionalGoogleIntegrationsService returns errors for all operations when Google is not configured
type OptionalGoogleIntegrationsService struct{}

func NewOptionalGoogleIntegrationsService() *OptionalGoogleIntegrationsService {
	return &OptionalGoogleIntegrationsService{}
}

func (s *OptionalGoogleIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	return "", errGoogleNotConfigured
}

func (s *OptionalGoogleIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	return nil, errGoogleNotConfigured
}

func (s *OptionalGoogleIntegrationsService) ConnectWithTokens(
	ctx context.Context,
	userID string,
	tokens models.GoogleTokens,
) (*models.Integration, error) {
	return nil, errGoogleNotConfigured
}

func (s *OptionalGoogleIntegrationsService) ListEvents(
	ctx context.Context,
	userID string,
	timeMin, timeMax time.Time,
) ([]models.GoogleEvent, error) {
	return nil, errGoogleNotConfigured
}

func (s *OptionalGoogleIntegrationsService) GetEvent(ctx context.Context, userID, eventID string) (*models.GoogleEvent, error) {
	return nil, errGoogleNotConfigured
}
