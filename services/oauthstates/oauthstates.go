package oauthstates

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"planbackend/core"
	"planbackend/models"
)

type statesRepository interface {
	CreateOAuthState(ctx context.Context, state *models.OAuthState) error
	RedeemOAuthState(ctx context.Context, state string) (mo.Option[*models.OAuthState], error)
	DeleteOAuthStatesCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type OAuthStatesService struct {
	statesRepo statesRepository
	ttl        time.Duration
	now        func() time.Time
}

func NewOAuthStatesService(repo statesRepository, ttl time.Duration) *OAuthStatesService {
	return &OAuthStatesService{statesRepo: repo, ttl: ttl, now: time.Now}
}

func (s *OAuthStatesService) BeginFlow(ctx context.Context, userID string, service models.Service) (string, error) {
	log.Printf("📋 Starting to begin %s OAuth flow for user: %s", service, userID)
	if userID == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}

	state, err := core.NewStateToken()
	if err != nil {
		return "", err
	}

	oauthState := &models.OAuthState{
		State:     state,
		UserID:    userID,
		Service:   service,
		CreatedAt: s.now().UTC(),
	}
	if err := s.statesRepo.CreateOAuthState(ctx, oauthState); err != nil {
		return "", fmt.Errorf("failed to persist oauth state: %w", err)
	}

	log.Printf("📋 Completed successfully - began %s OAuth flow for user: %s", service, userID)
	return state, nil
}

// Redeem consumes the state. A state is removed on its first redemption attempt even when
// that attempt is rejected, so a leaked state can never be retried.
func (s *OAuthStatesService) Redeem(ctx context.Context, state string, service models.Service) (string, error) {
	log.Printf("📋 Starting to redeem %s OAuth state", service)
	if state == "" {
		return "", fmt.Errorf("missing state: %w", core.ErrInvalidState)
	}

	stateOpt, err := s.statesRepo.RedeemOAuthState(ctx, state)
	if err != nil {
		return "", fmt.Errorf("failed to redeem oauth state: %w", err)
	}
	if stateOpt.IsAbsent() {
		log.Printf("⚠️ OAuth state is unknown or already redeemed")
		return "", core.ErrInvalidState
	}

	oauthState := stateOpt.MustGet()
	if oauthState.Service != service {
		log.Printf("⚠️ OAuth state was minted for %s, not %s", oauthState.Service, service)
		return "", core.ErrInvalidState
	}
	if oauthState.IsExpired(s.ttl, s.now()) {
		log.Printf("⚠️ OAuth state for user %s expired", oauthState.UserID)
		return "", core.ErrInvalidState
	}

	log.Printf("📋 Completed successfully - redeemed %s OAuth state for user: %s", service, oauthState.UserID)
	return oauthState.UserID, nil
}

// SweepExpired deletes states older than the TTL
func (s *OAuthStatesService) SweepExpired(ctx context.Context) (int64, error) {
	log.Printf("📋 Starting to sweep OAuth states older than %s", s.ttl)

	deleted, err := s.statesRepo.DeleteOAuthStatesCreatedBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired oauth states: %w", err)
	}

	log.Printf("📋 Completed successfully - swept %d expired OAuth states", deleted)
	return deleted, nil
}
