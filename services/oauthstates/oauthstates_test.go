package oauthstates

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbackend/core"
	"planbackend/db"
	"planbackend/models"
)

func setupService(t *testing.T, ttl time.Duration) *OAuthStatesService {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	// Redis keeps keys longer than the service TTL so the service-side expiry check is what rejects them
	return NewOAuthStatesService(db.NewRedisOAuthStatesRepository(client, time.Hour), ttl)
}

func TestOAuthStatesService_RedeemOnce(t *testing.T) {
	service := setupService(t, 10*time.Minute)
	ctx := context.Background()

	for _, provider := range []models.Service{models.ServiceGoogle, models.ServiceNotion, models.ServiceSlack} {
		state, err := service.BeginFlow(ctx, "u_123", provider)
		require.NoError(t, err)
		assert.NotEmpty(t, state)

		userID, err := service.Redeem(ctx, state, provider)
		require.NoError(t, err)
		assert.Equal(t, "u_123", userID)

		_, err = service.Redeem(ctx, state, provider)
		assert.ErrorIs(t, err, core.ErrInvalidState)
	}
}

func TestOAuthStatesService_Redeem_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown state", func(t *testing.T) {
		service := setupService(t, 10*time.Minute)

		_, err := service.Redeem(ctx, "never-issued", models.ServiceGoogle)
		assert.ErrorIs(t, err, core.ErrInvalidState)
	})

	t.Run("empty state", func(t *testing.T) {
		service := setupService(t, 10*time.Minute)

		_, err := service.Redeem(ctx, "", models.ServiceGoogle)
		assert.ErrorIs(t, err, core.ErrInvalidState)
	})

	t.Run("state minted for another service is consumed and rejected", func(t *testing.T) {
		service := setupService(t, 10*time.Minute)

		state, err := service.BeginFlow(ctx, "u_123", models.ServiceNotion)
		require.NoError(t, err)

		_, err = service.Redeem(ctx, state, models.ServiceSlack)
		assert.ErrorIs(t, err, core.ErrInvalidState)

		_, err = service.Redeem(ctx, state, models.ServiceNotion)
		assert.ErrorIs(t, err, core.ErrInvalidState)
	})

	t.Run("expired state", func(t *testing.T) {
		service := setupService(t, 10*time.Minute)
		start := time.Now()
		service.now = func() time.Time { return start }

		state, err := service.BeginFlow(ctx, "u_123", models.ServiceGoogle)
		require.NoError(t, err)

		service.now = func() time.Time { return start.Add(11 * time.Minute) }
		_, err = service.Redeem(ctx, state, models.ServiceGoogle)
		assert.ErrorIs(t, err, core.ErrInvalidState)
	})
}

func TestOAuthStatesService_BeginFlow_RequiresUser(t *testing.T) {
	service := setupService(t, 10*time.Minute)

	_, err := service.BeginFlow(context.Background(), "", models.ServiceGoogle)
	assert.Error(t, err)
}

func TestOAuthStatesService_SweepExpired(t *testing.T) {
	service := setupService(t, 10*time.Minute)

	deleted, err := service.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
