package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"

	"planbackend/models"
)

const oauthStateKeyPrefix = "oauth:state:"

// RedisOAuthStatesRepository keeps OAuth states in Redis. Keys expire after ttl, so nothing needs sweeping.
type RedisOAuthStatesRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOAuthStatesRepository(client *redis.Client, ttl time.Duration) *RedisOAuthStatesRepository {
	return &RedisOAuthStatesRepository{client: client, ttl: ttl}
}

func (r *RedisOAuthStatesRepository) CreateOAuthState(ctx context.Context, state *models.OAuthState) error {
	if state.State == "" {
		return errors.New("state cannot be empty")
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal oauth state: %w", err)
	}

	created, err := r.client.SetNX(ctx, oauthStateKeyPrefix+state.State, data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store oauth state in redis: %w", err)
	}
	if !created {
		return fmt.Errorf("oauth state already exists")
	}

	return nil
}

// RedeemOAuthState uses GETDEL so a state can be read back exactly once
func (r *RedisOAuthStatesRepository) RedeemOAuthState(
	ctx context.Context,
	state string,
) (mo.Option[*models.OAuthState], error) {
	data, err := r.client.GetDel(ctx, oauthStateKeyPrefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return mo.None[*models.OAuthState](), nil
		}
		return mo.None[*models.OAuthState](), fmt.Errorf("failed to redeem oauth state from redis: %w", err)
	}

	oauthState := &models.OAuthState{}
	if err := json.Unmarshal([]byte(data), oauthState); err != nil {
		return mo.None[*models.OAuthState](), fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}

	return mo.Some(oauthState), nil
}

// DeleteOAuthStatesCreatedBefore is a no-op, Redis expires states on its own
func (r *RedisOAuthStatesRepository) DeleteOAuthStatesCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
