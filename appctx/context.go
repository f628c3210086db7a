package appctx

import (
	"context"

	"planbackend/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// SetUser adds the authenticated user to the request context
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// GetUser extracts the authenticated user from the request context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// GetUserID returns the id of the authenticated user, every user-scoped query filters on it
func GetUserID(ctx context.Context) (string, bool) {
	user, ok := GetUser(ctx)
	if !ok || user.ID == "" {
		return "", false
	}
	return user.ID, true
}
