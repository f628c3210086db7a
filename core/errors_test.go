package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrIntegrationNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("failed to get task: %w", ErrNotFound)))
	assert.False(t, IsNotFoundError(errors.New("task not found")))
	assert.False(t, IsNotFoundError(nil))
}

func TestProviderError(t *testing.T) {
	t.Run("wrapped provider error is detected", func(t *testing.T) {
		err := fmt.Errorf("failed to exchange code: %w", NewProviderError("notion", 400, `{"error":"invalid_grant"}`))

		providerErr, ok := IsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, "notion", providerErr.Provider)
		assert.Equal(t, 400, providerErr.StatusCode)
		assert.Equal(t, `{"error":"invalid_grant"}`, providerErr.Body)
		assert.Contains(t, err.Error(), "status 400")
	})

	t.Run("error code takes precedence in message", func(t *testing.T) {
		err := &ProviderError{Provider: "slack", StatusCode: 200, Code: "invalid_code"}
		assert.Equal(t, "slack rejected the request: invalid_code", err.Error())
	})

	t.Run("plain error is not a provider error", func(t *testing.T) {
		_, ok := IsProviderError(errors.New("boom"))
		assert.False(t, ok)
	})
}

func TestInvalidInputf(t *testing.T) {
	err := InvalidInputf("%s is required", "pageId")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "pageId is required: invalid input", err.Error())
}
