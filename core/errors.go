package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a sentinel error for "not found" cases
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the caller has no verified identity
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is authenticated but does not own the resource
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput covers malformed bodies and missing required fields
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidState is returned when an OAuth state is unknown, already redeemed or expired
	ErrInvalidState = errors.New("invalid or expired oauth state")
	// ErrAlreadyExists is returned when a user already has an integration for a service
	ErrAlreadyExists = errors.New("already exists")
	// ErrIntegrationNotFound is returned when a user has not connected the requested service
	ErrIntegrationNotFound = fmt.Errorf("integration %w", ErrNotFound)
	// ErrTokenInvalid is returned when a provider rejects a stored token or it cannot be decrypted
	ErrTokenInvalid = errors.New("integration token is invalid, reconnect the integration")
	// ErrDecryptFailed is returned when a stored ciphertext fails authentication
	ErrDecryptFailed = errors.New("failed to decrypt stored credentials")
	// ErrNotConfigured is returned by providers whose OAuth app credentials are missing
	ErrNotConfigured = errors.New("service is not configured")
)

// ProviderError is returned when a third-party API answers with a non-2xx status or an ok:false body
type ProviderError struct {
	Provider   string
	StatusCode int
	// Code is the provider's error code when it sends one (e.g. Slack "invalid_code")
	Code string
	// Body is the raw response body as returned by the provider
	Body string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s rejected the request: %s", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s request failed: status %d, body: %s", e.Provider, e.StatusCode, e.Body)
}

// NewProviderError creates a ProviderError for a non-2xx response
func NewProviderError(provider string, statusCode int, body string) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: statusCode, Body: body}
}

// IsProviderError reports whether err carries a ProviderError and returns it
func IsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr, true
	}
	return nil, false
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}

// InvalidInputf wraps ErrInvalidInput with a formatted message
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
