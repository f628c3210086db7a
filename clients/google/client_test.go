package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"planbackend/core"
	"planbackend/models"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *GoogleClient {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	endpoint := oauth2.Endpoint{
		AuthURL:   server.URL + "/auth",
		TokenURL:  server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return NewGoogleClientWithEndpoints("client-id", "client-secret", &http.Client{Timeout: 5 * time.Second}, endpoint, server.URL+"/")
}

func TestGoogleClient_AuthCodeURL(t *testing.T) {
	client := NewGoogleClient("client-id", "client-secret", time.Second)

	authURL, err := url.Parse(client.AuthCodeURL("state123", "http://localhost:8080/integrations/google/callback"))
	require.NoError(t, err)

	query := authURL.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "state123", query.Get("state"))
	assert.Equal(t, "offline", query.Get("access_type"))
	assert.Equal(t, "consent", query.Get("prompt"))
	assert.Contains(t, query.Get("scope"), "calendar.readonly")
	assert.Contains(t, query.Get("scope"), "userinfo.email")
}

func TestGoogleClient_ExchangeCode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
			assert.Equal(t, "the-code", r.Form.Get("code"))
			assert.Equal(t, "client-id", r.Form.Get("client_id"))
			assert.Equal(t, "client-secret", r.Form.Get("client_secret"))
			assert.Equal(t, "http://localhost/cb", r.Form.Get("redirect_uri"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"ya29.access","refresh_token":"1//refresh","expires_in":3600,"token_type":"Bearer","scope":"openid email"}`))
		})
		client := newTestClient(t, mux)

		tokens, err := client.ExchangeCode(context.Background(), "the-code", "http://localhost/cb")
		require.NoError(t, err)
		assert.Equal(t, "ya29.access", tokens.AccessToken)
		assert.Equal(t, "1//refresh", tokens.RefreshToken)
		assert.Equal(t, "openid email", tokens.Scope)
		assert.True(t, tokens.Expiry.After(time.Now()))
	})

	t.Run("http 400 is a provider error carrying the body", func(t *testing.T) {
		body := `{"error":"invalid_grant","error_description":"Bad Request"}`
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(body))
		})
		client := newTestClient(t, mux)

		_, err := client.ExchangeCode(context.Background(), "bad", "http://localhost/cb")
		providerErr, ok := core.IsProviderError(err)
		require.True(t, ok, "expected provider error, got %v", err)
		assert.Equal(t, http.StatusBadRequest, providerErr.StatusCode)
		assert.Equal(t, body, providerErr.Body)
		assert.Equal(t, "invalid_grant", providerErr.Code)
	})
}

func TestGoogleClient_RefreshTokens(t *testing.T) {
	t.Run("valid token is returned unchanged", func(t *testing.T) {
		client := newTestClient(t, http.NewServeMux())
		tokens := models.GoogleTokens{AccessToken: "ya29.valid", Expiry: time.Now().Add(time.Hour)}

		result, err := client.RefreshTokens(context.Background(), tokens)
		require.NoError(t, err)
		assert.Equal(t, "ya29.valid", result.AccessToken)
	})

	t.Run("expired token is refreshed and keeps the refresh token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
			assert.Equal(t, "1//refresh", r.Form.Get("refresh_token"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"ya29.fresh","expires_in":3600,"token_type":"Bearer"}`))
		})
		client := newTestClient(t, mux)

		result, err := client.RefreshTokens(context.Background(), models.GoogleTokens{
			AccessToken:  "ya29.stale",
			RefreshToken: "1//refresh",
			Scope:        "calendar",
			Expiry:       time.Now().Add(-time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, "ya29.fresh", result.AccessToken)
		assert.Equal(t, "1//refresh", result.RefreshToken)
		assert.Equal(t, "calendar", result.Scope)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		})
		client := newTestClient(t, mux)

		_, err := client.RefreshTokens(context.Background(), models.GoogleTokens{
			AccessToken:  "ya29.stale",
			RefreshToken: "1//revoked",
			Expiry:       time.Now().Add(-time.Hour),
		})
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("expired without refresh token", func(t *testing.T) {
		client := newTestClient(t, http.NewServeMux())

		_, err := client.RefreshTokens(context.Background(), models.GoogleTokens{
			AccessToken: "ya29.stale",
			Expiry:      time.Now().Add(-time.Hour),
		})
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})
}

func TestGoogleClient_ListEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendar/v3/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ya29.access", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		assert.Equal(t, "2025-03-01T00:00:00Z", r.URL.Query().Get("timeMin"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": "e1", "summary": "Standup", "status": "confirmed", "htmlLink": "https://calendar.google.com/e1",
				 "start": {"dateTime": "2025-03-01T09:00:00+01:00"}, "end": {"dateTime": "2025-03-01T09:15:00+01:00"}},
				{"id": "e2", "summary": "Gone", "status": "cancelled"},
				{"id": "e3", "summary": "Holiday", "status": "confirmed",
				 "start": {"date": "2025-03-02"}, "end": {"date": "2025-03-03"}}
			]
		}`))
	})
	client := newTestClient(t, mux)

	timeMin := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(context.Background(), models.GoogleTokens{AccessToken: "ya29.access"}, timeMin, timeMin.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "Standup", events[0].Summary)
	assert.Equal(t, "2025-03-01T09:00:00+01:00", events[0].StartDateTime)
	assert.Equal(t, "2025-03-01T09:15:00+01:00", events[0].EndDateTime)
	assert.Equal(t, "https://calendar.google.com/e1", events[0].HTMLLink)

	assert.Equal(t, "e3", events[1].ID)
	assert.Equal(t, "2025-03-02", events[1].StartDate)
	assert.Empty(t, events[1].StartDateTime)
}

func TestGoogleClient_APIErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendar/v3/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	})
	mux.HandleFunc("/calendar/v3/calendars/primary/events/missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Not Found"}}`))
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"Backend Error"}}`))
	})
	client := newTestClient(t, mux)
	tokens := models.GoogleTokens{AccessToken: "ya29.access"}

	_, err := client.ListEvents(context.Background(), tokens, time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = client.GetEvent(context.Background(), tokens, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = client.GetUserEmail(context.Background(), tokens)
	providerErr, ok := core.IsProviderError(err)
	require.True(t, ok, "expected provider error, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, providerErr.StatusCode)
}
