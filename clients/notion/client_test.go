package notion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planbackend/clients"
	"planbackend/core"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *NotionClient {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewNotionClientWithBaseURL("client-id", "client-secret", &http.Client{Timeout: 5 * time.Second}, server.URL)
}

func TestNotionClient_AuthCodeURL(t *testing.T) {
	client := NewNotionClient("client-id", "client-secret", time.Second)

	authURL, err := url.Parse(client.AuthCodeURL("state123", "http://localhost:8080/integrations/notion/callback"))
	require.NoError(t, err)

	assert.Equal(t, "api.notion.com", authURL.Host)
	assert.Equal(t, "/v1/oauth/authorize", authURL.Path)
	assert.Equal(t, "code", authURL.Query().Get("response_type"))
	assert.Equal(t, "user", authURL.Query().Get("owner"))
	assert.Equal(t, "state123", authURL.Query().Get("state"))
}

func TestNotionClient_ExchangeCode(t *testing.T) {
	t.Run("uses basic auth and a json body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
			assert.Equal(t, expected, r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body TokenExchangeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "authorization_code", body.GrantType)
			assert.Equal(t, "the-code", body.Code)
			assert.Equal(t, "http://localhost/cb", body.RedirectURI)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"access_token": "secret_abc",
				"token_type": "bearer",
				"bot_id": "bot_1",
				"workspace_id": "ws_1",
				"workspace_name": "Acme",
				"owner": {"type": "user", "user": {"id": "user_1"}}
			}`))
		})
		client := newTestClient(t, mux)

		tokens, err := client.ExchangeCode(context.Background(), "the-code", "http://localhost/cb")
		require.NoError(t, err)
		assert.Equal(t, "secret_abc", tokens.AccessToken)
		assert.Equal(t, "bot_1", tokens.BotID)
		assert.Equal(t, "ws_1", tokens.WorkspaceID)
		assert.Equal(t, "Acme", tokens.WorkspaceName)
		assert.JSONEq(t, `{"type": "user", "user": {"id": "user_1"}}`, string(tokens.Owner))
	})

	t.Run("http 400 is a provider error carrying the body", func(t *testing.T) {
		body := `{"error":"invalid_grant","error_description":"Invalid code."}`
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, r *http.Request) {
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

func TestNotionClient_QueryDatabase(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/databases/db_1/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret_abc", r.Header.Get("Authorization"))
		assert.Equal(t, notionVersion, r.Header.Get("Notion-Version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cursor_1", body["start_cursor"])
		assert.Equal(t, float64(20), body["page_size"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"results": [{
				"object": "page",
				"id": "page_1",
				"url": "https://www.notion.so/Finish-report-page1",
				"archived": false,
				"parent": {"type": "database_id", "database_id": "db_1"},
				"properties": {
					"Name": {"id": "title", "type": "title", "title": [{"plain_text": "Finish "}, {"plain_text": "report"}]},
					"Tags": {"id": "t", "type": "multi_select", "multi_select": []},
					"Due": {"id": "d", "type": "date", "date": {"start": "2025-03-01", "end": null}},
					"Status": {"id": "s", "type": "status", "status": {"name": "In progress"}},
					"Done": {"id": "c", "type": "checkbox", "checkbox": true}
				}
			}],
			"next_cursor": "cursor_2",
			"has_more": true
		}`))
	})
	client := newTestClient(t, mux)

	list, err := client.QueryDatabase(context.Background(), "secret_abc", "db_1", clients.NotionQuery{
		NotionPagination: clients.NotionPagination{StartCursor: "cursor_1", PageSize: 20},
	})
	require.NoError(t, err)
	assert.True(t, list.HasMore)
	assert.Equal(t, "cursor_2", list.NextCursor)
	require.Len(t, list.Pages, 1)

	page := list.Pages[0]
	assert.Equal(t, "page_1", page.ID)
	assert.Equal(t, "db_1", page.DatabaseID)
	require.Len(t, page.Properties, 4)

	names := []string{}
	for _, property := range page.Properties {
		names = append(names, property.Name)
	}
	assert.Equal(t, []string{"Name", "Due", "Status", "Done"}, names)

	title, ok := page.FirstPropertyOfType("title")
	require.True(t, ok)
	assert.Equal(t, "Finish report", title.Text)

	due, ok := page.Property("Due")
	require.True(t, ok)
	require.NotNil(t, due.Date)
	assert.Equal(t, "2025-03-01", due.Date.Start)
	assert.Empty(t, due.Date.End)

	status, ok := page.Property("Status")
	require.True(t, ok)
	assert.Equal(t, "In progress", status.Option)

	done, ok := page.Property("Done")
	require.True(t, ok)
	assert.True(t, done.Checkbox)
}

func TestNotionClient_SearchDatabases(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"property": "object", "value": "database"}, body["filter"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{
				"object": "database",
				"id": "db_1",
				"url": "https://www.notion.so/db1",
				"title": [{"plain_text": "Tasks"}],
				"properties": {
					"Task": {"id": "title", "name": "Task", "type": "title", "title": {}},
					"When": {"id": "w", "name": "When", "type": "date", "date": {}},
					"Stage": {"id": "s", "name": "Stage", "type": "status", "status": {"options": []}}
				}
			}],
			"next_cursor": null,
			"has_more": false
		}`))
	})
	client := newTestClient(t, mux)

	list, err := client.SearchDatabases(context.Background(), "secret_abc", clients.NotionPagination{})
	require.NoError(t, err)
	assert.False(t, list.HasMore)
	assert.Empty(t, list.NextCursor)
	require.Len(t, list.Databases, 1)

	database := list.Databases[0]
	assert.Equal(t, "Tasks", database.Title)
	assert.Equal(t, []string{"Task", "When", "Stage"}, database.PropertyNames)

	dateProperty, ok := database.FirstPropertyOfType("date")
	require.True(t, ok)
	assert.Equal(t, "When", dateProperty)
}

func TestNotionClient_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/pages/unauthorized", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"object":"error","status":401,"code":"unauthorized","message":"API token is invalid."}`))
	})
	mux.HandleFunc("/v1/pages/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object":"error","status":404,"code":"object_not_found","message":"Could not find page."}`))
	})
	mux.HandleFunc("/v1/pages/conflict", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"object":"error","status":409,"code":"conflict_error","message":"Conflict."}`))
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	_, err := client.GetPage(ctx, "secret_abc", "unauthorized")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = client.GetPage(ctx, "secret_abc", "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = client.UpdatePageProperties(ctx, "secret_abc", "conflict", map[string]any{"Done": map[string]any{"checkbox": true}})
	providerErr, ok := core.IsProviderError(err)
	require.True(t, ok, "expected provider error, got %v", err)
	assert.Equal(t, http.StatusConflict, providerErr.StatusCode)
	assert.Equal(t, "conflict_error", providerErr.Code)
}

func TestNotionClient_UpdatePageProperties(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/pages/page_1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{
			"properties": map[string]any{"Status": map[string]any{"status": map[string]any{"name": "Done"}}},
		}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"page","id":"page_1"}`))
	})
	client := newTestClient(t, mux)

	err := client.UpdatePageProperties(context.Background(), "secret_abc", "page_1", map[string]any{
		"Status": map[string]any{"status": map[string]any{"name": "Done"}},
	})
	require.NoError(t, err)
}
