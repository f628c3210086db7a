package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"planbackend/clients"
	"planbackend/core"
	"planbackend/middleware"
	"planbackend/models"
	"planbackend/models/api"
	"planbackend/services"
	googleintegrations "planbackend/services/google_integrations"
	"planbackend/usecases/imports"
)

type IntegrationsHTTPHandler struct {
	integrationsService services.IntegrationsService
	googleService       services.GoogleIntegrationsService
	notionService       services.NotionIntegrationsService
	slackService        services.SlackIntegrationsService
	importsUseCase      imports.ImportsUseCaseInterface
	frontendOrigin      string
}

func NewIntegrationsHTTPHandler(
	integrationsService services.IntegrationsService,
	googleService services.GoogleIntegrationsService,
	notionService services.NotionIntegrationsService,
	slackService services.SlackIntegrationsService,
	importsUseCase imports.ImportsUseCaseInterface,
	frontendOrigin string,
) *IntegrationsHTTPHandler {
	return &IntegrationsHTTPHandler{
		integrationsService: integrationsService,
		googleService:       googleService,
		notionService:       notionService,
		slackService:        slackService,
		importsUseCase:      importsUseCase,
		frontendOrigin:      frontendOrigin,
	}
}

func (h *IntegrationsHTTPHandler) HandleListIntegrations(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List integrations request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	integrations, err := h.integrationsService.ListIntegrations(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to list integrations: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"integrations": api.DomainIntegrationsToAPIIntegrations(integrations),
	})
}

func (h *IntegrationsHTTPHandler) HandleCreateIntegration(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Create integration request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateIntegrationRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	service, ok := models.ParseService(req.Service)
	if !ok {
		writeErrorResponse(w, core.InvalidInputf("unknown service %q", req.Service))
		return
	}

	var config models.IntegrationConfig
	if len(req.Config) > 0 && string(req.Config) != "null" {
		if err := json.Unmarshal(req.Config, &config); err != nil {
			writeErrorResponse(w, core.InvalidInputf("config must be an object"))
			return
		}
	}
	scopes := req.Scopes
	if scopes == nil {
		scopes = []string{}
	}

	integration, err := h.integrationsService.CreateIntegration(r.Context(), userID, service, config, scopes)
	if err != nil {
		log.Printf("❌ Failed to create integration: %v", err)
		writeErrorResponse(w, err)
		return
	}

	log.Printf("✅ Integration created successfully: %s", integration.ID)
	writeJSONResponse(w, http.StatusCreated, map[string]any{
		"integration": api.DomainIntegrationToAPIIntegration(integration),
	})
}

func (h *IntegrationsHTTPHandler) HandleDeleteIntegration(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Delete integration request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	integrationID := r.URL.Query().Get("id")
	if integrationID == "" {
		writeErrorResponse(w, core.InvalidInputf("missing id"))
		return
	}

	if err := h.integrationsService.DeleteIntegration(r.Context(), integrationID, userID); err != nil {
		log.Printf("❌ Failed to delete integration %s: %v", integrationID, err)
		writeErrorResponse(w, err)
		return
	}

	log.Printf("✅ Integration deleted successfully: %s", integrationID)
	w.WriteHeader(http.StatusNoContent)
}

// beginConnect returns the provider authorize URL for the caller
func (h *IntegrationsHTTPHandler) beginConnect(connector services.ProviderConnector, provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🔐 Begin %s connect request received from %s", provider, r.RemoteAddr)
		userID, ok := requireUserID(w, r)
		if !ok {
			return
		}

		url, err := connector.GetAuthURL(r.Context(), userID)
		if err != nil {
			log.Printf("❌ Failed to begin %s connect: %v", provider, err)
			writeErrorResponse(w, err)
			return
		}

		writeJSONResponse(w, http.StatusOK, map[string]string{"url": url})
	}
}

// completeConnect is the provider redirect target. It always answers with HTML.
func (h *IntegrationsHTTPHandler) completeConnect(
	connector services.ProviderConnector,
	provider, providerTitle string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🔐 %s OAuth callback received", providerTitle)
		query := r.URL.Query()

		if providerErr := query.Get("error"); providerErr != "" {
			log.Printf("⚠️ %s authorization was not granted: %s", providerTitle, providerErr)
			writeCallbackError(w, core.InvalidInputf("%s authorization was not granted: %s", providerTitle, providerErr))
			return
		}

		code := query.Get("code")
		state := query.Get("state")
		if code == "" || state == "" {
			writeCallbackError(w, core.InvalidInputf("missing code or state"))
			return
		}

		integration, err := connector.CompleteOAuth(r.Context(), code, state)
		if err != nil {
			log.Printf("❌ %s OAuth callback failed: %v", providerTitle, err)
			writeCallbackError(w, err)
			return
		}

		log.Printf("✅ %s integration connected: %s", providerTitle, integration.ID)
		writeCallbackSuccess(w, provider, providerTitle, h.frontendOrigin)
	}
}

func (h *IntegrationsHTTPHandler) HandleGoogleAutoConnect(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 Google client-side connect request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GoogleAutoConnectRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	integration, err := h.googleService.ConnectWithTokens(r.Context(), userID, models.GoogleTokens{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    req.TokenType,
		Scope:        req.Scope,
		Expiry:       api.ParseExpiresIn(req.ExpiresIn, time.Now()),
	})
	if err != nil {
		log.Printf("❌ Failed to connect Google with client-side credential: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"integration": api.DomainIntegrationToAPIIntegration(integration),
	})
}

func (h *IntegrationsHTTPHandler) HandleListGoogleEvents(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List Google events request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	timeMin, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeErrorResponse(w, core.InvalidInputf("start must be an RFC 3339 timestamp"))
		return
	}
	timeMax, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeErrorResponse(w, core.InvalidInputf("end must be an RFC 3339 timestamp"))
		return
	}

	events, err := h.googleService.ListEvents(r.Context(), userID, timeMin, timeMax)
	if err != nil {
		log.Printf("❌ Failed to list Google events: %v", err)
		writeErrorResponse(w, err)
		return
	}

	projections := make([]*api.TaskModel, 0, len(events))
	for _, event := range events {
		task := googleintegrations.MapEventToTask(event)
		projections = append(projections, api.DomainTaskToAPITask(&task))
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"events": projections})
}

func (h *IntegrationsHTTPHandler) HandleImportGoogleEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Google import request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GoogleImportRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	task, err := h.importsUseCase.ImportGoogleEvent(r.Context(), userID, req.EventID, req.PlannedDate)
	if err != nil {
		log.Printf("❌ Failed to import Google event %s: %v", req.EventID, err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"task": api.DomainTaskToAPITask(task)})
}

func (h *IntegrationsHTTPHandler) HandleUpdateNotionConfig(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔄 Update Notion config request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req NotionConfigRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	integration, err := h.notionService.UpdateConfig(r.Context(), userID, models.NotionConfigUpdate{
		DatabaseID:    req.DatabaseID,
		FieldMappings: api.APIFieldMappingsToDomainFieldMappings(req.FieldMappings),
	})
	if err != nil {
		log.Printf("❌ Failed to update Notion config: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"integration": api.DomainIntegrationToAPIIntegration(integration),
	})
}

func (h *IntegrationsHTTPHandler) HandleListNotionDatabases(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List Notion databases request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	page, err := paginationFromQuery(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	databases, err := h.notionService.ListDatabases(r.Context(), userID, page)
	if err != nil {
		log.Printf("❌ Failed to list Notion databases: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, api.DomainNotionDatabasesToAPIList(databases))
}

func (h *IntegrationsHTTPHandler) HandleListNotionDatabasePages(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List Notion database pages request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	databaseID := mux.Vars(r)["id"]
	page, err := paginationFromQuery(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	pages, err := h.notionService.ListDatabasePages(r.Context(), userID, databaseID, page)
	if err != nil {
		log.Printf("❌ Failed to list Notion database pages: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, api.DomainNotionPagesToAPIList(pages))
}

func (h *IntegrationsHTTPHandler) HandleImportNotionPage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Notion import request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req NotionImportRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	task, err := h.importsUseCase.ImportNotionPage(r.Context(), userID, req.PageID, req.PlannedDate)
	if err != nil {
		log.Printf("❌ Failed to import Notion page %s: %v", req.PageID, err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"task": api.DomainTaskToAPITask(task)})
}

func (h *IntegrationsHTTPHandler) HandleListNotionTasks(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List Notion tasks request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	for name, value := range map[string]string{"from": from, "to": to} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			writeErrorResponse(w, core.InvalidInputf("%s must be YYYY-MM-DD", name))
			return
		}
	}

	tasks, err := h.notionService.ListTasks(r.Context(), userID, from, to)
	if err != nil {
		log.Printf("❌ Failed to list Notion tasks: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"tasks": api.DomainTasksToAPITasks(tasks)})
}

func (h *IntegrationsHTTPHandler) HandleListSlackMessages(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List Slack messages request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	candidates, err := h.slackService.ListTaskCandidates(r.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to list Slack messages: %v", err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"messages": api.DomainSlackCandidatesToAPISlackCandidates(candidates),
	})
}

func (h *IntegrationsHTTPHandler) HandleImportSlackMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Slack import request received from %s", r.RemoteAddr)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SlackImportRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	task, err := h.importsUseCase.ImportSlackMessage(r.Context(), userID, req.Channel, req.TS, req.PlannedDate)
	if err != nil {
		log.Printf("❌ Failed to import Slack message %s/%s: %v", req.Channel, req.TS, err)
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, map[string]any{"task": api.DomainTaskToAPITask(task)})
}

// paginationFromQuery reads the start and page_size cursor params
func paginationFromQuery(r *http.Request) (clients.NotionPagination, error) {
	page := clients.NotionPagination{StartCursor: r.URL.Query().Get("start")}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return page, core.InvalidInputf("page_size must be a number")
		}
		page.PageSize = size
	}
	return page, nil
}

func (h *IntegrationsHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.ClerkAuthMiddleware) {
	log.Printf("🚀 Registering integrations API endpoints")

	router.HandleFunc("/integrations", authMiddleware.WithAuth(h.HandleListIntegrations)).Methods("GET")
	router.HandleFunc("/integrations", authMiddleware.WithAuth(h.HandleCreateIntegration)).Methods("POST")
	router.HandleFunc("/integrations", authMiddleware.WithAuth(h.HandleDeleteIntegration)).Methods("DELETE")
	log.Printf("✅ GET/POST/DELETE /integrations endpoints registered")

	// Google
	router.HandleFunc("/integrations/google", authMiddleware.WithAuth(h.beginConnect(h.googleService, "google"))).
		Methods("GET")
	router.HandleFunc("/integrations/google/callback", h.completeConnect(h.googleService, "google", "Google Calendar")).
		Methods("GET")
	router.HandleFunc("/integrations/google/auto", authMiddleware.WithAuth(h.HandleGoogleAutoConnect)).Methods("POST")
	router.HandleFunc("/integrations/google/events", authMiddleware.WithAuth(h.HandleListGoogleEvents)).Methods("GET")
	router.HandleFunc("/integrations/google/import", authMiddleware.WithAuth(h.HandleImportGoogleEvent)).Methods("POST")
	log.Printf("✅ Google integration endpoints registered")

	// Notion
	router.HandleFunc("/integrations/notion", authMiddleware.WithAuth(h.beginConnect(h.notionService, "notion"))).
		Methods("GET")
	router.HandleFunc("/integrations/notion/callback", h.completeConnect(h.notionService, "notion", "Notion")).
		Methods("GET")
	router.HandleFunc("/integrations/notion/config", authMiddleware.WithAuth(h.HandleUpdateNotionConfig)).Methods("PATCH")
	router.HandleFunc("/integrations/notion/databases", authMiddleware.WithAuth(h.HandleListNotionDatabases)).
		Methods("GET")
	router.HandleFunc("/integrations/notion/databases/{id}/pages", authMiddleware.WithAuth(h.HandleListNotionDatabasePages)).
		Methods("GET")
	router.HandleFunc("/integrations/notion/import", authMiddleware.WithAuth(h.HandleImportNotionPage)).Methods("POST")
	router.HandleFunc("/integrations/notion/tasks", authMiddleware.WithAuth(h.HandleListNotionTasks)).Methods("GET")
	log.Printf("✅ Notion integration endpoints registered")

	// Slack
	router.HandleFunc("/integrations/slack", authMiddleware.WithAuth(h.beginConnect(h.slackService, "slack"))).
		Methods("GET")
	router.HandleFunc("/integrations/slack/callback", h.completeConnect(h.slackService, "slack", "Slack")).
		Methods("GET")
	router.HandleFunc("/integrations/slack/messages", authMiddleware.WithAuth(h.HandleListSlackMessages)).Methods("GET")
	router.HandleFunc("/integrations/slack/import", authMiddleware.WithAuth(h.HandleImportSlackMessage)).Methods("POST")
	log.Printf("✅ Slack integration endpoints registered")

	log.Printf("✅ All integrations API endpoints registered successfully")
}
