package notionintegrations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"planbackend/clients"
	"planbackend/core"
	"planbackend/models"
	"planbackend/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// ListTasks stops after this many query pages
	maxTaskQueryPages = 10
)

type NotionIntegrationsService struct {
	integrationsService services.IntegrationsService
	oauthStatesService  services.OAuthStatesService
	notionClient        clients.NotionClient
	cipher              services.TokenCipher
	redirectURL         string
}

func NewNotionIntegrationsService(
	integrationsService services.IntegrationsService,
	oauthStatesService services.OAuthStatesService,
	notionClient clients.NotionClient,
	cipher services.TokenCipher,
	redirectURL string,
) *NotionIntegrationsService {
	return &NotionIntegrationsService{
		integrationsService: integrationsService,
		oauthStatesService:  oauthStatesService,
		notionClient:        notionClient,
		cipher:              cipher,
		redirectURL:         redirectURL,
	}
}

func (s *NotionIntegrationsService) GetAuthURL(ctx context.Context, userID string) (string, error) {
	state, err := s.oauthStatesService.BeginFlow(ctx, userID, models.ServiceNotion)
	if err != nil {
		return "", fmt.Errorf("failed to begin notion oauth flow: %w", err)
	}
	return s.notionClient.AuthCodeURL(state, s.redirectURL), nil
}

func (s *NotionIntegrationsService) CompleteOAuth(ctx context.Context, code, state string) (*models.Integration, error) {
	log.Printf("📋 Starting to complete Notion OAuth callback")
	if code == "" {
		return nil, core.InvalidInputf("missing code")
	}

	userID, err := s.oauthStatesService.Redeem(ctx, state, models.ServiceNotion)
	if err != nil {
		return nil, err
	}

	tokens, err := s.notionClient.ExchangeCode(ctx, code, s.redirectURL)
	if err != nil {
		log.Printf("❌ Notion token exchange failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to exchange notion authorization code: %w", err)
	}

	sealed, err := s.sealTokens(*tokens)
	if err != nil {
		return nil, err
	}

	config := models.IntegrationConfig{
		WorkspaceID:   tokens.WorkspaceID,
		WorkspaceName: tokens.WorkspaceName,
		BotID:         tokens.BotID,
	}
	if err := config.SetSealedTokens(sealed); err != nil {
		return nil, err
	}

	integration, created, err := s.integrationsService.UpsertFirstIntegration(ctx, &models.Integration{
		UserID:  userID,
		Service: models.ServiceNotion,
		Config:  config,
		Scopes:  []string{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store notion integration: %w", err)
	}
	if !created {
		// Database choice and field mappings survive a reconnect
		integration, err = s.integrationsService.UpdateIntegrationConnection(ctx, integration.ID, map[string]any{
			"tokens":        sealed,
			"workspaceId":   tokens.WorkspaceID,
			"workspaceName": tokens.WorkspaceName,
			"botId":         tokens.BotID,
		}, []string{})
		if err != nil {
			return nil, err
		}
	}

	log.Printf("📋 Completed successfully - connected Notion workspace %s for user: %s", tokens.WorkspaceID, userID)
	return integration, nil
}

func (s *NotionIntegrationsService) UpdateConfig(
	ctx context.Context,
	userID string,
	update models.NotionConfigUpdate,
) (*models.Integration, error) {
	log.Printf("📋 Starting to update Notion config for user: %s", userID)
	patch := map[string]any{}
	if update.DatabaseID != nil {
		patch["databaseId"] = *update.DatabaseID
	}
	if update.FieldMappings != nil {
		if err := core.ValidateStruct(update.FieldMappings); err != nil {
			return nil, err
		}
		patch["fieldMappings"] = update.FieldMappings
	}
	if len(patch) == 0 {
		return nil, core.InvalidInputf("nothing to update")
	}

	integration, err := s.integrationsService.PatchIntegrationConfig(ctx, userID, models.ServiceNotion, patch)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - updated Notion config for user: %s", userID)
	return integration, nil
}

func (s *NotionIntegrationsService) ListDatabases(
	ctx context.Context,
	userID string,
	page clients.NotionPagination,
) (*models.NotionDatabaseList, error) {
	_, accessToken, err := s.connection(ctx, userID)
	if err != nil {
		return nil, err
	}

	databases, err := s.notionClient.SearchDatabases(ctx, accessToken, clampPage(page))
	if err != nil {
		return nil, fmt.Errorf("failed to search notion databases: %w", err)
	}
	return databases, nil
}

func (s *NotionIntegrationsService) ListDatabasePages(
	ctx context.Context,
	userID, databaseID string,
	page clients.NotionPagination,
) (*models.NotionPageList, error) {
	if databaseID == "" {
		return nil, core.InvalidInputf("missing databaseId")
	}

	_, accessToken, err := s.connection(ctx, userID)
	if err != nil {
		return nil, err
	}

	pages, err := s.notionClient.QueryDatabase(ctx, accessToken, databaseID, clients.NotionQuery{
		NotionPagination: clampPage(page),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query notion database: %w", err)
	}
	return pages, nil
}

func (s *NotionIntegrationsService) ListTasks(ctx context.Context, userID, from, to string) ([]*models.Task, error) {
	log.Printf("📋 Starting to list Notion tasks for user %s between %s and %s", userID, from, to)
	integration, accessToken, err := s.connection(ctx, userID)
	if err != nil {
		return nil, err
	}

	databaseID := integration.Config.DatabaseID
	if databaseID == "" {
		return nil, core.InvalidInputf("no Notion database selected")
	}

	dateProperty, err := s.dateProperty(ctx, accessToken, databaseID, integration.Config.FieldMappings)
	if err != nil {
		return nil, err
	}

	query := clients.NotionQuery{
		NotionPagination: clients.NotionPagination{PageSize: maxPageSize},
		Filter:           dateRangeFilter(dateProperty, from, to),
		Sorts:            []map[string]any{{"property": dateProperty, "direction": "ascending"}},
	}

	var tasks []*models.Task
	for page := 1; ; page++ {
		result, err := s.notionClient.QueryDatabase(ctx, accessToken, databaseID, query)
		if err != nil {
			return nil, fmt.Errorf("failed to query notion database: %w", err)
		}

		for i := range result.Pages {
			if result.Pages[i].Archived {
				continue
			}
			task := MapPageToTask(result.Pages[i], integration.Config.FieldMappings, "")
			task.UserID = userID
			tasks = append(tasks, &task)
		}

		if !result.HasMore || result.NextCursor == "" {
			break
		}
		if page == maxTaskQueryPages {
			log.Printf("⚠️ Stopped querying Notion database %s after %d pages, more results remain", databaseID, page)
			break
		}
		query.StartCursor = result.NextCursor
	}

	log.Printf("📋 Completed successfully - found %d Notion tasks for user: %s", len(tasks), userID)
	return tasks, nil
}

func (s *NotionIntegrationsService) GetPage(
	ctx context.Context,
	userID, pageID string,
) (*models.NotionPage, *models.NotionFieldMappings, error) {
	if pageID == "" {
		return nil, nil, core.InvalidInputf("missing pageId")
	}

	integration, accessToken, err := s.connection(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	page, err := s.notionClient.GetPage(ctx, accessToken, pageID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get notion page: %w", err)
	}
	return page, integration.Config.FieldMappings, nil
}

// UpdateRemoteStatus writes a task status to the page's mapped status property.
// It does nothing when the user has not mapped a status property or the status has no Notion value.
func (s *NotionIntegrationsService) UpdateRemoteStatus(
	ctx context.Context,
	userID, pageID string,
	status models.TaskStatus,
) error {
	log.Printf("📋 Starting to write status %s to Notion page %s", status, pageID)
	integration, accessToken, err := s.connection(ctx, userID)
	if err != nil {
		return err
	}

	properties, ok := StatusProperties(integration.Config.FieldMappings, status)
	if !ok {
		log.Printf("📋 Completed successfully - no Notion status mapping for %s, nothing written", status)
		return nil
	}

	if err := s.notionClient.UpdatePageProperties(ctx, accessToken, pageID, properties); err != nil {
		return fmt.Errorf("failed to update notion page status: %w", err)
	}

	log.Printf("📋 Completed successfully - wrote status %s to Notion page %s", status, pageID)
	return nil
}

// connection loads the user's Notion integration and decrypts its access token
func (s *NotionIntegrationsService) connection(ctx context.Context, userID string) (*models.Integration, string, error) {
	integrationOpt, err := s.integrationsService.FindIntegration(ctx, userID, models.ServiceNotion)
	if err != nil {
		return nil, "", err
	}
	if integrationOpt.IsAbsent() {
		return nil, "", core.ErrIntegrationNotFound
	}
	integration := integrationOpt.MustGet()

	sealed, err := integration.Config.SealedTokens()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", core.ErrTokenInvalid, err)
	}
	plaintext, err := s.cipher.Decrypt(sealed)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", core.ErrTokenInvalid, err)
	}

	var tokens models.NotionTokens
	if err := json.Unmarshal([]byte(plaintext), &tokens); err != nil || tokens.AccessToken == "" {
		return nil, "", fmt.Errorf("%w: stored notion credential is unreadable", core.ErrTokenInvalid)
	}
	return integration, tokens.AccessToken, nil
}

func (s *NotionIntegrationsService) sealTokens(tokens models.NotionTokens) (string, error) {
	plaintext, err := json.Marshal(tokens)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notion tokens: %w", err)
	}
	sealed, err := s.cipher.Encrypt(string(plaintext))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt notion tokens: %w", err)
	}
	return sealed, nil
}

func (s *NotionIntegrationsService) dateProperty(
	ctx context.Context,
	accessToken, databaseID string,
	mappings *models.NotionFieldMappings,
) (string, error) {
	if mappings != nil && mappings.Date != "" {
		return mappings.Date, nil
	}

	database, err := s.notionClient.GetDatabase(ctx, accessToken, databaseID)
	if err != nil {
		return "", fmt.Errorf("failed to get notion database: %w", err)
	}
	name, ok := database.FirstPropertyOfType("date")
	if !ok {
		return "", core.InvalidInputf("notion database %s has no date property", databaseID)
	}
	return name, nil
}

func dateRangeFilter(property, from, to string) map[string]any {
	var conditions []map[string]any
	if from != "" {
		conditions = append(conditions, map[string]any{
			"property": property,
			"date":     map[string]any{"on_or_after": from},
		})
	}
	if to != "" {
		conditions = append(conditions, map[string]any{
			"property": property,
			"date":     map[string]any{"on_or_before": to},
		})
	}

	switch len(conditions) {
	case 0:
		return map[string]any{"property": property, "date": map[string]any{"is_not_empty": true}}
	case 1:
		return conditions[0]
	default:
		return map[string]any{"and": conditions}
	}
}

func clampPage(page clients.NotionPagination) clients.NotionPagination {
	switch {
	case page.PageSize <= 0:
		page.PageSize = defaultPageSize
	case page.PageSize > maxPageSize:
		page.PageSize = maxPageSize
	}
	return page
}
