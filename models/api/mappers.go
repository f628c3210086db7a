package api

import (
	"time"

	"planbackend/models"
)

// DomainIntegrationToAPIIntegration converts an integration record, leaving out its tokens
func DomainIntegrationToAPIIntegration(domainIntegration *models.Integration) *IntegrationModel {
	if domainIntegration == nil {
		return nil
	}

	scopes := []string(domainIntegration.Scopes)
	if scopes == nil {
		scopes = []string{}
	}

	config := domainIntegration.Config
	return &IntegrationModel{
		ID:      domainIntegration.ID,
		Service: string(domainIntegration.Service),
		Config: IntegrationConfigModel{
			WorkspaceID:   config.WorkspaceID,
			WorkspaceName: config.WorkspaceName,
			DatabaseID:    config.DatabaseID,
			FieldMappings: DomainFieldMappingsToAPIFieldMappings(config.FieldMappings),
			TeamID:        config.TeamID,
			TeamName:      config.TeamName,
			Email:         config.Email,
		},
		Scopes:      scopes,
		ConnectedAt: domainIntegration.ConnectedAt,
		CreatedAt:   domainIntegration.CreatedAt,
		UpdatedAt:   domainIntegration.UpdatedAt,
	}
}

func DomainIntegrationsToAPIIntegrations(domainIntegrations []*models.Integration) []*IntegrationModel {
	result := make([]*IntegrationModel, 0, len(domainIntegrations))
	for _, integration := range domainIntegrations {
		result = append(result, DomainIntegrationToAPIIntegration(integration))
	}
	return result
}

func DomainFieldMappingsToAPIFieldMappings(mappings *models.NotionFieldMappings) *NotionFieldMappingsModel {
	if mappings == nil {
		return nil
	}
	return &NotionFieldMappingsModel{
		Title:        mappings.Title,
		Date:         mappings.Date,
		Status:       mappings.Status,
		StatusType:   mappings.StatusType,
		StatusValues: mappings.StatusValues,
	}
}

func APIFieldMappingsToDomainFieldMappings(mappings *NotionFieldMappingsModel) *models.NotionFieldMappings {
	if mappings == nil {
		return nil
	}
	return &models.NotionFieldMappings{
		Title:        mappings.Title,
		Date:         mappings.Date,
		Status:       mappings.Status,
		StatusType:   mappings.StatusType,
		StatusValues: mappings.StatusValues,
	}
}

// DomainTaskToAPITask converts stored tasks and unsaved projections alike
func DomainTaskToAPITask(task *models.Task) *TaskModel {
	if task == nil {
		return nil
	}

	result := &TaskModel{
		ID:          task.ID,
		Title:       task.Title,
		Notes:       task.Notes,
		PlannedDate: task.PlannedDate,
		StartTime:   task.StartTime,
		EndTime:     task.EndTime,
		IsTimeboxed: task.IsTimeboxed,
		Status:      string(task.Status),
	}
	if task.OriginalIntegration != nil {
		service := string(*task.OriginalIntegration)
		result.OriginalIntegration = &service
	}
	if task.External != nil {
		result.External = &ExternalRefModel{
			Service:    string(task.External.Service),
			PageID:     task.External.PageID,
			DatabaseID: task.External.DatabaseID,
			EventID:    task.External.EventID,
			ChannelID:  task.External.ChannelID,
			MessageTS:  task.External.MessageTS,
			URL:        task.External.URL,
		}
	}
	if !task.CreatedAt.IsZero() {
		createdAt := task.CreatedAt
		result.CreatedAt = &createdAt
	}
	if !task.UpdatedAt.IsZero() {
		updatedAt := task.UpdatedAt
		result.UpdatedAt = &updatedAt
	}
	return result
}

func DomainTasksToAPITasks(tasks []*models.Task) []*TaskModel {
	result := make([]*TaskModel, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, DomainTaskToAPITask(task))
	}
	return result
}

func DomainSlackCandidatesToAPISlackCandidates(candidates []models.SlackTaskCandidate) []SlackTaskCandidateModel {
	result := make([]SlackTaskCandidateModel, 0, len(candidates))
	for _, candidate := range candidates {
		createdAt := ""
		if !candidate.CreatedAt.IsZero() {
			createdAt = candidate.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")
		}
		result = append(result, SlackTaskCandidateModel{
			Title:       candidate.Title,
			Notes:       candidate.Notes,
			ExternalURL: candidate.ExternalURL,
			CreatedAt:   createdAt,
			Channel:     candidate.Channel,
			TS:          candidate.TS,
		})
	}
	return result
}

func DomainNotionDatabasesToAPIList(list *models.NotionDatabaseList) *NotionDatabaseListResponse {
	response := &NotionDatabaseListResponse{
		Databases:  make([]NotionDatabaseModel, 0, len(list.Databases)),
		NextCursor: cursor(list.NextCursor),
		HasMore:    list.HasMore,
	}
	for _, database := range list.Databases {
		fields := make([]NotionFieldModel, 0, len(database.PropertyNames))
		for _, name := range database.PropertyNames {
			fields = append(fields, NotionFieldModel{Name: name, Type: database.PropertyTypes[name]})
		}
		response.Databases = append(response.Databases, NotionDatabaseModel{
			ID:         database.ID,
			Title:      database.Title,
			URL:        database.URL,
			Properties: fields,
		})
	}
	return response
}

func DomainNotionPagesToAPIList(list *models.NotionPageList) *NotionPageListResponse {
	response := &NotionPageListResponse{
		Pages:      make([]NotionPageModel, 0, len(list.Pages)),
		NextCursor: cursor(list.NextCursor),
		HasMore:    list.HasMore,
	}
	for _, page := range list.Pages {
		response.Pages = append(response.Pages, DomainNotionPageToAPINotionPage(page))
	}
	return response
}

func DomainNotionPageToAPINotionPage(page models.NotionPage) NotionPageModel {
	properties := make([]NotionPropertyModel, 0, len(page.Properties))
	for _, property := range page.Properties {
		model := NotionPropertyModel{
			Name:   property.Name,
			Type:   property.Type,
			Text:   property.Text,
			Option: property.Option,
		}
		if property.Date != nil {
			model.Start = property.Date.Start
			model.End = property.Date.End
		}
		if property.Type == "checkbox" {
			checked := property.Checkbox
			model.Checkbox = &checked
		}
		properties = append(properties, model)
	}
	return NotionPageModel{
		ID:         page.ID,
		URL:        page.URL,
		Archived:   page.Archived,
		Properties: properties,
	}
}

func cursor(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// ParseExpiresIn turns an OAuth expires_in into an absolute expiry, zero when unknown
func ParseExpiresIn(expiresIn int64, now time.Time) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(expiresIn) * time.Second).UTC()
}
