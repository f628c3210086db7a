package notionintegrations

import (
	"strings"

	"planbackend/models"
)

const (
	untitledPage        = "Untitled"
	defaultStatusType   = "status"
	checkboxStatusType  = "checkbox"
	defaultDoneValue    = "Done"
	defaultPlannedValue = "Planned"
)

// MapPageToTask projects a Notion page onto the task shape. The result is not persisted.
// fallbackPlannedDate applies only when the page has no date.
func MapPageToTask(page models.NotionPage, mappings *models.NotionFieldMappings, fallbackPlannedDate string) models.Task {
	service := models.ServiceNotion
	task := models.Task{
		Title:               pageTitle(&page, mappings),
		Notes:               page.URL,
		OriginalIntegration: &service,
		External: &models.ExternalRef{
			Service:    models.ServiceNotion,
			PageID:     page.ID,
			DatabaseID: page.DatabaseID,
			URL:        page.URL,
		},
	}

	if date, ok := pageDate(&page, mappings); ok {
		if strings.Contains(date.Start, "T") {
			plannedDate := date.Start[:min(len(date.Start), len("2006-01-02"))]
			startTime := date.Start
			task.PlannedDate = &plannedDate
			task.StartTime = &startTime
		} else {
			plannedDate := date.Start
			task.PlannedDate = &plannedDate
		}
	}

	if task.PlannedDate == nil && fallbackPlannedDate != "" {
		task.PlannedDate = &fallbackPlannedDate
	}

	return task
}

func pageTitle(page *models.NotionPage, mappings *models.NotionFieldMappings) string {
	if mappings != nil && mappings.Title != "" {
		if property, ok := page.Property(mappings.Title); ok && strings.TrimSpace(property.Text) != "" {
			return strings.TrimSpace(property.Text)
		}
	}
	if property, ok := page.FirstPropertyOfType("title"); ok && strings.TrimSpace(property.Text) != "" {
		return strings.TrimSpace(property.Text)
	}
	return untitledPage
}

func pageDate(page *models.NotionPage, mappings *models.NotionFieldMappings) (*models.NotionDate, bool) {
	var property models.NotionProperty
	var ok bool
	if mappings != nil && mappings.Date != "" {
		property, ok = page.Property(mappings.Date)
	} else {
		property, ok = page.FirstPropertyOfType("date")
	}
	if !ok || property.Date == nil || property.Date.Start == "" {
		return nil, false
	}
	return property.Date, true
}

// StatusProperties builds the page property patch that records status.
// ok is false when there is nothing to write.
func StatusProperties(mappings *models.NotionFieldMappings, status models.TaskStatus) (map[string]any, bool) {
	if mappings == nil || mappings.Status == "" {
		return nil, false
	}

	statusType := mappings.StatusType
	if statusType == "" {
		statusType = defaultStatusType
	}

	if statusType == checkboxStatusType {
		return map[string]any{
			mappings.Status: map[string]any{"checkbox": status == models.TaskStatusDone},
		}, true
	}

	value, ok := mappings.StatusValues[string(status)]
	if !ok {
		switch status {
		case models.TaskStatusDone:
			value = defaultDoneValue
		case models.TaskStatusPlanned:
			value = defaultPlannedValue
		}
	}
	if value == "" {
		return nil, false
	}

	return map[string]any{
		mappings.Status: map[string]any{statusType: map[string]any{"name": value}},
	}, true
}
