package googleintegrations

import "planbackend/models"

const untitledEvent = "(No title)"

// MapEventToTask projects a calendar event onto the task shape. The result is not persisted.
func MapEventToTask(event models.GoogleEvent) models.Task {
	title := event.Summary
	if title == "" {
		title = untitledEvent
	}

	service := models.ServiceGoogle
	task := models.Task{
		Title:               title,
		Notes:               event.Description,
		IsTimeboxed:         true,
		OriginalIntegration: &service,
		External: &models.ExternalRef{
			Service: models.ServiceGoogle,
			EventID: event.ID,
			URL:     event.HTMLLink,
		},
	}

	switch {
	case event.StartDate != "":
		plannedDate := event.StartDate
		task.PlannedDate = &plannedDate
	case len(event.StartDateTime) >= len("2006-01-02"):
		plannedDate := event.StartDateTime[:len("2006-01-02")]
		task.PlannedDate = &plannedDate
	}

	if event.StartDateTime != "" {
		startTime := event.StartDateTime
		task.StartTime = &startTime
	}
	if event.EndDateTime != "" {
		endTime := event.EndDateTime
		task.EndTime = &endTime
	}

	return task
}
