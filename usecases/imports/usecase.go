package imports

import (
	"context"
	"fmt"
	"log"
	"time"

	"planbackend/core"
	"planbackend/models"
	"planbackend/salesnotif"
	"planbackend/services"
	googleintegrations "planbackend/services/google_integrations"
	notionintegrations "planbackend/services/notion_integrations"
	slackintegrations "planbackend/services/slack_integrations"
)

// ImportsUseCase reads one native item, maps it and persists the task.
// Nothing is stored when the remote read or the mapping fails.
type ImportsUseCase struct {
	notionService services.NotionIntegrationsService
	slackService  services.SlackIntegrationsService
	googleService services.GoogleIntegrationsService
	tasksService  services.TasksService
}

func NewImportsUseCase(
	notionService services.NotionIntegrationsService,
	slackService services.SlackIntegrationsService,
	googleService services.GoogleIntegrationsService,
	tasksService services.TasksService,
) *ImportsUseCase {
	return &ImportsUseCase{
		notionService: notionService,
		slackService:  slackService,
		googleService: googleService,
		tasksService:  tasksService,
	}
}

func (u *ImportsUseCase) ImportNotionPage(ctx context.Context, userID, pageID, plannedDate string) (*models.Task, error) {
	log.Printf("📋 Starting to import Notion page %s for user: %s", pageID, userID)
	if pageID == "" {
		return nil, core.InvalidInputf("missing pageId")
	}
	if err := validatePlannedDate(plannedDate); err != nil {
		return nil, err
	}

	page, mappings, err := u.notionService.GetPage(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}

	task := notionintegrations.MapPageToTask(*page, mappings, plannedDate)
	created, err := u.persist(ctx, userID, &task)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - imported Notion page %s as task %s", pageID, created.ID)
	return created, nil
}

func (u *ImportsUseCase) ImportSlackMessage(
	ctx context.Context,
	userID, channel, ts, plannedDate string,
) (*models.Task, error) {
	log.Printf("📋 Starting to import Slack message %s/%s for user: %s", channel, ts, userID)
	if err := validatePlannedDate(plannedDate); err != nil {
		return nil, err
	}

	message, err := u.slackService.GetStarredMessage(ctx, userID, channel, ts)
	if err != nil {
		return nil, err
	}

	candidate := slackintegrations.MapStarredMessage(*message)
	service := models.ServiceSlack
	task := models.Task{
		Title:               candidate.Title,
		Notes:               candidate.Notes,
		OriginalIntegration: &service,
		External: &models.ExternalRef{
			Service:   models.ServiceSlack,
			ChannelID: candidate.Channel,
			MessageTS: candidate.TS,
			URL:       candidate.ExternalURL,
		},
	}
	if plannedDate != "" {
		task.PlannedDate = &plannedDate
	}

	created, err := u.persist(ctx, userID, &task)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - imported Slack message %s/%s as task %s", channel, ts, created.ID)
	return created, nil
}

func (u *ImportsUseCase) ImportGoogleEvent(ctx context.Context, userID, eventID, plannedDate string) (*models.Task, error) {
	log.Printf("📋 Starting to import Google Calendar event %s for user: %s", eventID, userID)
	if err := validatePlannedDate(plannedDate); err != nil {
		return nil, err
	}

	event, err := u.googleService.GetEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	task := googleintegrations.MapEventToTask(*event)
	if task.PlannedDate == nil && plannedDate != "" {
		task.PlannedDate = &plannedDate
	}

	created, err := u.persist(ctx, userID, &task)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - imported Google Calendar event %s as task %s", eventID, created.ID)
	return created, nil
}

func (u *ImportsUseCase) persist(ctx context.Context, userID string, task *models.Task) (*models.Task, error) {
	task.UserID = userID
	task.Status = models.TaskStatusPlanned

	created, err := u.tasksService.CreateTask(ctx, task)
	if err != nil {
		log.Printf("❌ Failed to store imported task for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to store imported task: %w", err)
	}

	if task.External != nil {
		salesnotif.New(userID, fmt.Sprintf("Imported %s item as task `%s`", task.External.Service, created.ID))
	}
	return created, nil
}

func validatePlannedDate(plannedDate string) error {
	if plannedDate == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, plannedDate); err != nil {
		return core.InvalidInputf("plannedDate must be YYYY-MM-DD")
	}
	return nil
}
