package imports

import (
	"context"

	"planbackend/models"
)

// ImportsUseCaseInterface turns one provider item into a stored planned task
type ImportsUseCaseInterface interface {
	// ImportNotionPage maps the page with the user's saved field mappings.
	// plannedDate is used only when the page has no date of its own.
	ImportNotionPage(ctx context.Context, userID, pageID, plannedDate string) (*models.Task, error)

	ImportSlackMessage(ctx context.Context, userID, channel, ts, plannedDate string) (*models.Task, error)

	ImportGoogleEvent(ctx context.Context, userID, eventID, plannedDate string) (*models.Task, error)
}
