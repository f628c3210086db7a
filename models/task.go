package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusInbox             TaskStatus = "inbox"
	TaskStatusBacklog           TaskStatus = "backlog"
	TaskStatusDraft             TaskStatus = "draft"
	TaskStatusPlanned           TaskStatus = "planned"
	TaskStatusDone              TaskStatus = "done"
	TaskStatusPendingAcceptance TaskStatus = "pending_acceptance"
	TaskStatusAwaitingApproval  TaskStatus = "awaiting_approval"
	TaskStatusRejected          TaskStatus = "rejected"
	TaskStatusBlocked           TaskStatus = "blocked"
)

// ParseTaskStatus validates a status coming from a request
func ParseTaskStatus(value string) (TaskStatus, bool) {
	switch status := TaskStatus(value); status {
	case TaskStatusInbox, TaskStatusBacklog, TaskStatusDraft, TaskStatusPlanned, TaskStatusDone,
		TaskStatusPendingAcceptance, TaskStatusAwaitingApproval, TaskStatusRejected, TaskStatusBlocked:
		return status, true
	}
	return "", false
}

// Task is the unified task record every integration maps into.
// PlannedDate is YYYY-MM-DD; StartTime/EndTime keep the provider's ISO 8601 text verbatim.
type Task struct {
	ID                  string       `db:"id"`
	UserID              string       `db:"user_id"`
	Title               string       `db:"title"`
	Notes               string       `db:"notes"`
	PlannedDate         *string      `db:"planned_date"`
	StartTime           *string      `db:"start_time"`
	EndTime             *string      `db:"end_time"`
	IsTimeboxed         bool         `db:"is_timeboxed"`
	Status              TaskStatus   `db:"status"`
	OriginalIntegration *Service     `db:"original_integration"`
	External            *ExternalRef `db:"external"`
	CreatedAt           time.Time    `db:"created_at"`
	UpdatedAt           time.Time    `db:"updated_at"`
}

// ExternalRef points back at the provider item a task came from. It never grants write access by itself.
type ExternalRef struct {
	Service    Service `json:"service"`
	PageID     string  `json:"pageId,omitempty"`
	DatabaseID string  `json:"databaseId,omitempty"`
	EventID    string  `json:"eventId,omitempty"`
	ChannelID  string  `json:"channelId,omitempty"`
	MessageTS  string  `json:"messageTs,omitempty"`
	URL        string  `json:"url,omitempty"`
}

func (e ExternalRef) Value() (driver.Value, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal external reference: %w", err)
	}
	return string(data), nil
}

func (e *ExternalRef) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported external reference type %T", src)
	}
}
