package models

import "time"

// SlackTaskCandidate is a starred Slack message shown to the user as a possible task
type SlackTaskCandidate struct {
	Title       string
	Notes       string
	ExternalURL string
	CreatedAt   time.Time
	Channel     string
	TS          string
}
