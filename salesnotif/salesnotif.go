package salesnotif

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/slack-go/slack"
)

var (
	instance *SalesNotifier
	once     sync.Once
)

// SalesNotifier posts product activity (connections, imports) to a Slack channel
type SalesNotifier struct {
	webhookURL  string
	environment string
	appName     string
	timeout     time.Duration
	wg          sync.WaitGroup
}

// Init initializes the global notifier. An empty webhook URL disables notifications.
func Init(webhookURL, environment string) {
	once.Do(func() {
		instance = &SalesNotifier{
			webhookURL:  webhookURL,
			environment: environment,
			appName:     "Planner",
			timeout:     10 * time.Second,
		}
	})
}

// New sends an activity notification for userID without blocking the caller
func New(userID, message string) {
	if instance == nil {
		log.Printf("⚠️ Sales notifier not initialized, skipping notification: %s", message)
		return
	}

	instance.send(userID, message)
}

// Flush waits for in-flight notifications, used by short-lived commands before exit
func Flush() {
	if instance == nil {
		return
	}
	instance.wg.Wait()
}

func (s *SalesNotifier) send(userID, message string) {
	if s.webhookURL == "" {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sendSlackNotification(userID, message)
	}()
}

func (s *SalesNotifier) buildMessage(userID, message string, now time.Time) *slack.WebhookMessage {
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", s.appName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", s.environment), false, false),
	}
	if userID != "" {
		fields = append(fields,
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*UserID:* `%s`", userID), false, false))
	}
	fields = append(fields, slack.NewTextBlockObject(
		slack.MarkdownType,
		fmt.Sprintf("*Timestamp:* %s", now.UTC().Format("2006-01-02 15:04:05 UTC")),
		false,
		false,
	))

	activity := slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("📊 *Activity:*\n%s", message), false, false)
	return &slack.WebhookMessage{
		Text: message,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(nil, fields, nil),
				slack.NewSectionBlock(activity, nil, nil),
			},
		},
	}
}

func (s *SalesNotifier) sendSlackNotification(userID, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := slack.PostWebhookContext(ctx, s.webhookURL, s.buildMessage(userID, message, time.Now())); err != nil {
		log.Printf("❌ Failed to send sales notification: %v", err)
		return
	}

	log.Printf("💰 Sales notification sent: %s", message)
}
