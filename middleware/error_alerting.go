package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"planbackend/models/api"
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	alertTimeout  time.Duration
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
		alertTimeout:  10 * time.Second,
	}
}

// statusRecorder remembers the status code a handler wrote
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// HTTPMiddleware recovers panics into a 500 envelope and alerts on panics and 500 responses.
// Provider failures (502) and unconfigured providers (503) do not alert.
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestContext := fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				errorMsg := fmt.Sprintf("%s: PANIC - %v", requestContext, rec)
				log.Printf("❌ %s", errorMsg)
				m.alert(errorMsg, requestContext+" (PANIC)")
				if !recorder.wroteHeader {
					writeErrorResponse(recorder, "internal server error", api.ErrorCodeInternal, http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(recorder, r)

		if recorder.status == http.StatusInternalServerError {
			m.alert(fmt.Sprintf("%s: responded %d", requestContext, recorder.status), requestContext)
		}
	})
}

// WrapBackgroundTask alerts when a one-shot task fails or panics
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() (err error) {
		taskContext := fmt.Sprintf("Background task: %s", taskName)
		defer func() {
			if rec := recover(); rec != nil {
				errorMsg := fmt.Sprintf("%s: PANIC - %v", taskContext, rec)
				log.Printf("❌ %s", errorMsg)
				m.alert(errorMsg, taskContext+" (PANIC)")
				err = fmt.Errorf("%s panicked: %v", taskName, rec)
			}
		}()

		if err := task(); err != nil {
			m.alert(fmt.Sprintf("%s: %v", taskContext, err), taskContext)
			return err
		}
		return nil
	}
}

// alert posts to Slack unless the same message was sent within the cooldown
func (m *ErrorAlertMiddleware) alert(errorMsg, alertContext string) {
	if m.config.WebhookURL == "" {
		return
	}

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		m.mutex.Unlock()
		return
	}
	m.alertedErrors[hash] = time.Now()
	m.mutex.Unlock()

	go m.sendSlackAlert(errorMsg, alertContext)
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, alertContext string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.alertTimeout)
	defer cancel()

	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType,
			fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
			true,
			false,
		)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", alertContext), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil,
			nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil,
			nil,
		))
	}

	err := slack.PostWebhookContext(ctx, m.config.WebhookURL, &slack.WebhookMessage{
		Text:   errorMsg,
		Blocks: &slack.Blocks{BlockSet: blocks},
	})
	if err != nil {
		log.Printf("❌ Failed to send Slack alert: %v", err)
	}
}
