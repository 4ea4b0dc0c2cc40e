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

	"mcpanel/core"
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
	alertCooldown time.Duration // prevent spam

	post func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

func NewErrorAlertMiddleware(config SlackAlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
		post:          slack.PostWebhookContext,
	}
}

// HTTP Middleware - wraps HTTP handlers
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path), func() {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
		next.ServeHTTP(w, r)
	})
}

// WrapGatewayHandler guards a gateway event handler. A panic in one event must not take the
// whole gateway connection down.
func (m *ErrorAlertMiddleware) WrapGatewayHandler(eventName string, handler func() error) func() {
	return func() {
		defer m.recoverAndAlert(fmt.Sprintf("Gateway event: %s", eventName), nil)

		if err := handler(); err != nil {
			log.Printf("❌ Gateway event %s failed: %v", eventName, err)
			m.alertOnError(err, fmt.Sprintf("Gateway event: %s", eventName))
		}
	}
}

// Background Task Wrapper
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() error {
	return func() (err error) {
		defer m.recoverAndAlert(fmt.Sprintf("Background task: %s", taskName), func() {
			err = fmt.Errorf("background task %s panicked", taskName)
		})

		if err := task(); err != nil {
			m.alertOnError(err, fmt.Sprintf("Background task: %s", taskName))
			return err
		}
		return nil
	}
}

// Core error alerting logic
func (m *ErrorAlertMiddleware) alertOnError(err error, source string) {
	errorMsg := fmt.Sprintf("%s: %v", source, err)
	if !m.shouldAlert(errorMsg) {
		return // Skip alert - too recent
	}

	// Send alert asynchronously
	go m.sendSlackAlert(errorMsg, source)
}

// shouldAlert deduplicates alerts with identical text within the cooldown window
func (m *ErrorAlertMiddleware) shouldAlert(errorMsg string) bool {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		return false
	}
	m.alertedErrors[hash] = time.Now()
	return true
}

func (m *ErrorAlertMiddleware) recoverAndAlert(source string, onPanic func()) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", source, r)
		log.Printf("❌ %s", errorMsg)
		if onPanic != nil {
			onPanic()
		}
		if m.shouldAlert(errorMsg) {
			go m.sendSlackAlert(errorMsg, source+" (PANIC)")
		}
	}
}

func (m *ErrorAlertMiddleware) buildAlert(alertID, errorMsg, source string) *slack.WebhookMessage {
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
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", source), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Alert ID:* `%s`", alertID), false, false),
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

	return &slack.WebhookMessage{
		Text:   errorMsg,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, source string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	alertID := core.NewID("alrt")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.post(ctx, m.config.WebhookURL, m.buildAlert(alertID, errorMsg, source)); err != nil {
		log.Printf("❌ Failed to send Slack alert %s: %v", alertID, err)
		return
	}
	log.Printf("📨 Slack alert %s sent", alertID)
}
