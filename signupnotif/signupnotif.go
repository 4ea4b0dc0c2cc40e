package signupnotif

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/slack-go/slack"
)

var (
	instance *SignupNotifier
	once     sync.Once
)

type SignupNotifier struct {
	webhookURL  string
	environment string
	appName     string

	// post is swapped in tests
	post func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

// Init initializes the global signup notifier instance
func Init(webhookURL, environment string) {
	once.Do(func() {
		instance = newSignupNotifier(webhookURL, environment)
	})
}

func newSignupNotifier(webhookURL, environment string) *SignupNotifier {
	return &SignupNotifier{
		webhookURL:  webhookURL,
		environment: environment,
		appName:     "MC Panel",
		post:        slack.PostWebhookContext,
	}
}

// New sends a notification that a Discord account linked to the dashboard
func New(discordID, message string) {
	if instance == nil {
		log.Printf("⚠️ Signup notifier not initialized, skipping notification: %s", message)
		return
	}

	instance.send(discordID, message)
}

func (s *SignupNotifier) send(discordID, message string) {
	if s.webhookURL == "" {
		return // Signup notifications disabled
	}

	// Send notification asynchronously to avoid blocking the login redirect
	go s.sendSlackNotification(discordID, message)
}

func (s *SignupNotifier) buildMessage(discordID, message string) *slack.WebhookMessage {
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", s.appName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", s.environment), false, false),
	}

	if discordID != "" {
		fields = append(fields, slack.NewTextBlockObject(
			slack.MarkdownType,
			fmt.Sprintf("*Discord ID:* `%s`", discordID),
			false,
			false,
		))
	}

	fields = append(fields, slack.NewTextBlockObject(
		slack.MarkdownType,
		fmt.Sprintf("*Timestamp:* %s", time.Now().UTC().Format("2006-01-02 15:04:05 UTC")),
		false,
		false,
	))

	return &slack.WebhookMessage{
		Text: message,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(nil, fields, nil),
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🎉 *Signup:*\n%s", message), false, false),
					nil,
					nil,
				),
			},
		},
	}
}

func (s *SignupNotifier) sendSlackNotification(discordID, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.post(ctx, s.webhookURL, s.buildMessage(discordID, message)); err != nil {
		log.Printf("❌ Failed to send signup notification: %v", err)
		return
	}

	log.Printf("🎉 Signup notification sent: %s", message)
}
