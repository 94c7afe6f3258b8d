package notify

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planflow/internal/domain"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// SlackSender posts notifications to a single channel.
type SlackSender struct {
	api     *slack.Client
	channel string
}

// SlackOption configures NewSlackSender.
type SlackOption func(*slackConfig)

type slackConfig struct {
	apiURL string
}

// WithAPIURL overrides the Slack Web API base URL. The URL must end in "/".
func WithAPIURL(u string) SlackOption {
	return func(c *slackConfig) {
		c.apiURL = u
	}
}

func NewSlackSender(token, channel string, opts ...SlackOption) (*SlackSender, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}
	var cfg slackConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var clientOpts []slack.Option
	if cfg.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(cfg.apiURL))
	}
	return &SlackSender{api: slack.New(token, clientOpts...), channel: channel}, nil
}

func (s *SlackSender) Send(ctx context.Context, n *domain.Notification) error {
	_, _, err := s.api.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(FormatSlackText(n), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack notification",
			goerr.V("channel", s.channel),
			goerr.V("notification_id", n.ID),
			goerr.V("recipient_id", n.RecipientID))
	}
	return nil
}

// FormatSlackText renders n as a single mrkdwn line.
func FormatSlackText(n *domain.Notification) string {
	text := fmt.Sprintf("*%s* for `%s`", n.Kind, n.RecipientID)
	if n.PlanID != "" {
		text += fmt.Sprintf(" on plan `%s`", n.PlanID)
	}
	if n.Message != "" {
		text += ": " + n.Message
	}
	return text
}
