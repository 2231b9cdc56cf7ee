package config

import (
	"log/slog"

	"github.com/secmon-lab/orthos/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack notification configuration
type Slack struct {
	OAuthToken string
	Channel    string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for urgent notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("ORTHOS_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel ID for urgent notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("ORTHOS_SLACK_CHANNEL"),
			Destination: &s.Channel,
		},
	}
}

// Configure creates a Slack notification service
func (s *Slack) Configure() *slack.Service {
	return slack.New(s.OAuthToken, s.Channel)
}

// IsConfigured checks if Slack notifications can be delivered
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.Channel != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.Channel),
	)
}
