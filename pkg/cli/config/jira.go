package config

import (
	"log/slog"

	"github.com/secmon-lab/orthos/pkg/service/jira"
	"github.com/urfave/cli/v3"
)

// Jira holds Jira configuration
type Jira struct {
	BaseURL       string
	Email         string
	APIToken      string
	WebhookSecret string
}

// Flags returns CLI flags for Jira configuration
func (j *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-base-url",
			Usage:       "Jira Cloud base URL (e.g. https://example.atlassian.net)",
			Category:    "Jira",
			Sources:     cli.EnvVars("ORTHOS_JIRA_BASE_URL"),
			Destination: &j.BaseURL,
		},
		&cli.StringFlag{
			Name:        "jira-email",
			Usage:       "Jira account email for API token auth",
			Category:    "Jira",
			Sources:     cli.EnvVars("ORTHOS_JIRA_EMAIL"),
			Destination: &j.Email,
		},
		&cli.StringFlag{
			Name:        "jira-api-token",
			Usage:       "Jira API token",
			Category:    "Jira",
			Sources:     cli.EnvVars("ORTHOS_JIRA_API_TOKEN"),
			Destination: &j.APIToken,
		},
		&cli.StringFlag{
			Name:        "jira-webhook-secret",
			Usage:       "Shared secret for webhook JWT verification (verification off when empty)",
			Category:    "Jira",
			Sources:     cli.EnvVars("ORTHOS_JIRA_WEBHOOK_SECRET"),
			Destination: &j.WebhookSecret,
		},
	}
}

// Configure creates a Jira client
func (j *Jira) Configure() *jira.Client {
	return jira.NewClient(j.BaseURL, j.Email, j.APIToken)
}

// IsConfigured checks if Jira is properly configured
func (j *Jira) IsConfigured() bool {
	return j.BaseURL != "" && j.Email != "" && j.APIToken != ""
}

// LogValue returns structured log value
func (j Jira) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", j.BaseURL),
		slog.String("email", j.Email),
		slog.Bool("has_api_token", j.APIToken != ""),
		slog.Bool("has_webhook_secret", j.WebhookSecret != ""),
	)
}
