package config

import (
	"log/slog"

	"github.com/secmon-lab/orthos/pkg/service/sentry"
	"github.com/urfave/cli/v3"
)

// Sentry holds Sentry API configuration
type Sentry struct {
	APIToken     string
	ClientSecret string
}

// Flags returns CLI flags for Sentry configuration
func (s *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-api-token",
			Usage:       "Sentry auth token for the issues API",
			Category:    "Sentry",
			Sources:     cli.EnvVars("ORTHOS_SENTRY_API_TOKEN"),
			Destination: &s.APIToken,
		},
		&cli.StringFlag{
			Name:        "sentry-client-secret",
			Usage:       "Sentry integration client secret for webhook signatures (verification off when empty)",
			Category:    "Sentry",
			Sources:     cli.EnvVars("ORTHOS_SENTRY_CLIENT_SECRET"),
			Destination: &s.ClientSecret,
		},
	}
}

// Configure creates a Sentry API client
func (s *Sentry) Configure() *sentry.Client {
	return sentry.NewClient(s.APIToken)
}

// IsConfigured checks if the Sentry API is usable
func (s *Sentry) IsConfigured() bool {
	return s.APIToken != ""
}

// LogValue returns structured log value
func (s Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_api_token", s.APIToken != ""),
		slog.Bool("has_client_secret", s.ClientSecret != ""),
	)
}
