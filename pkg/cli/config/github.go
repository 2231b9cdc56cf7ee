package config

import (
	"log/slog"

	"github.com/secmon-lab/orthos/pkg/service/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub configuration. The token is optional: public
// repositories can be read without one, at a lower rate limit.
type GitHub struct {
	Token string
}

// Flags returns CLI flags for GitHub configuration
func (g *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token for source snippet fetch",
			Category:    "GitHub",
			Sources:     cli.EnvVars("ORTHOS_GITHUB_TOKEN"),
			Destination: &g.Token,
		},
	}
}

// Configure creates a GitHub source fetcher
func (g *GitHub) Configure() *github.Fetcher {
	return github.NewFetcher(g.Token)
}

// IsConfigured checks if a token is present
func (g *GitHub) IsConfigured() bool {
	return g.Token != ""
}

// LogValue returns structured log value
func (g GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_token", g.Token != ""),
	)
}
