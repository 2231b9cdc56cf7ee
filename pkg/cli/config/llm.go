package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM holds model provider configuration. One provider is active at a
// time; the flags of the others are simply ignored.
type LLM struct {
	Provider string
	Model    string

	GeminiProject  string
	GeminiLocation string
	ClaudeAPIKey   string
	OpenAIAPIKey   string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (gemini, claude, openai)",
			Category:    "LLM",
			Value:       "gemini",
			Sources:     cli.EnvVars("ORTHOS_LLM_PROVIDER"),
			Destination: &l.Provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name override (provider default when empty)",
			Category:    "LLM",
			Sources:     cli.EnvVars("ORTHOS_LLM_MODEL"),
			Destination: &l.Model,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "GCP project ID for Gemini",
			Category:    "LLM",
			Sources:     cli.EnvVars("ORTHOS_GEMINI_PROJECT"),
			Destination: &l.GeminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Gemini location",
			Category:    "LLM",
			Value:       "us-central1",
			Sources:     cli.EnvVars("ORTHOS_GEMINI_LOCATION"),
			Destination: &l.GeminiLocation,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("ORTHOS_CLAUDE_API_KEY"),
			Destination: &l.ClaudeAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("ORTHOS_OPENAI_API_KEY"),
			Destination: &l.OpenAIAPIKey,
		},
	}
}

// Configure creates an LLM client for the selected provider
func (l *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if !l.IsConfigured() {
		return nil, goerr.New("LLM is not configured",
			goerr.V("provider", l.Provider))
	}

	switch l.Provider {
	case "gemini":
		var opts []gemini.Option
		if l.Model != "" {
			opts = append(opts, gemini.WithModel(l.Model))
		}
		client, err := gemini.New(ctx, l.GeminiProject, l.GeminiLocation, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case "claude":
		var opts []claude.Option
		if l.Model != "" {
			opts = append(opts, claude.WithModel(l.Model))
		}
		client, err := claude.New(ctx, l.ClaudeAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}
		return client, nil

	case "openai":
		var opts []openai.Option
		if l.Model != "" {
			opts = append(opts, openai.WithModel(l.Model))
		}
		client, err := openai.New(ctx, l.OpenAIAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	default:
		return nil, goerr.New("unknown LLM provider",
			goerr.V("provider", l.Provider))
	}
}

// IsConfigured checks if the selected provider has its credentials
func (l *LLM) IsConfigured() bool {
	switch l.Provider {
	case "gemini":
		return l.GeminiProject != ""
	case "claude":
		return l.ClaudeAPIKey != ""
	case "openai":
		return l.OpenAIAPIKey != ""
	default:
		return false
	}
}

// LogValue returns structured log value
func (l LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", l.Provider),
		slog.String("model", l.Model),
		slog.String("gemini_project", l.GeminiProject),
		slog.String("gemini_location", l.GeminiLocation),
		slog.Bool("has_claude_api_key", l.ClaudeAPIKey != ""),
		slog.Bool("has_openai_api_key", l.OpenAIAPIKey != ""),
	)
}
