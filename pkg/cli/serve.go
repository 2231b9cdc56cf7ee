package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/cli/config"
	controller "github.com/secmon-lab/orthos/pkg/controller/http"
	"github.com/secmon-lab/orthos/pkg/service/triage"
	"github.com/secmon-lab/orthos/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		jiraCfg      config.Jira
		sentryCfg    config.Sentry
		githubCfg    config.GitHub
		slackCfg     config.Slack
		firestoreCfg config.Firestore
		llmCfg       config.LLM
		projectsCfg  config.Projects
	)

	flags := joinFlags(
		serverCfg.Flags(),
		jiraCfg.Flags(),
		sentryCfg.Flags(),
		githubCfg.Flags(),
		slackCfg.Flags(),
		firestoreCfg.Flags(),
		llmCfg.Flags(),
		projectsCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Get logger from root command metadata
			logger := ctxlog.From(ctx)

			logger.Info("Starting orthos server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("jira", jiraCfg),
				slog.Any("sentry", sentryCfg),
				slog.Any("github", githubCfg),
				slog.Any("slack", slackCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("llm", llmCfg),
				slog.Any("projects", projectsCfg),
			)

			// The tracker and the LLM are the two collaborators the
			// pipeline cannot run without. Everything else degrades.
			if !jiraCfg.IsConfigured() {
				return goerr.New("Jira configuration is required. Please provide ORTHOS_JIRA_BASE_URL, ORTHOS_JIRA_EMAIL and ORTHOS_JIRA_API_TOKEN")
			}
			if !llmCfg.IsConfigured() {
				return goerr.New("LLM configuration is required. Please provide a credential for the selected provider")
			}

			// Create repository using config
			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return err
			}

			projects, err := projectsCfg.Configure()
			if err != nil {
				return err
			}

			opts := []usecase.Option{}
			if sentryCfg.IsConfigured() {
				opts = append(opts, usecase.WithReportSource(sentryCfg.Configure()))
			}
			if projects != nil {
				opts = append(opts,
					usecase.WithProjects(projects),
					usecase.WithCodeFetcher(githubCfg.Configure()),
				)
			}
			if slackCfg.IsConfigured() {
				opts = append(opts, usecase.WithNotifier(slackCfg.Configure()))
			}

			uc := usecase.New(repo, jiraCfg.Configure(), triage.New(llmClient), opts...)

			// Create HTTP server
			server, err := controller.NewServer(
				ctx,
				serverCfg.Addr,
				uc,
				&jiraCfg,
				&sentryCfg,
				controller.Collaborators{
					Jira:      jiraCfg.IsConfigured(),
					LLM:       llmCfg.IsConfigured(),
					Sentry:    sentryCfg.IsConfigured(),
					GitHub:    projects != nil,
					Slack:     slackCfg.IsConfigured(),
					Firestore: firestoreCfg.IsConfigured(),
				},
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
