package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/cli/config"
	"github.com/secmon-lab/orthos/pkg/domain/interfaces"
	"github.com/secmon-lab/orthos/pkg/domain/model"
)

// Collaborators reports which integrations the server was started with.
// The health endpoint exposes it so operators can see at a glance why a
// pipeline stage is degrading.
type Collaborators struct {
	Jira      bool `json:"jira"`
	LLM       bool `json:"llm"`
	Sentry    bool `json:"sentry"`
	GitHub    bool `json:"github"`
	Slack     bool `json:"slack"`
	Firestore bool `json:"firestore"`
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router         chi.Router
	webhookHandler *WebhookHandler
	apiHandler     *APIHandler
	collaborators  Collaborators
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	addr string,
	uc interfaces.Analyze,
	jiraConfig *config.Jira,
	sentryConfig *config.Sentry,
	collaborators Collaborators,
) (*Server, error) {
	if uc == nil {
		return nil, goerr.New("analyze use case is required")
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	webhookHandler := NewWebhookHandler(uc, jiraConfig, sentryConfig)
	apiHandler := NewAPIHandler(uc)

	server := &Server{
		router:         router,
		webhookHandler: webhookHandler,
		apiHandler:     apiHandler,
		collaborators:  collaborators,
	}

	router.Get("/", server.handleRoot)
	router.Get("/health", server.handleHealth)

	// Webhook routes
	router.Route("/hooks", func(r chi.Router) {
		r.Post("/jira", webhookHandler.HandleJira)
		r.Post("/sentry", webhookHandler.HandleSentry)
	})

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", apiHandler.HandleAnalyze)
		r.Post("/analyze/raw", apiHandler.HandleAnalyzeRaw)
		r.Get("/analyses", apiHandler.HandleListAnalyses)
		r.Get("/analyses/{analysisID}", apiHandler.HandleGetAnalysis)
	})

	server.Server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	return server, nil
}

// handleRoot handles service information requests
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r.Context(), http.StatusOK, map[string]any{
		"service": "orthos",
		"version": "0.1.0",
		"endpoints": map[string]string{
			"POST /hooks/jira":       "Receive Jira issue webhooks",
			"POST /hooks/sentry":     "Receive Sentry alert webhooks",
			"POST /api/analyze":      "Manual analysis trigger",
			"POST /api/analyze/raw":  "Echo payload keys for webhook debugging",
			"GET /api/analyses":      "List analysis records",
			"GET /api/analyses/{id}": "Get one analysis record",
			"GET /health":            "Health check",
		},
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r.Context(), http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "orthos",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"config":    s.collaborators,
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, ctx context.Context, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, ctx context.Context, err error, status int) {
	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	writeJSON(w, ctx, status, map[string]string{
		"error": message,
	})
}

// statusFromError maps domain errors to HTTP status codes
func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrAnalysisNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNoIssueKey), errors.Is(err, model.ErrNoSentryURL):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case goerr.HasTag(err, model.ErrTagInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
