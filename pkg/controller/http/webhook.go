package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/cli/config"
	"github.com/secmon-lab/orthos/pkg/domain/interfaces"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
	"github.com/secmon-lab/orthos/pkg/service/jira"
	"github.com/secmon-lab/orthos/pkg/utils/async"
)

// WebhookHandler handles inbound webhook endpoints. Verification is
// enabled per hook by configuring its secret; without one the hook
// accepts unsigned requests.
type WebhookHandler struct {
	uc           interfaces.Analyze
	jiraSecret   string
	sentrySecret string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(uc interfaces.Analyze, jiraConfig *config.Jira, sentryConfig *config.Sentry) *WebhookHandler {
	h := &WebhookHandler{uc: uc}
	if jiraConfig != nil {
		h.jiraSecret = jiraConfig.WebhookSecret
	}
	if sentryConfig != nil {
		h.sentrySecret = sentryConfig.ClientSecret
	}
	return h
}

// jiraWebhookPayload is the subset of a Jira issue webhook the pipeline
// uses. The description arrives as plain text on older payloads and as an
// ADF document on current ones.
type jiraWebhookPayload struct {
	WebhookEvent string `json:"webhookEvent"`
	Issue        struct {
		Key    string `json:"key"`
		Fields struct {
			Summary     string `json:"summary"`
			Description any    `json:"description"`
		} `json:"fields"`
	} `json:"issue"`
}

// HandleJira handles a Jira issue webhook. The event is acknowledged
// immediately and the analysis continues in the background.
func (h *WebhookHandler) HandleJira(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.verifyJiraJWT(r); err != nil {
		ctxlog.From(ctx).Warn("Invalid Jira webhook JWT", "error", err)
		writeError(w, ctx, goerr.Wrap(err, "invalid webhook token"), http.StatusUnauthorized)
		return
	}

	var payload jiraWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, ctx, goerr.Wrap(err, "failed to parse webhook payload"), http.StatusBadRequest)
		return
	}

	key := types.IssueKey(payload.Issue.Key)
	if key == "" {
		writeError(w, ctx, goerr.Wrap(model.ErrNoIssueKey, "webhook payload has no issue key"), http.StatusBadRequest)
		return
	}

	description := flattenDescription(payload.Issue.Fields.Description)

	ctxlog.From(ctx).Info("Jira webhook received",
		"event", payload.WebhookEvent,
		"issue_key", key,
	)

	writeJSON(w, ctx, http.StatusAccepted, map[string]string{
		"status":    "accepted",
		"issue_key": key.String(),
	})

	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := h.uc.ProcessJiraWebhook(ctx, key, description)
		return err
	})
}

// verifyJiraJWT checks the HS256 token Jira attaches to webhook calls.
// No-op when no shared secret is configured.
func (h *WebhookHandler) verifyJiraJWT(r *http.Request) error {
	if h.jiraSecret == "" {
		return nil
	}

	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "JWT ")
	if raw == "" || raw == r.Header.Get("Authorization") {
		raw = r.URL.Query().Get("jwt")
	}
	if raw == "" {
		return goerr.New("missing webhook token")
	}

	if _, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, []byte(h.jiraSecret)),
		jwt.WithValidate(true),
	); err != nil {
		return goerr.Wrap(err, "token verification failed")
	}

	return nil
}

// sentryWebhookPayload is the subset of a Sentry integration webhook the
// handler uses. Issue IDs arrive as strings or numbers depending on the
// payload kind.
type sentryWebhookPayload struct {
	Action string `json:"action"`
	Data   struct {
		Issue struct {
			ID       json.Number `json:"id"`
			Title    string      `json:"title"`
			WebURL   string      `json:"web_url"`
			Platform string      `json:"platform"`
		} `json:"issue"`
		Event struct {
			EventID string `json:"event_id"`
			Title   string `json:"title"`
			WebURL  string `json:"web_url"`
		} `json:"event"`
	} `json:"data"`
}

// HandleSentry handles a Sentry alert webhook. A Sentry alert carries no
// tracker issue key, so the handler records the alert and points the
// operator at the manual endpoint instead of starting a pipeline run.
func (h *WebhookHandler) HandleSentry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, ctx, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.verifySentrySignature(r, body); err != nil {
		ctxlog.From(ctx).Warn("Invalid Sentry webhook signature", "error", err)
		writeError(w, ctx, goerr.Wrap(err, "invalid signature"), http.StatusUnauthorized)
		return
	}

	var payload sentryWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, ctx, goerr.Wrap(err, "failed to parse webhook payload"), http.StatusBadRequest)
		return
	}

	issueID := payload.Data.Issue.ID.String()
	if issueID == "" {
		issueID = payload.Data.Event.EventID
	}
	if issueID == "" {
		writeJSON(w, ctx, http.StatusOK, map[string]string{
			"status":  "skipped",
			"message": "no issue ID in webhook payload",
		})
		return
	}

	title := payload.Data.Issue.Title
	if title == "" {
		title = payload.Data.Event.Title
	}

	ctxlog.From(ctx).Info("Sentry webhook received",
		"action", payload.Action,
		"sentry_issue_id", issueID,
		"title", title,
	)

	writeJSON(w, ctx, http.StatusOK, map[string]string{
		"status":   "received",
		"issue_id": issueID,
		"message":  "Sentry alert received: " + title + ". Use /api/analyze with a Jira issue key to process.",
	})
}

// verifySentrySignature checks the HMAC-SHA256 body signature Sentry
// attaches to integration webhooks. No-op when no client secret is
// configured.
func (h *WebhookHandler) verifySentrySignature(r *http.Request, body []byte) error {
	if h.sentrySecret == "" {
		return nil
	}

	signature := r.Header.Get("sentry-hook-signature")
	if signature == "" {
		return goerr.New("missing signature header")
	}

	mac := hmac.New(sha256.New, []byte(h.sentrySecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// flattenDescription converts a webhook description field to plain text
func flattenDescription(description any) string {
	switch v := description.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return jira.PlainTextFromADF(v)
	}
}
