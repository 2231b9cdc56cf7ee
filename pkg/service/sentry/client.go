package sentry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/model"
)

const defaultBaseURL = "https://sentry.io"

// Client fetches issue payloads from the Sentry REST API
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// NewClient creates a Sentry API client. An empty token is allowed; calls
// then fail with model.ErrNotConfigured instead of leaking an empty
// Authorization header.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpc: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured returns true when an API token is available
func (c *Client) IsConfigured() bool {
	return c != nil && c.token != ""
}

// FetchIssueReport retrieves one issue as a JSON API payload
func (c *Client) FetchIssueReport(ctx context.Context, ref *model.SentryRef) (string, error) {
	if !c.IsConfigured() {
		return "", goerr.Wrap(model.ErrNotConfigured, "Sentry API token is not set")
	}
	if ref == nil {
		return "", goerr.New("sentry ref is required")
	}

	url := fmt.Sprintf("%s/api/0/organizations/%s/issues/%s/", c.baseURL, ref.Org, ref.IssueID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build Sentry API request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call Sentry API",
			goerr.V("org", ref.Org),
			goerr.V("issue_id", ref.IssueID))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read Sentry API response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("Sentry API returned non-OK status",
			goerr.V("status_code", resp.StatusCode),
			goerr.V("org", ref.Org),
			goerr.V("issue_id", ref.IssueID),
			goerr.V("body", truncate(string(body), 500)))
	}

	return string(body), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
