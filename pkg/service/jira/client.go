package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// Client talks to the Jira Cloud REST API v3 with Basic auth.
// Comment and priority writes are independent calls; a failure in one
// never affects the other.
type Client struct {
	baseURL string
	email   string
	token   string
	httpc   *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// NewClient creates a Jira API client for the given site URL and
// email/token credential pair
func NewClient(baseURL, email, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		email:   email,
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

// IsConfigured returns true when the site URL and both credentials are set
func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.email != "" && c.token != ""
}

// AddComment posts the text as an ADF comment on the issue.
// Accepted status codes are 200 and 201.
func (c *Client) AddComment(ctx context.Context, key types.IssueKey, text string) error {
	payload := map[string]any{
		"body": DocumentFromText(text),
	}

	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/comment", c.baseURL, key)
	resp, body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return goerr.Wrap(err, "failed to post Jira comment", goerr.V("issue_key", key))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return goerr.New("Jira comment API returned error status",
			goerr.V("status_code", resp.StatusCode),
			goerr.V("issue_key", key),
			goerr.V("body", truncate(body, 500)))
	}
	return nil
}

// UpdatePriority sets the priority field by name.
// Accepted status codes are 200 and 204.
func (c *Client) UpdatePriority(ctx context.Context, key types.IssueKey, priority model.Priority) error {
	payload := map[string]any{
		"fields": map[string]any{
			"priority": map[string]any{
				"name": priority.String(),
			},
		},
	}

	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s", c.baseURL, key)
	resp, body, err := c.do(ctx, http.MethodPut, endpoint, payload)
	if err != nil {
		return goerr.Wrap(err, "failed to update Jira priority", goerr.V("issue_key", key))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return goerr.New("Jira priority API returned error status",
			goerr.V("status_code", resp.StatusCode),
			goerr.V("issue_key", key),
			goerr.V("body", truncate(body, 500)))
	}
	return nil
}

// GetIssueDescription reads the issue and returns its description as plain
// text. API v3 returns descriptions as ADF trees; older payloads may carry
// a plain string. Both forms are handled.
func (c *Client) GetIssueDescription(ctx context.Context, key types.IssueKey) (string, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?%s", c.baseURL, key,
		url.Values{"fields": []string{"description,summary"}}.Encode())

	resp, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch Jira issue", goerr.V("issue_key", key))
	}

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("Jira issue API returned error status",
			goerr.V("status_code", resp.StatusCode),
			goerr.V("issue_key", key),
			goerr.V("body", truncate(body, 500)))
	}

	var issue struct {
		Fields struct {
			Description any `json:"description"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(body), &issue); err != nil {
		return "", goerr.Wrap(err, "failed to decode Jira issue response",
			goerr.V("issue_key", key))
	}

	switch desc := issue.Fields.Description.(type) {
	case string:
		return desc, nil
	case nil:
		return "", nil
	default:
		return PlainTextFromADF(desc), nil
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (*http.Response, string, error) {
	if !c.IsConfigured() {
		return nil, "", goerr.Wrap(model.ErrNotConfigured, "Jira credentials are not set")
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to encode Jira request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to build Jira API request")
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to call Jira API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to read Jira API response")
	}

	return resp, string(body), nil
}

func (c *Client) authHeader() string {
	credentials := c.email + ":" + c.token
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
