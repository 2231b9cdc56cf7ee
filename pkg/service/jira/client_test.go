package jira_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
	"github.com/secmon-lab/orthos/pkg/service/jira"
)

func basicAuth(email, token string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+token))
}

func TestClientAddComment(t *testing.T) {
	t.Run("posts an ADF comment with basic auth", func(t *testing.T) {
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Equal(t, r.Method, http.MethodPost)
			gt.Equal(t, r.URL.Path, "/rest/api/3/issue/BRMS-42/comment")
			gt.Equal(t, r.Header.Get("Authorization"), basicAuth("bot@example.com", "api-token"))
			gt.Equal(t, r.Header.Get("Content-Type"), "application/json")

			raw, err := io.ReadAll(r.Body)
			gt.NoError(t, err)
			gt.NoError(t, json.Unmarshal(raw, &gotBody))

			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		client := jira.NewClient(srv.URL, "bot@example.com", "api-token")

		err := client.AddComment(context.Background(), types.IssueKey("BRMS-42"), "analysis done\n\nsee details")
		gt.NoError(t, err)

		body, ok := gotBody["body"].(map[string]any)
		gt.True(t, ok)
		gt.Equal(t, body["type"], "doc")
		gt.Equal(t, body["version"], float64(1))
		content, ok := body["content"].([]any)
		gt.True(t, ok)
		gt.Equal(t, len(content), 2)
	})

	t.Run("error status carries the HTTP code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errorMessages": ["comment body is invalid"]}`))
		}))
		defer srv.Close()

		client := jira.NewClient(srv.URL, "bot@example.com", "api-token")

		err := client.AddComment(context.Background(), types.IssueKey("BRMS-42"), "text")
		gt.Error(t, err)
		gt.V(t, goerr.Values(err)["status_code"]).Equal(http.StatusBadRequest)
	})

	t.Run("missing credentials short-circuit before any call", func(t *testing.T) {
		client := jira.NewClient("", "", "")

		err := client.AddComment(context.Background(), types.IssueKey("BRMS-42"), "text")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrNotConfigured))
	})
}

func TestClientUpdatePriority(t *testing.T) {
	t.Run("puts the priority name", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Equal(t, r.Method, http.MethodPut)
			gt.Equal(t, r.URL.Path, "/rest/api/3/issue/BRMS-42")

			raw, err := io.ReadAll(r.Body)
			gt.NoError(t, err)
			gt.Equal(t, string(raw), `{"fields":{"priority":{"name":"Highest"}}}`)

			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		client := jira.NewClient(srv.URL, "bot@example.com", "api-token")

		err := client.UpdatePriority(context.Background(), types.IssueKey("BRMS-42"), model.PriorityHighest)
		gt.NoError(t, err)
	})

	t.Run("forbidden status becomes an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := jira.NewClient(srv.URL, "bot@example.com", "api-token")

		err := client.UpdatePriority(context.Background(), types.IssueKey("BRMS-42"), model.PriorityLow)
		gt.Error(t, err)
		gt.V(t, goerr.Values(err)["status_code"]).Equal(http.StatusForbidden)
	})
}

func TestClientGetIssueDescription(t *testing.T) {
	t.Run("flattens an ADF description", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Equal(t, r.Method, http.MethodGet)
			gt.Equal(t, r.URL.Path, "/rest/api/3/issue/BRMS-42")
			gt.Equal(t, r.URL.Query().Get("fields"), "description,summary")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"fields": {
					"description": {
						"type": "doc", "version": 1,
						"content": [
							{"type": "paragraph", "content": [
								{"type": "text", "text": "Sentry Issue:"},
								{"type": "text", "text": "https://acme-corp.sentry.io/issues/82134814"}
							]}
						]
					}
				}
			}`))
		}))
		defer srv.Close()

		client := jira.NewClient(srv.URL, "bot@example.com", "api-token")

		desc, err := client.GetIssueDescription(context.Background(), types.IssueKey("BRMS-42"))
		gt.NoError(t, err)
		gt.Equal(t, desc, "Sentry Issue: https://acme-corp.sentry.io/issues/82134814")
	})

	t.Run("passes a plain string description through", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"fields": {"description": "plain text body"}}`))
		}))
		defer srv.Close()

		client := jira.NewClient(srv.URL, "bot@example.com", "api-token")

		desc, err := client.GetIssueDescription(context.Background(), types.IssueKey("BRMS-42"))
		gt.NoError(t, err)
		gt.Equal(t, desc, "plain text body")
	})

	t.Run("null description yields empty text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"fields": {"description": null}}`))
		}))
		defer srv.Close()

		client := jira.NewClient(srv.URL, "bot@example.com", "api-token")

		desc, err := client.GetIssueDescription(context.Background(), types.IssueKey("BRMS-42"))
		gt.NoError(t, err)
		gt.Equal(t, desc, "")
	})
}
