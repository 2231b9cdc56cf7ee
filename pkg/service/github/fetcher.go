package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"golang.org/x/oauth2"
)

const (
	// At most this many files go into an analysis prompt
	maxFetchedFiles = 3

	// Longer files are cut to keep the prompt bounded
	maxSnippetLines = 100

	truncationMarker = "\n... (truncated)"
)

// Fetcher retrieves source files named by stack traces through the GitHub
// contents API. A token raises rate limits but is not required for public
// repositories.
type Fetcher struct {
	client *github.Client
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithBaseURL points the fetcher at a different API endpoint
func WithBaseURL(rawURL string) Option {
	return func(f *Fetcher) {
		if !strings.HasSuffix(rawURL, "/") {
			rawURL += "/"
		}
		if parsed, err := url.Parse(rawURL); err == nil {
			f.client.BaseURL = parsed
		}
	}
}

// NewFetcher creates a GitHub source fetcher. An empty token produces an
// unauthenticated client.
func NewFetcher(token string, opts ...Option) *Fetcher {
	httpc := &http.Client{Timeout: 10 * time.Second}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpc = oauth2.NewClient(context.Background(), ts)
		httpc.Timeout = 10 * time.Second
	}

	f := &Fetcher{client: github.NewClient(httpc)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchSnippets downloads the first files named by the stack trace from the
// project repository. A missing project mapping yields an empty result, and
// files that cannot be fetched are skipped so one bad path never blocks the
// analysis.
func (f *Fetcher) FetchSnippets(ctx context.Context, proj *model.Project, paths []string) ([]model.SourceSnippet, error) {
	if proj == nil || proj.Owner == "" || proj.Repo == "" {
		return nil, nil
	}

	if len(paths) > maxFetchedFiles {
		paths = paths[:maxFetchedFiles]
	}

	logger := ctxlog.From(ctx)
	var snippets []model.SourceSnippet
	for _, path := range paths {
		snippet, err := f.fetchFile(ctx, proj, path)
		if err != nil {
			logger.Warn("Failed to fetch source file, skipping",
				"error", err,
				"owner", proj.Owner,
				"repo", proj.Repo,
				"path", path,
			)
			continue
		}
		snippets = append(snippets, *snippet)
	}

	return snippets, nil
}

func (f *Fetcher) fetchFile(ctx context.Context, proj *model.Project, path string) (*model.SourceSnippet, error) {
	opts := &github.RepositoryContentGetOptions{Ref: proj.Ref()}
	file, _, _, err := f.client.Repositories.GetContents(ctx, proj.Owner, proj.Repo, path, opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch repository content",
			goerr.V("path", path))
	}
	if file == nil {
		return nil, goerr.New("path is not a file", goerr.V("path", path))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode repository content",
			goerr.V("path", path))
	}

	lines := strings.Split(content, "\n")
	if len(lines) > maxSnippetLines {
		content = strings.Join(lines[:maxSnippetLines], "\n") + truncationMarker
	}

	return &model.SourceSnippet{
		Path:     path,
		Content:  content,
		Language: model.LanguageForPath(path),
	}, nil
}
