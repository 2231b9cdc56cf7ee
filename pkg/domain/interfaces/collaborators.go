package interfaces

import (
	"context"

	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// ReportSource fetches raw error reports from the upstream error tracker
type ReportSource interface {
	// FetchIssueReport returns the report for one issue, either markdown or
	// a JSON API payload. Returns model.ErrNotConfigured when no credentials
	// are available.
	FetchIssueReport(ctx context.Context, ref *model.SentryRef) (string, error)
}

// Tracker writes analysis results back to the issue tracker
type Tracker interface {
	// AddComment posts a comment rendered from the given plain text
	AddComment(ctx context.Context, key types.IssueKey, text string) error

	// UpdatePriority sets the issue priority field
	UpdatePriority(ctx context.Context, key types.IssueKey, priority model.Priority) error

	// GetIssueDescription returns the issue description as plain text,
	// flattening a rich-document body when necessary
	GetIssueDescription(ctx context.Context, key types.IssueKey) (string, error)
}

// CodeFetcher retrieves source snippets referenced by stack traces.
// Implementations return an empty slice when no repository is configured
// and skip files that cannot be fetched.
type CodeFetcher interface {
	FetchSnippets(ctx context.Context, proj *model.Project, paths []string) ([]model.SourceSnippet, error)
}

// Notifier delivers notifications for urgent analyses
type Notifier interface {
	NotifyUrgent(ctx context.Context, record *model.AnalysisRecord) error
}
