package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/interfaces"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
	"github.com/secmon-lab/orthos/pkg/service/jira"
	"github.com/secmon-lab/orthos/pkg/service/sentry"
	"github.com/secmon-lab/orthos/pkg/service/triage"
	"github.com/secmon-lab/orthos/pkg/utils/apperr"
)

// Analyze implements the triage pipeline: normalize a report, classify it,
// diagnose the root cause, write the results back to the tracker and
// persist an audit record. Each run is independent and carries no shared
// state.
type Analyze struct {
	repo      interfaces.Repository
	tracker   interfaces.Tracker
	triageSvc *triage.Service
	source    interfaces.ReportSource
	fetcher   interfaces.CodeFetcher
	notifier  interfaces.Notifier
	projects  *model.ProjectsConfig
}

// Option is a functional option for configuring Analyze
type Option func(*Analyze)

// WithReportSource sets the upstream report source used when a run has to
// fetch the report itself
func WithReportSource(source interfaces.ReportSource) Option {
	return func(u *Analyze) {
		u.source = source
	}
}

// WithCodeFetcher sets the source snippet fetcher
func WithCodeFetcher(fetcher interfaces.CodeFetcher) Option {
	return func(u *Analyze) {
		u.fetcher = fetcher
	}
}

// WithNotifier sets the urgent notification target
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(u *Analyze) {
		u.notifier = notifier
	}
}

// WithProjects sets the org-to-repository mapping used for source lookup
func WithProjects(projects *model.ProjectsConfig) Option {
	return func(u *Analyze) {
		u.projects = projects
	}
}

// New creates a new Analyze use case. Repository, tracker and the triage
// service are required; everything else is optional and the pipeline
// degrades without it.
func New(repo interfaces.Repository, tracker interfaces.Tracker, triageSvc *triage.Service, opts ...Option) *Analyze {
	u := &Analyze{
		repo:      repo,
		tracker:   tracker,
		triageSvc: triageSvc,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ProcessReport runs the full pipeline on one raw report. The ref may be
// nil; the run then recovers it from the report body when possible. The
// returned record is also persisted, and its write statuses reflect the
// tracker calls individually.
func (u *Analyze) ProcessReport(ctx context.Context, key types.IssueKey, report string, ref *model.SentryRef) (*model.AnalysisRecord, error) {
	if key == "" {
		return nil, goerr.Wrap(model.ErrNoIssueKey, "cannot analyze without an issue key")
	}

	logger := ctxlog.From(ctx)

	if ref == nil {
		if extracted, err := sentry.ExtractSentryRef(report); err == nil {
			ref = extracted
		}
	}

	var proj *model.Project
	if ref != nil {
		proj = u.projects.FindByOrg(ref.Org.String())
	}
	var appPaths []string
	if proj != nil {
		appPaths = proj.AppPaths
	}

	issue := sentry.NormalizeReportWithPaths(report, appPaths)
	logger.Info("Report normalized",
		"issue_key", key,
		"title", issue.Title,
		"occurrences", issue.Occurrences,
		"users_impacted", issue.UsersImpacted,
	)

	snippets := u.fetchSnippets(ctx, proj, issue)

	triageResult := u.triageSvc.Classify(ctx, issue)
	rootCause := u.triageSvc.Synthesize(ctx, issue, snippets)
	logger.Info("Triage decided",
		"issue_key", key,
		"priority", triageResult.Priority,
		"is_urgent", triageResult.IsUrgent,
		"confidence", rootCause.Confidence,
	)

	record, err := model.NewAnalysisRecord(key, issue)
	if err != nil {
		return nil, err
	}
	record.Sentry = ref
	record.Triage = triageResult
	record.RootCause = rootCause

	// Comment and priority are two independent writes; one failing never
	// stops the other, the statuses record both outcomes.
	comment := jira.FormatComment(issue, triageResult, rootCause, time.Now())
	record.Comment = u.write(ctx, func() error {
		return u.tracker.AddComment(ctx, key, comment)
	})
	record.PriorityUpdate = u.write(ctx, func() error {
		return u.tracker.UpdatePriority(ctx, key, triageResult.Priority)
	})

	if triageResult.IsUrgent && u.notifier != nil {
		if err := u.notifier.NotifyUrgent(ctx, record); err != nil {
			apperr.Handle(ctx, err)
		} else {
			record.Notified = true
		}
	}

	if err := u.repo.PutAnalysis(ctx, record); err != nil {
		// The tracker writes already happened; losing the audit record is
		// not worth failing the run for.
		apperr.Handle(ctx, err)
	}

	logger.Info("Analysis complete",
		"analysis_id", record.ID,
		"issue_key", key,
		"comment", record.Comment.State,
		"priority_update", record.PriorityUpdate.State,
		"notified", record.Notified,
	)

	return record, nil
}

func (u *Analyze) fetchSnippets(ctx context.Context, proj *model.Project, issue *model.Issue) []model.SourceSnippet {
	if u.fetcher == nil || proj == nil {
		return nil
	}

	paths := sentry.ExtractFilePaths(issue.Stacktrace)
	if len(paths) == 0 {
		return nil
	}

	snippets, err := u.fetcher.FetchSnippets(ctx, proj, paths)
	if err != nil {
		apperr.Handle(ctx, err)
		return nil
	}
	return snippets
}

func (u *Analyze) write(ctx context.Context, call func() error) model.WriteStatus {
	err := call()
	if err == nil {
		return model.SuccessStatus()
	}

	apperr.Handle(ctx, err)
	if errors.Is(err, model.ErrNotConfigured) {
		return model.SkippedStatus("tracker is not configured")
	}

	code := 0
	detail := err.Error()
	values := goerr.Values(err)
	if v, ok := values["status_code"].(int); ok {
		code = v
	}
	if v, ok := values["body"].(string); ok {
		detail = v
	}
	return model.ErrorStatus(code, detail)
}

var _ interfaces.Analyze = (*Analyze)(nil) // Compile-time interface check
