package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
	"github.com/secmon-lab/orthos/pkg/service/sentry"
)

// ProcessJiraWebhook runs the pipeline for a tracker issue created from a
// Sentry alert. The description must link the Sentry issue; a missing link
// is a hard failure because there is nothing to analyze.
func (u *Analyze) ProcessJiraWebhook(ctx context.Context, key types.IssueKey, description string) (*model.AnalysisRecord, error) {
	if key == "" {
		return nil, goerr.Wrap(model.ErrNoIssueKey, "webhook payload has no issue key")
	}

	ref, err := sentry.ExtractSentryRef(description)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot start analysis", goerr.V("issue_key", key))
	}

	ctxlog.From(ctx).Info("Processing tracker webhook",
		"issue_key", key,
		"org", ref.Org,
		"sentry_issue_id", ref.IssueID,
	)

	report, err := u.fetchReport(ctx, ref)
	if err != nil {
		return nil, err
	}

	return u.ProcessReport(ctx, key, report, ref)
}

// AnalyzeManual runs the pipeline for a manual request. The report comes
// from the request itself, from the Sentry API, or from the Sentry link in
// the tracker issue, in that order of preference.
func (u *Analyze) AnalyzeManual(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalysisRecord, error) {
	if req == nil {
		return nil, goerr.New("analyze request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Report != "" {
		return u.ProcessReport(ctx, req.IssueKey, req.Report, nil)
	}

	if req.Org != "" {
		ref := &model.SentryRef{
			Org:     req.Org,
			IssueID: req.IssueID,
			URL:     fmt.Sprintf("https://%s.sentry.io/issues/%s", req.Org, req.IssueID),
		}
		report, err := u.fetchReport(ctx, ref)
		if err != nil {
			return nil, err
		}
		return u.ProcessReport(ctx, req.IssueKey, report, ref)
	}

	description, err := u.tracker.GetIssueDescription(ctx, req.IssueKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read tracker issue",
			goerr.V("issue_key", req.IssueKey))
	}

	return u.ProcessJiraWebhook(ctx, req.IssueKey, description)
}

func (u *Analyze) fetchReport(ctx context.Context, ref *model.SentryRef) (string, error) {
	if u.source == nil {
		return "", goerr.Wrap(model.ErrNotConfigured, "no report source is configured")
	}
	return u.source.FetchIssueReport(ctx, ref)
}
