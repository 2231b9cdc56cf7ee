package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

const defaultListLimit = 20

// GetAnalysis returns one persisted analysis record
func (u *Analyze) GetAnalysis(ctx context.Context, id types.AnalysisID) (*model.AnalysisRecord, error) {
	if id == "" {
		return nil, goerr.New("analysis ID is required")
	}
	return u.repo.GetAnalysis(ctx, id)
}

// ListAnalyses returns persisted analysis records, newest first
func (u *Analyze) ListAnalyses(ctx context.Context, limit int) ([]*model.AnalysisRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return u.repo.ListAnalyses(ctx, limit)
}

// ListAnalysesByIssue returns the analysis history of one tracker issue
func (u *Analyze) ListAnalysesByIssue(ctx context.Context, key types.IssueKey) ([]*model.AnalysisRecord, error) {
	if key == "" {
		return nil, goerr.Wrap(model.ErrNoIssueKey, "cannot list analyses without an issue key")
	}
	return u.repo.ListAnalysesByIssue(ctx, key)
}
