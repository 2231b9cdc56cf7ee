package interfaces

import (
	"context"

	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// Analyze defines the interface for the triage pipeline operations
type Analyze interface {
	// ProcessJiraWebhook runs the pipeline for one tracker issue whose
	// description links a Sentry issue
	ProcessJiraWebhook(ctx context.Context, key types.IssueKey, description string) (*model.AnalysisRecord, error)

	// AnalyzeManual runs the pipeline for a manually submitted request
	AnalyzeManual(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalysisRecord, error)

	// GetAnalysis returns one persisted analysis record
	GetAnalysis(ctx context.Context, id types.AnalysisID) (*model.AnalysisRecord, error)

	// ListAnalyses returns persisted analysis records, newest first
	ListAnalyses(ctx context.Context, limit int) ([]*model.AnalysisRecord, error)

	// ListAnalysesByIssue returns the analysis history of one tracker issue
	ListAnalysesByIssue(ctx context.Context, key types.IssueKey) ([]*model.AnalysisRecord, error)
}
