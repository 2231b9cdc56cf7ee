package interfaces

import (
	"context"

	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// Repository defines the interface for analysis record persistence
type Repository interface {
	// Analysis record operations
	PutAnalysis(ctx context.Context, record *model.AnalysisRecord) error
	GetAnalysis(ctx context.Context, id types.AnalysisID) (*model.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, limit int) ([]*model.AnalysisRecord, error)
	ListAnalysesByIssue(ctx context.Context, key types.IssueKey) ([]*model.AnalysisRecord, error)

	// Close closes the repository connection
	Close() error
}
