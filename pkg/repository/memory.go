package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/interfaces"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu       sync.RWMutex
	analyses map[types.AnalysisID]*model.AnalysisRecord
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		analyses: make(map[types.AnalysisID]*model.AnalysisRecord),
	}
}

// PutAnalysis saves an analysis record to memory
func (m *Memory) PutAnalysis(ctx context.Context, record *model.AnalysisRecord) error {
	if record == nil {
		return goerr.New("analysis record is nil")
	}
	if err := record.Validate(); err != nil {
		return goerr.Wrap(err, "invalid analysis record")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.analyses[record.ID] = record
	return nil
}

// GetAnalysis retrieves an analysis record by ID
func (m *Memory) GetAnalysis(ctx context.Context, id types.AnalysisID) (*model.AnalysisRecord, error) {
	if id == "" {
		return nil, goerr.New("analysis ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, exists := m.analyses[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrAnalysisNotFound, "failed to get analysis",
			goerr.V("analysis_id", id))
	}

	// Return a copy to prevent external modification
	recordCopy := *record
	return &recordCopy, nil
}

// ListAnalyses lists analysis records, newest first
func (m *Memory) ListAnalyses(ctx context.Context, limit int) ([]*model.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*model.AnalysisRecord, 0, len(m.analyses))
	for _, record := range m.analyses {
		recordCopy := *record
		records = append(records, &recordCopy)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

// ListAnalysesByIssue lists analysis records for one tracker issue, newest first
func (m *Memory) ListAnalysesByIssue(ctx context.Context, key types.IssueKey) ([]*model.AnalysisRecord, error) {
	if key == "" {
		return nil, goerr.New("issue key is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*model.AnalysisRecord
	for _, record := range m.analyses {
		if record.IssueKey == key {
			recordCopy := *record
			records = append(records, &recordCopy)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}

var _ interfaces.Repository = (*Memory)(nil) // Compile-time interface check
