// Package mocks provides test doubles for the collaborator interfaces.
// Each mock exposes one Func field per method and records every call;
// calling a method whose Func field is nil panics so tests fail loudly
// on unexpected calls.
package mocks

import (
	"context"
	"sync"

	"github.com/secmon-lab/orthos/pkg/domain/interfaces"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// ReportSourceMock is a mock implementation of interfaces.ReportSource
type ReportSourceMock struct {
	FetchIssueReportFunc func(ctx context.Context, ref *model.SentryRef) (string, error)

	mu    sync.Mutex
	calls struct {
		FetchIssueReport []struct {
			Ctx context.Context
			Ref *model.SentryRef
		}
	}
}

func (m *ReportSourceMock) FetchIssueReport(ctx context.Context, ref *model.SentryRef) (string, error) {
	if m.FetchIssueReportFunc == nil {
		panic("ReportSourceMock.FetchIssueReportFunc is nil but FetchIssueReport was called")
	}
	m.mu.Lock()
	m.calls.FetchIssueReport = append(m.calls.FetchIssueReport, struct {
		Ctx context.Context
		Ref *model.SentryRef
	}{ctx, ref})
	m.mu.Unlock()
	return m.FetchIssueReportFunc(ctx, ref)
}

// FetchIssueReportCalls returns the recorded calls to FetchIssueReport
func (m *ReportSourceMock) FetchIssueReportCalls() []struct {
	Ctx context.Context
	Ref *model.SentryRef
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.FetchIssueReport
}

var _ interfaces.ReportSource = (*ReportSourceMock)(nil)

// TrackerMock is a mock implementation of interfaces.Tracker
type TrackerMock struct {
	AddCommentFunc          func(ctx context.Context, key types.IssueKey, text string) error
	UpdatePriorityFunc      func(ctx context.Context, key types.IssueKey, priority model.Priority) error
	GetIssueDescriptionFunc func(ctx context.Context, key types.IssueKey) (string, error)

	mu    sync.Mutex
	calls struct {
		AddComment []struct {
			Ctx  context.Context
			Key  types.IssueKey
			Text string
		}
		UpdatePriority []struct {
			Ctx      context.Context
			Key      types.IssueKey
			Priority model.Priority
		}
		GetIssueDescription []struct {
			Ctx context.Context
			Key types.IssueKey
		}
	}
}

func (m *TrackerMock) AddComment(ctx context.Context, key types.IssueKey, text string) error {
	if m.AddCommentFunc == nil {
		panic("TrackerMock.AddCommentFunc is nil but AddComment was called")
	}
	m.mu.Lock()
	m.calls.AddComment = append(m.calls.AddComment, struct {
		Ctx  context.Context
		Key  types.IssueKey
		Text string
	}{ctx, key, text})
	m.mu.Unlock()
	return m.AddCommentFunc(ctx, key, text)
}

// AddCommentCalls returns the recorded calls to AddComment
func (m *TrackerMock) AddCommentCalls() []struct {
	Ctx  context.Context
	Key  types.IssueKey
	Text string
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.AddComment
}

func (m *TrackerMock) UpdatePriority(ctx context.Context, key types.IssueKey, priority model.Priority) error {
	if m.UpdatePriorityFunc == nil {
		panic("TrackerMock.UpdatePriorityFunc is nil but UpdatePriority was called")
	}
	m.mu.Lock()
	m.calls.UpdatePriority = append(m.calls.UpdatePriority, struct {
		Ctx      context.Context
		Key      types.IssueKey
		Priority model.Priority
	}{ctx, key, priority})
	m.mu.Unlock()
	return m.UpdatePriorityFunc(ctx, key, priority)
}

// UpdatePriorityCalls returns the recorded calls to UpdatePriority
func (m *TrackerMock) UpdatePriorityCalls() []struct {
	Ctx      context.Context
	Key      types.IssueKey
	Priority model.Priority
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.UpdatePriority
}

func (m *TrackerMock) GetIssueDescription(ctx context.Context, key types.IssueKey) (string, error) {
	if m.GetIssueDescriptionFunc == nil {
		panic("TrackerMock.GetIssueDescriptionFunc is nil but GetIssueDescription was called")
	}
	m.mu.Lock()
	m.calls.GetIssueDescription = append(m.calls.GetIssueDescription, struct {
		Ctx context.Context
		Key types.IssueKey
	}{ctx, key})
	m.mu.Unlock()
	return m.GetIssueDescriptionFunc(ctx, key)
}

// GetIssueDescriptionCalls returns the recorded calls to GetIssueDescription
func (m *TrackerMock) GetIssueDescriptionCalls() []struct {
	Ctx context.Context
	Key types.IssueKey
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.GetIssueDescription
}

var _ interfaces.Tracker = (*TrackerMock)(nil)

// CodeFetcherMock is a mock implementation of interfaces.CodeFetcher
type CodeFetcherMock struct {
	FetchSnippetsFunc func(ctx context.Context, proj *model.Project, paths []string) ([]model.SourceSnippet, error)

	mu    sync.Mutex
	calls struct {
		FetchSnippets []struct {
			Ctx   context.Context
			Proj  *model.Project
			Paths []string
		}
	}
}

func (m *CodeFetcherMock) FetchSnippets(ctx context.Context, proj *model.Project, paths []string) ([]model.SourceSnippet, error) {
	if m.FetchSnippetsFunc == nil {
		panic("CodeFetcherMock.FetchSnippetsFunc is nil but FetchSnippets was called")
	}
	m.mu.Lock()
	m.calls.FetchSnippets = append(m.calls.FetchSnippets, struct {
		Ctx   context.Context
		Proj  *model.Project
		Paths []string
	}{ctx, proj, paths})
	m.mu.Unlock()
	return m.FetchSnippetsFunc(ctx, proj, paths)
}

// FetchSnippetsCalls returns the recorded calls to FetchSnippets
func (m *CodeFetcherMock) FetchSnippetsCalls() []struct {
	Ctx   context.Context
	Proj  *model.Project
	Paths []string
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.FetchSnippets
}

var _ interfaces.CodeFetcher = (*CodeFetcherMock)(nil)

// NotifierMock is a mock implementation of interfaces.Notifier
type NotifierMock struct {
	NotifyUrgentFunc func(ctx context.Context, record *model.AnalysisRecord) error

	mu    sync.Mutex
	calls struct {
		NotifyUrgent []struct {
			Ctx    context.Context
			Record *model.AnalysisRecord
		}
	}
}

func (m *NotifierMock) NotifyUrgent(ctx context.Context, record *model.AnalysisRecord) error {
	if m.NotifyUrgentFunc == nil {
		panic("NotifierMock.NotifyUrgentFunc is nil but NotifyUrgent was called")
	}
	m.mu.Lock()
	m.calls.NotifyUrgent = append(m.calls.NotifyUrgent, struct {
		Ctx    context.Context
		Record *model.AnalysisRecord
	}{ctx, record})
	m.mu.Unlock()
	return m.NotifyUrgentFunc(ctx, record)
}

// NotifyUrgentCalls returns the recorded calls to NotifyUrgent
func (m *NotifierMock) NotifyUrgentCalls() []struct {
	Ctx    context.Context
	Record *model.AnalysisRecord
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.NotifyUrgent
}

var _ interfaces.Notifier = (*NotifierMock)(nil)
