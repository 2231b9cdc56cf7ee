package types

import (
	"github.com/google/uuid"
)

// AnalysisID represents an analysis record identifier
type AnalysisID string

// String returns the string representation
func (id AnalysisID) String() string {
	return string(id)
}

// NewAnalysisID creates a new AnalysisID
func NewAnalysisID() AnalysisID {
	return AnalysisID(uuid.New().String())
}

// IssueKey represents a Jira issue key (e.g. "OPS-123")
type IssueKey string

// String returns the string representation
func (k IssueKey) String() string {
	return string(k)
}

// OrgSlug represents a Sentry organization slug
type OrgSlug string

// String returns the string representation
func (s OrgSlug) String() string {
	return string(s)
}

// SentryIssueID represents a Sentry issue identifier
type SentryIssueID string

// String returns the string representation
func (id SentryIssueID) String() string {
	return string(id)
}
