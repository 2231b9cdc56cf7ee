package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// Write states recorded for each tracker call
const (
	WriteSuccess = "success"
	WriteError   = "error"
	WriteSkipped = "skipped"
)

// WriteStatus records the outcome of one external write call
type WriteStatus struct {
	State  string `json:"status"`
	Code   int    `json:"code,omitempty"`   // HTTP status code on error
	Detail string `json:"detail,omitempty"` // Response body excerpt or skip reason
}

// SuccessStatus returns a successful write outcome
func SuccessStatus() WriteStatus {
	return WriteStatus{State: WriteSuccess}
}

// ErrorStatus returns a failed write outcome
func ErrorStatus(code int, detail string) WriteStatus {
	return WriteStatus{State: WriteError, Code: code, Detail: detail}
}

// SkippedStatus returns a write outcome for a call that was not attempted
func SkippedStatus(reason string) WriteStatus {
	return WriteStatus{State: WriteSkipped, Detail: reason}
}

// OK returns true if the write completed successfully
func (s WriteStatus) OK() bool {
	return s.State == WriteSuccess
}

// AnalysisRecord is the persisted audit trail of one pipeline run
type AnalysisRecord struct {
	ID             types.AnalysisID `json:"id"`
	IssueKey       types.IssueKey   `json:"issue_key"`
	Sentry         *SentryRef       `json:"sentry,omitempty"`
	Issue          *Issue           `json:"issue"`
	Triage         *TriageResult    `json:"triage"`
	RootCause      *RootCauseResult `json:"root_cause"`
	Comment        WriteStatus      `json:"comment"`
	PriorityUpdate WriteStatus      `json:"priority_update"`
	Notified       bool             `json:"notified"` // Urgent notification delivered
	CreatedAt      time.Time        `json:"created_at"`
}

// AnalyzeRequest is a manual analysis invocation. Exactly one source is
// used: a raw pasted report, an org/issue-id pair for an API fetch, or
// neither to read the Sentry link from the tracker issue itself.
type AnalyzeRequest struct {
	IssueKey types.IssueKey      `json:"issue_key"`
	Report   string              `json:"report,omitempty"`
	Org      types.OrgSlug       `json:"org,omitempty"`
	IssueID  types.SentryIssueID `json:"issue_id,omitempty"`
}

// Validate validates the analyze request
func (r *AnalyzeRequest) Validate() error {
	if r.IssueKey == "" {
		return goerr.Wrap(ErrNoIssueKey, "analyze request requires an issue key")
	}
	if (r.Org == "") != (r.IssueID == "") {
		return goerr.New("org and issue_id must be provided together",
			goerr.T(ErrTagInvalidRequest),
			goerr.V("org", r.Org),
			goerr.V("issue_id", r.IssueID))
	}
	return nil
}

// NewAnalysisRecord creates an analysis record for a pipeline run
func NewAnalysisRecord(key types.IssueKey, issue *Issue) (*AnalysisRecord, error) {
	if key == "" {
		return nil, goerr.New("issue key is required")
	}
	if issue == nil {
		return nil, goerr.New("issue is required")
	}

	return &AnalysisRecord{
		ID:        types.NewAnalysisID(),
		IssueKey:  key,
		Issue:     issue,
		CreatedAt: time.Now(),
	}, nil
}

// Validate validates the analysis record
func (r *AnalysisRecord) Validate() error {
	if r.ID == "" {
		return goerr.New("analysis ID is required")
	}
	if r.IssueKey == "" {
		return goerr.New("issue key is required")
	}
	return nil
}
