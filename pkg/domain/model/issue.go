package model

import (
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// Default values applied to issue fields that are absent from a report
const (
	DefaultIssueKey   = "UNKNOWN"
	DefaultIssueTitle = "Unknown error"
	DefaultCulprit    = "Unknown"
	DefaultPlatform   = "unknown"
	DefaultStatus     = "unknown"
)

// Issue is the canonical form of one upstream error report.
// Construction never fails; fields missing from the source keep the
// defaults set by NewIssue.
type Issue struct {
	Key           string            `json:"key"`            // Report heading identifier (e.g., "BRMS-LOCAL-1Q")
	Title         string            `json:"title"`          // Error description line
	Culprit       string            `json:"culprit"`        // Code location blamed by the upstream source
	Platform      string            `json:"platform"`       // Runtime platform (e.g., "ruby")
	Occurrences   int               `json:"occurrences"`    // Event count
	UsersImpacted int               `json:"users_impacted"` // Distinct affected users
	FirstSeen     string            `json:"first_seen"`
	LastSeen      string            `json:"last_seen"`
	Status        string            `json:"status"`
	ErrorMessage  string            `json:"error_message"`
	Stacktrace    string            `json:"stacktrace"` // Application frames only, capped
	Tags          map[string]string `json:"tags"`
	URL           string            `json:"url"` // Link back to the upstream issue page
}

// NewIssue creates an Issue with every field at its default value
func NewIssue() *Issue {
	return &Issue{
		Key:      DefaultIssueKey,
		Title:    DefaultIssueTitle,
		Culprit:  DefaultCulprit,
		Platform: DefaultPlatform,
		Status:   DefaultStatus,
		Tags:     make(map[string]string),
	}
}

// SentryRef identifies one Sentry issue by organization slug and issue ID
type SentryRef struct {
	Org     types.OrgSlug       `json:"org"`
	IssueID types.SentryIssueID `json:"issue_id"`
	URL     string              `json:"url"`
}
