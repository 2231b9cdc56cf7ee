package model

import (
	"strings"
)

// Priority represents a Jira priority name
type Priority string

const (
	PriorityHighest Priority = "Highest"
	PriorityHigh    Priority = "High"
	PriorityMedium  Priority = "Medium"
	PriorityLow     Priority = "Low"
)

// String returns the string representation
func (p Priority) String() string {
	return string(p)
}

// IsValid checks if the priority is one of the known levels
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Emoji returns the marker used in formatted comments
func (p Priority) Emoji() string {
	switch p {
	case PriorityHighest:
		return "🔴"
	case PriorityHigh:
		return "🟠"
	case PriorityMedium:
		return "🟡"
	case PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// Color returns the attachment color used for notifications
func (p Priority) Color() string {
	switch p {
	case PriorityHighest:
		return "#E01E5A"
	case PriorityHigh:
		return "#E8912D"
	case PriorityMedium:
		return "#ECB22E"
	case PriorityLow:
		return "#2EB67D"
	default:
		return "#CCCCCC"
	}
}

// ParsePriority normalizes a free-form priority label.
// Unrecognized input falls back to Medium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "highest":
		return PriorityHighest
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// DefaultTriageReason is used when a reply omits the reason field
const DefaultTriageReason = "Unable to determine"

// TriageResult is the severity decision for one issue
type TriageResult struct {
	Priority Priority `json:"priority"`
	IsUrgent bool     `json:"is_urgent"`
	Reason   string   `json:"reason"`
}

// FallbackTriageResult returns the decision recorded when a model reply
// cannot be parsed at all
func FallbackTriageResult() *TriageResult {
	return &TriageResult{
		Priority: PriorityMedium,
		IsUrgent: false,
		Reason:   "Auto-assigned: unable to parse triage response",
	}
}
