package model

import (
	"strings"
)

// Confidence represents how certain a root-cause analysis is
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// String returns the string representation
func (c Confidence) String() string {
	return string(c)
}

// ParseConfidence normalizes a free-form confidence label.
// Unrecognized input falls back to Low.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	case "low":
		return ConfidenceLow
	default:
		return ConfidenceLow
	}
}

// Field defaults applied when a reply omits individual analysis fields
const (
	DefaultRootCause     = "Unable to determine"
	DefaultAffectedFile  = "unknown"
	DefaultFixSuggestion = "Review stack trace manually"
)

// RootCauseResult is the diagnosis produced for one issue
type RootCauseResult struct {
	RootCause     string     `json:"root_cause"`
	AffectedFile  string     `json:"affected_file"`
	FixSuggestion string     `json:"fix_suggestion"`
	Confidence    Confidence `json:"confidence"`
}

// FallbackRootCauseResult returns the diagnosis recorded when a model reply
// cannot be parsed at all. The culprit stands in for the affected file.
func FallbackRootCauseResult(culprit string) *RootCauseResult {
	return &RootCauseResult{
		RootCause:     "Unable to determine root cause automatically",
		AffectedFile:  culprit,
		FixSuggestion: "Manual review required",
		Confidence:    ConfidenceLow,
	}
}
