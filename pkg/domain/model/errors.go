package model

import "github.com/m-mizutani/goerr/v2"

// ErrTagInvalidRequest marks errors caused by a malformed client request
var ErrTagInvalidRequest = goerr.NewTag("invalid_request")

// Sentinel errors for domain operations
var (
	ErrAnalysisNotFound = goerr.New("analysis not found")
	ErrNoIssueKey       = goerr.New("no issue key in payload")
	ErrNoSentryURL      = goerr.New("no Sentry issue URL found in description")
	ErrNotConfigured    = goerr.New("integration is not configured")
)
