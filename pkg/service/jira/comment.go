package jira

import (
	"fmt"
	"strings"
	"time"

	"github.com/secmon-lab/orthos/pkg/domain/model"
)

const analyzedAtFormat = "2006-01-02 15:04"

// FormatComment renders the triage decision and root-cause diagnosis as the
// fixed comment layout posted back to the tracker. The layout is designed
// to be scannable in a few seconds: verdict first, diagnosis second, stats
// and links at the bottom.
func FormatComment(issue *model.Issue, triage *model.TriageResult, rootCause *model.RootCauseResult, analyzedAt time.Time) string {
	urgentFlag := ""
	if triage.IsUrgent {
		urgentFlag = "🚨 URGENT"
	}

	return fmt.Sprintf(`🤖 Sentry Auto-Analysis %s

%s Priority: %s | %s

📍 Root Cause: %s
📁 File: %s
🔧 Fix: %s
📊 Confidence: %s

%s
📈 Stats: %d events | %d users
🔗 Sentry: %s
⏰ Analyzed: %s
`,
		urgentFlag,
		triage.Priority.Emoji(), triage.Priority, triage.Reason,
		rootCause.RootCause,
		rootCause.AffectedFile,
		rootCause.FixSuggestion,
		rootCause.Confidence,
		strings.Repeat("━", 20),
		issue.Occurrences, issue.UsersImpacted,
		issue.URL,
		analyzedAt.Format(analyzedAtFormat),
	)
}
