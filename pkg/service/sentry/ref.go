package sentry

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/domain/types"
)

// Matches both numeric issue IDs (82134814) and short codes (BRMS-LOCAL-1Q)
var reSentryURL = regexp.MustCompile(`https://([\w-]+)\.sentry\.io/issues/([\w-]+)`)

// ExtractSentryRef finds the first Sentry issue URL in an issue description.
// A description without a Sentry link is a hard failure for the pipeline.
func ExtractSentryRef(description string) (*model.SentryRef, error) {
	m := reSentryURL.FindStringSubmatch(description)
	if m == nil {
		return nil, goerr.Wrap(model.ErrNoSentryURL, "description has no Sentry issue link")
	}

	return &model.SentryRef{
		Org:     types.OrgSlug(m[1]),
		IssueID: types.SentryIssueID(m[2]),
		URL:     m[0],
	}, nil
}
