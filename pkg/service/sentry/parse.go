package sentry

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/secmon-lab/orthos/pkg/domain/model"
)

// Field patterns for markdown issue reports. Each field is scraped
// independently so one malformed section cannot poison the others.
// Lazy quantifiers keep the fenced-block matches from running past
// their closing fence.
var (
	reIssueKey    = regexp.MustCompile(`# Issue ([A-Z0-9-]+)`)
	reTitle       = regexp.MustCompile(`\*\*Description\*\*: (.+)`)
	reCulprit     = regexp.MustCompile(`\*\*Culprit\*\*: (.+)`)
	rePlatform    = regexp.MustCompile(`\*\*Platform\*\*: (.+)`)
	reOccurrences = regexp.MustCompile(`\*\*Occurrences\*\*: (\d+)`)
	reUsers       = regexp.MustCompile(`\*\*Users Impacted\*\*: (\d+)`)
	reFirstSeen   = regexp.MustCompile(`\*\*First Seen\*\*: (.+)`)
	reLastSeen    = regexp.MustCompile(`\*\*Last Seen\*\*: (.+)`)
	reStatus      = regexp.MustCompile(`\*\*Status\*\*: (.+)`)
	reURL         = regexp.MustCompile(`\*\*URL\*\*: (https://\S+)`)
	reErrorBlock  = regexp.MustCompile("(?s)### Error\n+```\n(.+?)\n```")
	reStackBlock  = regexp.MustCompile("(?s)\\*\\*Full Stacktrace:\\*\\*\n.*?```\n(.+?)```")
)

var tagPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{"environment", regexp.MustCompile(`\*\*environment\*\*: (.+)`)},
	{"platform", regexp.MustCompile(`\*\*platform\*\*: (.+)`)},
	{"transaction", regexp.MustCompile(`\*\*transaction\*\*: (.+)`)},
}

// NormalizeReport converts a raw error report into an Issue. The upstream
// source returns either a markdown-formatted report or a JSON API payload;
// both normalize to the same record. Never fails: unrecognized input yields
// an Issue with every field at its default.
func NormalizeReport(raw string) *model.Issue {
	return NormalizeReportWithPaths(raw, nil)
}

// NormalizeReportWithPaths is NormalizeReport with custom application path
// fragments for stack filtering. Nil appPaths means DefaultAppPaths.
func NormalizeReportWithPaths(raw string, appPaths []string) *model.Issue {
	if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		if issue := parseIssueJSON(raw); issue != nil {
			return issue
		}
	}
	return parseMarkdownReport(raw, appPaths)
}

// ParseIssueReport scrapes a markdown error report into an Issue
func ParseIssueReport(text string) *model.Issue {
	return parseMarkdownReport(text, nil)
}

func parseMarkdownReport(text string, appPaths []string) *model.Issue {
	issue := model.NewIssue()

	issue.Key = matchString(reIssueKey, text, issue.Key)
	issue.Title = matchString(reTitle, text, issue.Title)
	issue.Culprit = matchString(reCulprit, text, issue.Culprit)
	issue.Platform = matchString(rePlatform, text, issue.Platform)
	issue.Occurrences = matchInt(reOccurrences, text)
	issue.UsersImpacted = matchInt(reUsers, text)
	issue.FirstSeen = matchString(reFirstSeen, text, "")
	issue.LastSeen = matchString(reLastSeen, text, "")
	issue.Status = matchString(reStatus, text, issue.Status)
	issue.URL = matchString(reURL, text, "")

	if m := reErrorBlock.FindStringSubmatch(text); m != nil {
		issue.ErrorMessage = strings.TrimSpace(m[1])
	}
	if m := reStackBlock.FindStringSubmatch(text); m != nil {
		issue.Stacktrace = FilterStacktrace(m[1], appPaths)
	}

	for _, tp := range tagPatterns {
		if m := tp.re.FindStringSubmatch(text); m != nil {
			issue.Tags[tp.key] = m[1]
		}
	}

	return issue
}

// sentryIssueAPI is the subset of the issue API payload the pipeline uses.
// Count arrives as a stringified integer; json.Number tolerates both forms.
type sentryIssueAPI struct {
	ShortID   string      `json:"shortId"`
	Title     string      `json:"title"`
	Culprit   string      `json:"culprit"`
	Platform  string      `json:"platform"`
	Count     json.Number `json:"count"`
	UserCount int         `json:"userCount"`
	FirstSeen string      `json:"firstSeen"`
	LastSeen  string      `json:"lastSeen"`
	Status    string      `json:"status"`
	Permalink string      `json:"permalink"`
	Metadata  struct {
		Value string `json:"value"`
	} `json:"metadata"`
}

// parseIssueJSON maps an issue API payload to an Issue. Returns nil when the
// payload does not decode, letting the caller fall back to markdown parsing.
func parseIssueJSON(raw string) *model.Issue {
	var resp sentryIssueAPI
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil
	}

	issue := model.NewIssue()
	if resp.ShortID != "" {
		issue.Key = resp.ShortID
	}
	if resp.Title != "" {
		issue.Title = resp.Title
	}
	if resp.Culprit != "" {
		issue.Culprit = resp.Culprit
	}
	if resp.Platform != "" {
		issue.Platform = resp.Platform
	}
	if n, err := resp.Count.Int64(); err == nil {
		issue.Occurrences = int(n)
	}
	issue.UsersImpacted = resp.UserCount
	issue.FirstSeen = resp.FirstSeen
	issue.LastSeen = resp.LastSeen
	if resp.Status != "" {
		issue.Status = resp.Status
	}
	issue.URL = resp.Permalink
	if resp.Metadata.Value != "" {
		issue.ErrorMessage = resp.Metadata.Value
	}

	return issue
}

func matchString(re *regexp.Regexp, text, fallback string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return fallback
}

func matchInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
