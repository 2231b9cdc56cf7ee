package sentry

import (
	"regexp"
	"strings"
)

// DefaultAppPaths are the path fragments that mark application frames
var DefaultAppPaths = []string{"app/", "src/", "lib/"}

const (
	maxStackLines     = 15
	maxExtractedPaths = 5
)

var reFilePath = regexp.MustCompile(`(?:app|src|lib)/[\w/]+\.\w+`)

// FilterStacktrace reduces a raw stack block to at most maxStackLines
// application frames, preserving their order. When no line matches an
// application path, the first maxStackLines raw lines are kept instead so
// the analysis still sees framework-level context.
func FilterStacktrace(block string, appPaths []string) string {
	if len(appPaths) == 0 {
		appPaths = DefaultAppPaths
	}

	// Trim only the surrounding newlines so frame indentation survives
	lines := strings.Split(strings.Trim(block, "\n"), "\n")

	appLines := make([]string, 0, len(lines))
	for _, line := range lines {
		if containsAny(line, appPaths) {
			appLines = append(appLines, line)
			if len(appLines) >= maxStackLines {
				break
			}
		}
	}

	if len(appLines) > 0 {
		return strings.Join(appLines, "\n")
	}
	if len(lines) > maxStackLines {
		lines = lines[:maxStackLines]
	}
	return strings.Join(lines, "\n")
}

// ExtractFilePaths returns up to maxExtractedPaths distinct repository paths
// referenced by a stack trace, in order of first appearance
func ExtractFilePaths(stacktrace string) []string {
	matches := reFilePath.FindAllString(stacktrace, -1)

	seen := make(map[string]bool, len(matches))
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		paths = append(paths, m)
		if len(paths) >= maxExtractedPaths {
			break
		}
	}

	return paths
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
