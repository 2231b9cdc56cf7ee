package model

import (
	"path/filepath"
	"strings"
)

// SourceSnippet is a fragment of repository source referenced by a stack trace
type SourceSnippet struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"` // Fence tag used when the snippet is embedded in a prompt
}

// LanguageForPath maps a file extension to a code fence language tag.
// Unknown extensions are passed through as-is.
func LanguageForPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "rb":
		return "ruby"
	case "py":
		return "python"
	case "js":
		return "javascript"
	case "ts":
		return "typescript"
	case "java":
		return "java"
	case "go":
		return "go"
	default:
		return ext
	}
}
