package triage

import (
	"encoding/json"
	"strings"

	"github.com/secmon-lab/orthos/pkg/domain/model"
)

// ExtractJSONObject returns the first balanced JSON object substring in s.
// The scan is string-aware so braces inside quoted values do not affect
// nesting depth. Returns false when no balanced object exists.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// DecodeTriageReply turns a free-form model reply into a triage result.
// Never fails: an undecodable reply yields the whole-result fallback, and a
// decodable reply with missing or mistyped fields has each field defaulted
// independently.
func DecodeTriageReply(reply string) *model.TriageResult {
	data, ok := decodeObject(reply)
	if !ok {
		return model.FallbackTriageResult()
	}

	result := &model.TriageResult{
		Priority: model.ParsePriority(stringField(data, "priority")),
		IsUrgent: boolField(data, "is_urgent"),
		Reason:   model.DefaultTriageReason,
	}
	if reason := stringField(data, "reason"); reason != "" {
		result.Reason = reason
	}

	return result
}

// DecodeRootCauseReply turns a free-form model reply into a root-cause
// result. Never fails; the culprit stands in for the affected file when the
// reply cannot be decoded at all.
func DecodeRootCauseReply(reply, culprit string) *model.RootCauseResult {
	data, ok := decodeObject(reply)
	if !ok {
		return model.FallbackRootCauseResult(culprit)
	}

	result := &model.RootCauseResult{
		RootCause:     model.DefaultRootCause,
		AffectedFile:  model.DefaultAffectedFile,
		FixSuggestion: model.DefaultFixSuggestion,
		Confidence:    model.ParseConfidence(stringField(data, "confidence")),
	}
	if v := stringField(data, "root_cause"); v != "" {
		result.RootCause = v
	}
	if v := stringField(data, "affected_file"); v != "" {
		result.AffectedFile = v
	}
	if v := stringField(data, "fix_suggestion"); v != "" {
		result.FixSuggestion = v
	}

	return result
}

func decodeObject(reply string) (map[string]any, bool) {
	raw, ok := ExtractJSONObject(reply)
	if !ok {
		return nil, false
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false
	}
	return data, true
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func boolField(data map[string]any, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}
