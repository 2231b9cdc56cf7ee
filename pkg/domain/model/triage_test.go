package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/orthos/pkg/domain/model"
)

func TestParsePriority(t *testing.T) {
	t.Run("exact labels", func(t *testing.T) {
		gt.Equal(t, model.ParsePriority("Highest"), model.PriorityHighest)
		gt.Equal(t, model.ParsePriority("High"), model.PriorityHigh)
		gt.Equal(t, model.ParsePriority("Medium"), model.PriorityMedium)
		gt.Equal(t, model.ParsePriority("Low"), model.PriorityLow)
	})

	t.Run("case and whitespace are ignored", func(t *testing.T) {
		gt.Equal(t, model.ParsePriority("  highest "), model.PriorityHighest)
		gt.Equal(t, model.ParsePriority("HIGH"), model.PriorityHigh)
	})

	t.Run("unrecognized label falls back to Medium", func(t *testing.T) {
		gt.Equal(t, model.ParsePriority("Critical"), model.PriorityMedium)
		gt.Equal(t, model.ParsePriority(""), model.PriorityMedium)
	})
}

func TestPriorityEmoji(t *testing.T) {
	t.Run("each level has its own marker", func(t *testing.T) {
		gt.Equal(t, model.PriorityHighest.Emoji(), "🔴")
		gt.Equal(t, model.PriorityHigh.Emoji(), "🟠")
		gt.Equal(t, model.PriorityMedium.Emoji(), "🟡")
		gt.Equal(t, model.PriorityLow.Emoji(), "🟢")
	})

	t.Run("unknown value gets neutral marker", func(t *testing.T) {
		gt.Equal(t, model.Priority("Blocker").Emoji(), "⚪")
	})
}

func TestPriorityIsValid(t *testing.T) {
	t.Run("known levels are valid", func(t *testing.T) {
		gt.True(t, model.PriorityHighest.IsValid())
		gt.True(t, model.PriorityLow.IsValid())
	})

	t.Run("empty and unknown are invalid", func(t *testing.T) {
		gt.False(t, model.Priority("").IsValid())
		gt.False(t, model.Priority("medium").IsValid())
	})
}

func TestFallbackTriageResult(t *testing.T) {
	result := model.FallbackTriageResult()
	gt.Equal(t, result.Priority, model.PriorityMedium)
	gt.False(t, result.IsUrgent)
	gt.Equal(t, result.Reason, "Auto-assigned: unable to parse triage response")
}

func TestParseConfidence(t *testing.T) {
	t.Run("exact labels", func(t *testing.T) {
		gt.Equal(t, model.ParseConfidence("High"), model.ConfidenceHigh)
		gt.Equal(t, model.ParseConfidence("medium"), model.ConfidenceMedium)
		gt.Equal(t, model.ParseConfidence("Low"), model.ConfidenceLow)
	})

	t.Run("unrecognized label falls back to Low", func(t *testing.T) {
		gt.Equal(t, model.ParseConfidence("certain"), model.ConfidenceLow)
		gt.Equal(t, model.ParseConfidence(""), model.ConfidenceLow)
	})
}

func TestFallbackRootCauseResult(t *testing.T) {
	result := model.FallbackRootCauseResult("app/models/payment.rb")
	gt.Equal(t, result.RootCause, "Unable to determine root cause automatically")
	gt.Equal(t, result.AffectedFile, "app/models/payment.rb")
	gt.Equal(t, result.FixSuggestion, "Manual review required")
	gt.Equal(t, result.Confidence, model.ConfidenceLow)
}

func TestLanguageForPath(t *testing.T) {
	t.Run("known extensions map to language names", func(t *testing.T) {
		gt.Equal(t, model.LanguageForPath("app/models/user.rb"), "ruby")
		gt.Equal(t, model.LanguageForPath("src/main.py"), "python")
		gt.Equal(t, model.LanguageForPath("lib/util.ts"), "typescript")
		gt.Equal(t, model.LanguageForPath("cmd/serve.go"), "go")
	})

	t.Run("unknown extension passes through", func(t *testing.T) {
		gt.Equal(t, model.LanguageForPath("config/app.toml"), "toml")
	})

	t.Run("no extension yields empty string", func(t *testing.T) {
		gt.Equal(t, model.LanguageForPath("Makefile"), "")
	})
}
