package triage_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/service/triage"
)

func TestExtractJSONObject(t *testing.T) {
	t.Run("bare object", func(t *testing.T) {
		raw, ok := triage.ExtractJSONObject(`{"priority": "High"}`)
		gt.True(t, ok)
		gt.Equal(t, raw, `{"priority": "High"}`)
	})

	t.Run("object inside a fenced reply", func(t *testing.T) {
		reply := "Here is my assessment:\n```json\n{\"priority\": \"Low\", \"is_urgent\": false}\n```\nHope this helps."
		raw, ok := triage.ExtractJSONObject(reply)
		gt.True(t, ok)
		gt.Equal(t, raw, `{"priority": "Low", "is_urgent": false}`)
	})

	t.Run("nested objects are captured whole", func(t *testing.T) {
		reply := `Result: {"analysis": {"detail": {"depth": 3}}, "is_urgent": true} done`
		raw, ok := triage.ExtractJSONObject(reply)
		gt.True(t, ok)
		gt.Equal(t, raw, `{"analysis": {"detail": {"depth": 3}}, "is_urgent": true}`)
	})

	t.Run("braces inside string values do not close the object", func(t *testing.T) {
		reply := `{"reason": "config uses ${VAR} and a stray }", "priority": "High"}`
		raw, ok := triage.ExtractJSONObject(reply)
		gt.True(t, ok)
		gt.Equal(t, raw, reply)
	})

	t.Run("escaped quote inside string", func(t *testing.T) {
		reply := `{"reason": "user typed \"}\" here"}`
		raw, ok := triage.ExtractJSONObject(reply)
		gt.True(t, ok)
		gt.Equal(t, raw, reply)
	})

	t.Run("no object present", func(t *testing.T) {
		_, ok := triage.ExtractJSONObject("I could not produce structured output")
		gt.False(t, ok)
	})

	t.Run("unbalanced object", func(t *testing.T) {
		_, ok := triage.ExtractJSONObject(`{"priority": "High"`)
		gt.False(t, ok)
	})
}

func TestDecodeTriageReply(t *testing.T) {
	t.Run("complete reply", func(t *testing.T) {
		result := triage.DecodeTriageReply(`{"priority": "High", "is_urgent": true, "reason": "payment flow is broken"}`)
		gt.Equal(t, result.Priority, model.PriorityHigh)
		gt.True(t, result.IsUrgent)
		gt.Equal(t, result.Reason, "payment flow is broken")
	})

	t.Run("reply wrapped in prose", func(t *testing.T) {
		reply := "Based on the stack trace:\n{\"priority\": \"Highest\", \"is_urgent\": true, \"reason\": \"data loss\"}\nEnd of analysis."
		result := triage.DecodeTriageReply(reply)
		gt.Equal(t, result.Priority, model.PriorityHighest)
		gt.True(t, result.IsUrgent)
	})

	t.Run("unknown priority defaults to Medium keeping other fields", func(t *testing.T) {
		result := triage.DecodeTriageReply(`{"priority": "Critical", "is_urgent": true, "reason": "checkout down"}`)
		gt.Equal(t, result.Priority, model.PriorityMedium)
		gt.True(t, result.IsUrgent)
		gt.Equal(t, result.Reason, "checkout down")
	})

	t.Run("missing fields are defaulted independently", func(t *testing.T) {
		result := triage.DecodeTriageReply(`{"priority": "Low"}`)
		gt.Equal(t, result.Priority, model.PriorityLow)
		gt.False(t, result.IsUrgent)
		gt.Equal(t, result.Reason, model.DefaultTriageReason)
	})

	t.Run("mistyped is_urgent is treated as false", func(t *testing.T) {
		result := triage.DecodeTriageReply(`{"priority": "High", "is_urgent": "yes", "reason": "r"}`)
		gt.Equal(t, result.Priority, model.PriorityHigh)
		gt.False(t, result.IsUrgent)
	})

	t.Run("unparseable reply falls back whole", func(t *testing.T) {
		result := triage.DecodeTriageReply("the model refused to answer")
		gt.Equal(t, result, model.FallbackTriageResult())
	})

	t.Run("malformed json falls back whole", func(t *testing.T) {
		result := triage.DecodeTriageReply(`{"priority": High}`)
		gt.Equal(t, result, model.FallbackTriageResult())
	})
}

func TestDecodeRootCauseReply(t *testing.T) {
	t.Run("complete reply", func(t *testing.T) {
		reply := `{"root_cause": "nil dereference on missing session", "affected_file": "app/controllers/sessions_controller.rb", "fix_suggestion": "guard against expired sessions", "confidence": "High"}`
		result := triage.DecodeRootCauseReply(reply, "SessionsController#show")
		gt.Equal(t, result.RootCause, "nil dereference on missing session")
		gt.Equal(t, result.AffectedFile, "app/controllers/sessions_controller.rb")
		gt.Equal(t, result.FixSuggestion, "guard against expired sessions")
		gt.Equal(t, result.Confidence, model.ConfidenceHigh)
	})

	t.Run("missing fields use per-field defaults", func(t *testing.T) {
		result := triage.DecodeRootCauseReply(`{"confidence": "Medium"}`, "PaymentsController#create")
		gt.Equal(t, result.RootCause, model.DefaultRootCause)
		gt.Equal(t, result.AffectedFile, model.DefaultAffectedFile)
		gt.Equal(t, result.FixSuggestion, model.DefaultFixSuggestion)
		gt.Equal(t, result.Confidence, model.ConfidenceMedium)
	})

	t.Run("unknown confidence defaults to Low", func(t *testing.T) {
		result := triage.DecodeRootCauseReply(`{"root_cause": "x", "confidence": "Absolutely"}`, "c")
		gt.Equal(t, result.Confidence, model.ConfidenceLow)
	})

	t.Run("unparseable reply falls back to the culprit", func(t *testing.T) {
		result := triage.DecodeRootCauseReply("no idea", "Api::V2::Sessions::PdfsController#show")
		gt.Equal(t, result, model.FallbackRootCauseResult("Api::V2::Sessions::PdfsController#show"))
		gt.Equal(t, result.AffectedFile, "Api::V2::Sessions::PdfsController#show")
	})
}
