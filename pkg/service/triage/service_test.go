package triage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/secmon-lab/orthos/pkg/service/triage"
)

func mockLLMReplying(t *testing.T, reply string, capture *string) *mock.LLMClientMock {
	t.Helper()
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					gt.Equal(t, len(input), 1)
					text, ok := input[0].(gollem.Text)
					gt.True(t, ok)
					if capture != nil {
						*capture = string(text)
					}
					return &gollem.Response{Texts: []string{reply}}, nil
				},
			}, nil
		},
	}
}

func TestTriageService_Classify_Success(t *testing.T) {
	ctx := context.Background()

	issue := model.NewIssue()
	issue.Title = "NoMethodError: undefined method `id' for nil"
	issue.Occurrences = 42
	issue.UsersImpacted = 7
	issue.Culprit = "SessionsController#show"

	var prompt string
	mockClient := mockLLMReplying(t, `{"priority": "High", "is_urgent": true, "reason": "login flow is broken for active users"}`, &prompt)

	svc := triage.New(mockClient)
	result := svc.Classify(ctx, issue)

	gt.Equal(t, result.Priority, model.PriorityHigh)
	gt.True(t, result.IsUrgent)
	gt.Equal(t, result.Reason, "login flow is broken for active users")

	// The prompt carries the issue fields the decision depends on
	gt.True(t, strings.Contains(prompt, issue.Title))
	gt.True(t, strings.Contains(prompt, "Occurrences: 42"))
	gt.True(t, strings.Contains(prompt, "Users: 7"))
	gt.True(t, strings.Contains(prompt, "SessionsController#show"))
}

func TestTriageService_Classify_SessionError(t *testing.T) {
	ctx := context.Background()

	mockClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return nil, goerr.New("provider unavailable")
		},
	}

	svc := triage.New(mockClient)
	result := svc.Classify(ctx, model.NewIssue())

	gt.Equal(t, result, model.FallbackTriageResult())
}

func TestTriageService_Classify_EmptyResponse(t *testing.T) {
	ctx := context.Background()

	mockClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{}}, nil
				},
			}, nil
		},
	}

	svc := triage.New(mockClient)
	result := svc.Classify(ctx, model.NewIssue())

	gt.Equal(t, result, model.FallbackTriageResult())
}

func TestTriageService_Classify_UnparseableReply(t *testing.T) {
	ctx := context.Background()

	mockClient := mockLLMReplying(t, "I am unable to assess this error.", nil)

	svc := triage.New(mockClient)
	result := svc.Classify(ctx, model.NewIssue())

	gt.Equal(t, result, model.FallbackTriageResult())
}

func TestTriageService_Synthesize_Success(t *testing.T) {
	ctx := context.Background()

	issue := model.NewIssue()
	issue.Title = "ActiveRecord::RecordNotFound"
	issue.Culprit = "PdfsController#show"
	issue.Stacktrace = "from app/controllers/pdfs_controller.rb:12:in `show'"

	snippets := []model.SourceSnippet{
		{Path: "app/controllers/pdfs_controller.rb", Content: "def show\n  @pdf = Pdf.find(params[:id])\nend", Language: "ruby"},
	}

	var prompt string
	reply := `{"root_cause": "lookup uses an ID the client no longer holds", "affected_file": "app/controllers/pdfs_controller.rb:12", "fix_suggestion": "use find_by and render 404 on nil", "confidence": "High"}`
	mockClient := mockLLMReplying(t, reply, &prompt)

	svc := triage.New(mockClient)
	result := svc.Synthesize(ctx, issue, snippets)

	gt.Equal(t, result.RootCause, "lookup uses an ID the client no longer holds")
	gt.Equal(t, result.AffectedFile, "app/controllers/pdfs_controller.rb:12")
	gt.Equal(t, result.Confidence, model.ConfidenceHigh)

	gt.True(t, strings.Contains(prompt, "app/controllers/pdfs_controller.rb"))
	gt.True(t, strings.Contains(prompt, "Pdf.find(params[:id])"))
	gt.True(t, strings.Contains(prompt, "```ruby"))
	gt.True(t, strings.Contains(prompt, issue.Stacktrace))
}

func TestTriageService_Synthesize_SnippetLimit(t *testing.T) {
	ctx := context.Background()

	issue := model.NewIssue()
	snippets := []model.SourceSnippet{
		{Path: "app/models/a.rb", Content: "class A; end", Language: "ruby"},
		{Path: "app/models/b.rb", Content: "class B; end", Language: "ruby"},
		{Path: "app/models/c.rb", Content: "class C; end", Language: "ruby"},
		{Path: "app/models/d.rb", Content: "class D; end", Language: "ruby"},
	}

	var prompt string
	mockClient := mockLLMReplying(t, `{"confidence": "Low"}`, &prompt)

	svc := triage.New(mockClient)
	svc.Synthesize(ctx, issue, snippets)

	gt.True(t, strings.Contains(prompt, "app/models/a.rb"))
	gt.True(t, strings.Contains(prompt, "app/models/c.rb"))
	gt.False(t, strings.Contains(prompt, "app/models/d.rb"))
}

func TestTriageService_Synthesize_NoSnippets(t *testing.T) {
	ctx := context.Background()

	issue := model.NewIssue()
	issue.Title = "TypeError"

	var prompt string
	mockClient := mockLLMReplying(t, `{"root_cause": "x", "confidence": "Low"}`, &prompt)

	svc := triage.New(mockClient)
	result := svc.Synthesize(ctx, issue, nil)

	gt.Equal(t, result.RootCause, "x")
	gt.False(t, strings.Contains(prompt, "Relevant Code"))
}

func TestTriageService_Synthesize_GenerateError(t *testing.T) {
	ctx := context.Background()

	issue := model.NewIssue()
	issue.Culprit = "Api::V2::Sessions::PdfsController#show"

	mockClient := &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return nil, goerr.New("model overloaded")
				},
			}, nil
		},
	}

	svc := triage.New(mockClient)
	result := svc.Synthesize(ctx, issue, nil)

	gt.Equal(t, result, model.FallbackRootCauseResult("Api::V2::Sessions::PdfsController#show"))
}
