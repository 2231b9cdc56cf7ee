package triage

import (
	"bytes"
	"context"
	"embed"
	"path"
	"text/template"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/orthos/pkg/domain/model"
)

//go:embed templates/*.md
var templateFS embed.FS

const (
	// One model call per decision, no retries. The timeout bounds a stuck
	// provider rather than normal latency.
	llmCallTimeout = 60 * time.Second

	maxPromptSnippets = 3
)

// Service runs severity classification and root-cause synthesis through an
// LLM client. Model failures never stop the pipeline: each method degrades
// to its interpreter fallback and records the failure in the log.
type Service struct {
	llmClient gollem.LLMClient
}

// New creates a new triage Service instance
func New(llmClient gollem.LLMClient) *Service {
	return &Service{
		llmClient: llmClient,
	}
}

type triagePromptData struct {
	Issue *model.Issue
}

type rootCausePromptData struct {
	Issue    *model.Issue
	Snippets []model.SourceSnippet
}

// Classify asks the model for a severity decision on the issue
func (s *Service) Classify(ctx context.Context, issue *model.Issue) *model.TriageResult {
	reply, err := s.generate(ctx, "templates/triage.md", triagePromptData{Issue: issue})
	if err != nil {
		ctxlog.From(ctx).Warn("Triage call failed, using fallback",
			"error", err,
			"issue_key", issue.Key,
		)
		return model.FallbackTriageResult()
	}

	return DecodeTriageReply(reply)
}

// Synthesize asks the model for a root-cause diagnosis, optionally informed
// by source snippets from the repository. At most three snippets go into
// the prompt.
func (s *Service) Synthesize(ctx context.Context, issue *model.Issue, snippets []model.SourceSnippet) *model.RootCauseResult {
	if len(snippets) > maxPromptSnippets {
		snippets = snippets[:maxPromptSnippets]
	}

	reply, err := s.generate(ctx, "templates/rootcause.md", rootCausePromptData{
		Issue:    issue,
		Snippets: snippets,
	})
	if err != nil {
		ctxlog.From(ctx).Warn("Root cause call failed, using fallback",
			"error", err,
			"issue_key", issue.Key,
		)
		return model.FallbackRootCauseResult(issue.Culprit)
	}

	return DecodeRootCauseReply(reply, issue.Culprit)
}

// generate renders a prompt template and runs one model call
func (s *Service) generate(ctx context.Context, templateName string, data any) (string, error) {
	prompt, err := renderTemplate(templateName, data)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, llmCallTimeout)
	defer cancel()

	session, err := s.llmClient.NewSession(ctx, gollem.WithSessionContentType(gollem.ContentTypeJSON))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate LLM response")
	}

	if len(response.Texts) == 0 || response.Texts[0] == "" {
		return "", goerr.New("empty response from LLM")
	}

	return response.Texts[0], nil
}

func renderTemplate(name string, data any) (string, error) {
	content, err := templateFS.ReadFile(name)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read prompt template",
			goerr.V("template", name))
	}

	tmpl, err := template.New(path.Base(name)).Parse(string(content))
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse prompt template",
			goerr.V("template", name))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute prompt template",
			goerr.V("template", name))
	}

	return buf.String(), nil
}
