package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/orthos/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Service posts analysis notifications to a Slack channel.
// Notification is optional: an unconfigured service skips every post
// without error so the pipeline result never depends on it.
type Service struct {
	client    *slack.Client
	channelID string
}

// New creates a Slack notification service. An empty token or channel
// leaves the service unconfigured.
func New(token, channelID string) *Service {
	s := &Service{channelID: channelID}
	if token != "" {
		s.client = slack.New(token)
	}
	return s
}

// IsConfigured returns true when both a token and a channel are set
func (s *Service) IsConfigured() bool {
	return s != nil && s.client != nil && s.channelID != ""
}

// NotifyUrgent posts one message for an analysis marked urgent
func (s *Service) NotifyUrgent(ctx context.Context, record *model.AnalysisRecord) error {
	if !s.IsConfigured() {
		ctxlog.From(ctx).Debug("Slack is not configured, skipping urgent notification",
			"issue_key", record.IssueKey)
		return nil
	}

	_, _, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(fmt.Sprintf("🚨 Urgent production error: %s", record.IssueKey), false),
		slack.MsgOptionAttachments(BuildUrgentAttachment(record)),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post urgent notification",
			goerr.V("channel_id", s.channelID),
			goerr.V("issue_key", record.IssueKey))
	}

	return nil
}

// BuildUrgentAttachment renders an analysis record as a message attachment.
// The bar color tracks the assigned priority.
func BuildUrgentAttachment(record *model.AnalysisRecord) slack.Attachment {
	attachment := slack.Attachment{
		Color: record.Triage.Priority.Color(),
		Title: fmt.Sprintf("%s %s", record.Triage.Priority.Emoji(), record.Issue.Title),
		Fields: []slack.AttachmentField{
			{
				Title: "Priority",
				Value: fmt.Sprintf("%s | %s", record.Triage.Priority, record.Triage.Reason),
			},
			{
				Title: "Root Cause",
				Value: record.RootCause.RootCause,
			},
			{
				Title: "Impact",
				Value: fmt.Sprintf("%d events | %d users", record.Issue.Occurrences, record.Issue.UsersImpacted),
				Short: true,
			},
			{
				Title: "Confidence",
				Value: record.RootCause.Confidence.String(),
				Short: true,
			},
		},
		Footer: string(record.IssueKey),
	}

	if record.Issue.URL != "" {
		attachment.TitleLink = record.Issue.URL
	}

	return attachment
}
