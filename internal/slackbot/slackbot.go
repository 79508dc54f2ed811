// Package slackbot turns Slack channel messages into pipeline runs and
// formats the results back into thread replies.
package slackbot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/slack"
)

// Envelope is the outer Slack Events API payload. URL verification
// arrives with type "url_verification" and a challenge to echo back.
type Envelope struct {
	Type      string        `json:"type"`
	Challenge string        `json:"challenge,omitempty"`
	Event     *MessageEvent `json:"event,omitempty"`
}

// IsChallenge reports whether the envelope is a URL-verification
// handshake rather than an event callback.
func (e *Envelope) IsChallenge() bool {
	return e.Type == "url_verification"
}

// MessageEvent is the inner message event.
type MessageEvent struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype,omitempty"`
	Text     string `json:"text"`
	User     string `json:"user"`
	BotID    string `json:"bot_id,omitempty"`
	Channel  string `json:"channel"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

// ParseEvent decodes an Events API request body.
func ParseEvent(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "slackbot: parse event")
	}
	return &env, nil
}

// Runner processes a single lead. *pipeline.Pipeline satisfies it.
type Runner interface {
	Process(ctx context.Context, lead *model.Lead) *model.PipelineResult
}

// DuplicateChecker answers whether a lead is already in the vector
// store. *pipeline.Pipeline satisfies it.
type DuplicateChecker interface {
	CheckDuplicate(ctx context.Context, lead *model.Lead) *model.DuplicatePayload
}

// Handler reacts to intake-channel messages.
type Handler struct {
	botUserID string
	runner    Runner
	dupes     DuplicateChecker
	poster    slack.Client
}

// NewHandler creates a message handler. botUserID filters out the
// bot's own messages so replies never loop back into intake. dupes may
// be nil, in which case every detected handle goes straight to the
// runner.
func NewHandler(botUserID string, runner Runner, dupes DuplicateChecker, poster slack.Client) *Handler {
	return &Handler{botUserID: botUserID, runner: runner, dupes: dupes, poster: poster}
}

// HandleMessage processes one message event end to end: extract the
// handle, acknowledge in thread, run the pipeline, and post the
// formatted result. Returns false when the event is not actionable
// (bot message, no handle). Callers run it on a detached goroutine so
// the events endpoint can acknowledge Slack within its deadline.
func (h *Handler) HandleMessage(ctx context.Context, ev *MessageEvent) bool {
	if ev == nil || ev.Type != "message" {
		return false
	}
	if ev.BotID != "" || ev.Subtype == "bot_message" {
		return false
	}
	if h.botUserID != "" && ev.User == h.botUserID {
		return false
	}

	handle, ok := extract.InstagramHandle(ev.Text)
	if !ok {
		return false
	}

	log := zap.L().With(zap.String("handle", handle), zap.String("channel", ev.Channel))
	log.Info("slackbot: lead detected")

	// Replies thread off the triggering message.
	threadTS := ev.ThreadTS
	if threadTS == "" {
		threadTS = ev.TS
	}

	h.post(ctx, ev.Channel, threadTS,
		fmt.Sprintf("Lead detected: @%s\nPlatform: Instagram\nStatus: processing", handle))

	lead := &model.Lead{
		Handle:   handle,
		Platform: model.PlatformInstagram,
		Status:   model.StatusPending,
	}

	// Duplicate pre-check before any vendor spend. A known lead gets
	// its notice straight away; the check itself is fail-open, so an
	// unreachable vector store still lets the lead through.
	if h.dupes != nil {
		if dup := h.dupes.CheckDuplicate(ctx, lead); dup != nil && dup.IsDuplicate {
			log.Info("slackbot: duplicate lead, skipping", zap.String("matched_id", dup.MatchedID))
			h.post(ctx, ev.Channel, threadTS, FormatResult(handle, &model.PipelineResult{
				LeadID: handle,
				Status: model.StatusSkipped,
				Reason: "Duplicate lead",
			}))
			return true
		}
	}

	result := h.runner.Process(ctx, lead)

	h.post(ctx, ev.Channel, threadTS, FormatResult(handle, result))
	return true
}

func (h *Handler) post(ctx context.Context, channel, threadTS, text string) {
	if h.poster == nil {
		return
	}
	if err := h.poster.PostMessage(ctx, channel, threadTS, text); err != nil {
		zap.L().Warn("slackbot: post message failed", zap.Error(err))
	}
}

// FormatResult renders a pipeline result as the thread reply text.
func FormatResult(handle string, result *model.PipelineResult) string {
	switch result.Status {
	case model.StatusError:
		return fmt.Sprintf("Error processing @%s:\n%s", handle, result.Error)
	case model.StatusFailed:
		return fmt.Sprintf("Could not process @%s: %s", handle, result.Reason)
	case model.StatusSkipped:
		if result.Reason == "Duplicate lead" {
			return fmt.Sprintf("Duplicate detected: @%s\nSkipping to avoid double outreach.", handle)
		}
		return fmt.Sprintf("Skipped @%s: %s", handle, result.Reason)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Lead processed: @%s", handle)

	email := "not found"
	if contact, ok := result.Steps[model.StepContactDiscovery].(*model.ContactPayload); ok && contact.Email != "" {
		email = contact.Email
	}
	fmt.Fprintf(&b, "\nEmail: %s", email)

	if vibe, ok := result.Steps[model.StepVibeCheck].(*model.VibeCheckPayload); ok && vibe.Error == "" {
		fmt.Fprintf(&b, "\nVibe score: %d/100", model.DisplayScore(vibe.Score))
	}

	if research, ok := result.Steps[model.StepResearch].(*model.ResearchPayload); ok && research.Content != "" {
		fmt.Fprintf(&b, "\nResearch: %s", truncate(research.Content, 200))
	}

	fmt.Fprintf(&b, "\nOutreach: %s", outreachSummary(result))
	return b.String()
}

// outreachSummary names the channels that actually went out.
func outreachSummary(result *model.PipelineResult) string {
	outreach, ok := result.Steps[model.StepOutreach].(*model.OutreachPayload)
	if !ok {
		return "none"
	}

	emailOK := outreach.Email != nil && outreach.Email.OK
	dmOK := outreach.LinkedInDM != nil && outreach.LinkedInDM.OK
	switch {
	case emailOK && dmOK:
		return "email + LinkedIn DM"
	case emailOK:
		return "email"
	case dmOK:
		return "LinkedIn DM"
	default:
		return "none"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
