package anthropic

import (
	"context"
	"fmt"
	"strings"
)

// CopyInput carries everything known about a creator that the copy
// prompts can personalize against.
type CopyInput struct {
	Name     string
	Handle   string
	Platform string
	Bio      string
	Research string
	VibeNote string
}

// Email is a generated outreach email.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

const defaultSubject = "Partnership Opportunity"

const emailSystemPrompt = `You are an expert email copywriter specializing in influencer outreach.
Write compelling, personalized emails that get responses. Be concise, value-focused, and authentic.`

const dmSystemPrompt = `You are an expert at writing LinkedIn DMs that get responses.
Keep it short, personal, and value-focused. LinkedIn DMs should be conversational and authentic.`

func (in CopyInput) describe() string {
	var sb strings.Builder
	if in.Name != "" {
		fmt.Fprintf(&sb, "Name: %s\n", in.Name)
	}
	if in.Handle != "" {
		fmt.Fprintf(&sb, "Handle: @%s\n", in.Handle)
	}
	if in.Platform != "" {
		fmt.Fprintf(&sb, "Platform: %s\n", in.Platform)
	}
	if in.Bio != "" {
		fmt.Fprintf(&sb, "Bio: %s\n", in.Bio)
	}
	if in.Research != "" {
		fmt.Fprintf(&sb, "\nResearch:\n%s\n", in.Research)
	}
	if in.VibeNote != "" {
		fmt.Fprintf(&sb, "\nVibe Check:\n%s\n", in.VibeNote)
	}
	return sb.String()
}

// WriteEmail generates a personalized outreach email for the creator.
func WriteEmail(ctx context.Context, c Client, model string, in CopyInput) (*Email, error) {
	prompt := fmt.Sprintf(`Write a persuasive outreach email for this creator:

%s
Create:
1. A compelling subject line (under 60 characters), on a line starting with "Subject:"
2. An email body (3-4 paragraphs max), starting on a line after "Body:", that:
   - Opens with a personalized hook
   - Shows you've done research
   - Clearly states the value proposition
   - Includes a clear call-to-action
   - Maintains a professional but friendly tone`, in.describe())

	temp := 0.7
	resp, err := c.CreateMessage(ctx, MessageRequest{
		Model:       model,
		MaxTokens:   2000,
		System:      []SystemBlock{{Text: emailSystemPrompt}},
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(model, "content_generation")

	return ParseEmail(resp.Text()), nil
}

// ParseEmail extracts subject and body from model prose. Total: a
// missing subject falls back to a generic line and a missing body
// marker means the whole text is the body.
func ParseEmail(text string) *Email {
	var (
		subject string
		body    strings.Builder
		inBody  bool
	)

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		switch {
		case subject == "" && strings.Contains(lower, "subject") && strings.Contains(line, ":"):
			_, after, _ := strings.Cut(line, ":")
			subject = strings.Trim(strings.TrimSpace(after), `"*`)
		case !inBody && strings.Contains(lower, "body") && strings.Contains(line, ":"):
			inBody = true
			if _, after, ok := strings.Cut(line, ":"); ok {
				if s := strings.TrimSpace(after); s != "" {
					body.WriteString(s)
					body.WriteString("\n")
				}
			}
		case inBody:
			body.WriteString(line)
			body.WriteString("\n")
		}
	}

	if subject == "" {
		subject = defaultSubject
	}
	out := strings.TrimSpace(body.String())
	if out == "" {
		out = strings.TrimSpace(text)
	}

	return &Email{Subject: subject, Body: out}
}

// WriteLinkedInDM generates a short LinkedIn DM for the creator.
func WriteLinkedInDM(ctx context.Context, c Client, model string, in CopyInput) (string, error) {
	prompt := fmt.Sprintf(`Write a LinkedIn DM for this creator:

%s
Create a short, personalized message (2-3 sentences max) that:
- Opens with a personalized connection
- Shows genuine interest
- Includes a clear value proposition
- Ends with a soft call-to-action

Keep it under 300 characters. Return only the message text.`, in.describe())

	temp := 0.7
	resp, err := c.CreateMessage(ctx, MessageRequest{
		Model:       model,
		MaxTokens:   200,
		System:      []SystemBlock{{Text: dmSystemPrompt}},
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	resp.Usage.LogCost(model, "content_generation")

	return strings.TrimSpace(resp.Text()), nil
}
