package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	text string
	err  error
	got  MessageRequest
}

func (f *fakeClient) CreateMessage(_ context.Context, req MessageRequest) (*MessageResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &MessageResponse{
		Content: []ContentBlock{{Type: "text", Text: f.text}},
	}, nil
}

func TestParseEmail(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "labeled subject and body",
			text:        "Subject: Let's collaborate\nBody: Hi Jane,\nLoved your recent posts.\nBest,\nTeam",
			wantSubject: "Let's collaborate",
			wantBody:    "Hi Jane,\nLoved your recent posts.\nBest,\nTeam",
		},
		{
			name:        "quoted subject",
			text:        "Subject: \"Wellness partnership\"\nBody:\nHi there.",
			wantSubject: "Wellness partnership",
			wantBody:    "Hi there.",
		},
		{
			name:        "no labels falls back",
			text:        "Hey Jane, quick note about a partnership idea.",
			wantSubject: "Partnership Opportunity",
			wantBody:    "Hey Jane, quick note about a partnership idea.",
		},
		{
			name:        "subject only",
			text:        "Subject: Quick question",
			wantSubject: "Quick question",
			wantBody:    "Subject: Quick question",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEmail(tt.text)
			assert.Equal(t, tt.wantSubject, got.Subject)
			assert.Equal(t, tt.wantBody, got.Body)
		})
	}
}

func TestWriteEmail(t *testing.T) {
	fake := &fakeClient{text: "Subject: Hello Jane\nBody: A personalized pitch."}

	email, err := WriteEmail(context.Background(), fake, "claude-sonnet-4-5-20250929", CopyInput{
		Name:     "Jane Doe",
		Handle:   "janedoe",
		Platform: "instagram",
		Research: "10k followers, wellness niche",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello Jane", email.Subject)
	assert.Equal(t, "A personalized pitch.", email.Body)

	prompt := fake.got.Messages[0].Content
	assert.Contains(t, prompt, "Jane Doe")
	assert.Contains(t, prompt, "@janedoe")
	assert.Contains(t, prompt, "wellness niche")
}

func TestWriteLinkedInDM(t *testing.T) {
	fake := &fakeClient{text: "  Hi Jane, loved your feed. Open to a chat?  "}

	dm, err := WriteLinkedInDM(context.Background(), fake, "claude-sonnet-4-5-20250929", CopyInput{
		Name: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane, loved your feed. Open to a chat?", dm)
}

func TestEstimateCost(t *testing.T) {
	u := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}
	assert.InDelta(t, 18.0, u.EstimateCost("claude-sonnet-4-5-20250929"), 0.001)
	assert.Zero(t, u.EstimateCost("unknown-model"))
}
