package perplexity

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// Research holds the free-text research result for one creator.
type Research struct {
	Content   string   `json:"content"`
	Citations []string `json:"citations,omitempty"`
}

const researchSystemPrompt = "You are a creator-partnerships researcher. " +
	"Answer with concrete, recent facts about the creator and cite sources."

// ResearchCreator queries Perplexity for background on a creator:
// follower count, engagement, content style, brand partnerships, recent
// activity.
func ResearchCreator(ctx context.Context, c Client, nameOrHandle, platform string) (*Research, error) {
	if platform == "" {
		platform = "social media"
	}
	prompt := fmt.Sprintf(
		"Research %s on %s. Find follower count, engagement rate, content style, brand partnerships, and recent activity.",
		nameOrHandle, platform,
	)

	resp, err := c.ChatCompletion(ctx, ChatCompletionRequest{
		Messages: []Message{
			{Role: "system", Content: researchSystemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "perplexity: research creator")
	}
	if len(resp.Choices) == 0 {
		return nil, eris.New("perplexity: empty response")
	}

	return &Research{
		Content:   resp.Choices[0].Message.Content,
		Citations: resp.Citations,
	}, nil
}
