package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Recommendation tags returned by a vibe check.
const (
	RecommendProceed = "proceed"
	RecommendReview  = "review"
	RecommendSkip    = "skip"
	RecommendError   = "error"
)

// VibeCheck is the brand-fit assessment for one creator. Score is on
// the canonical 0-10 scale.
type VibeCheck struct {
	Score          float64 `json:"score"`
	Notes          string  `json:"notes"`
	Recommendation string  `json:"recommendation"`
}

// CreatorInfo is the input to a vibe check.
type CreatorInfo struct {
	Name     string `json:"name,omitempty"`
	Handle   string `json:"handle,omitempty"`
	Platform string `json:"platform,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Research string `json:"research,omitempty"`
}

const vibePrompt = `Analyze this creator's content for brand partnership potential.

Evaluate:
1. Aesthetic quality (color palette, composition, visual style)
2. Engagement indicators (likes, comments, overall vibe)
3. Brand fit potential (professionalism, audience quality)
4. Content consistency
5. Authenticity and relatability

Provide:
- A score from 0-10 for brand partnership fit, formatted as "Score: N/10"
- Detailed notes on strengths and concerns
- Specific recommendations for outreach approach

Be honest and critical in your assessment.`

// Evaluate runs a text-based vibe check for the given creator.
func Evaluate(ctx context.Context, c Client, info CreatorInfo) (*VibeCheck, error) {
	var sb strings.Builder
	sb.WriteString(vibePrompt)
	sb.WriteString("\n\nCreator Info:")
	if info.Name != "" {
		fmt.Fprintf(&sb, "\nName: %s", info.Name)
	}
	if info.Handle != "" {
		fmt.Fprintf(&sb, "\nHandle: @%s", info.Handle)
	}
	if info.Platform != "" {
		fmt.Fprintf(&sb, "\nPlatform: %s", info.Platform)
	}
	if info.Bio != "" {
		fmt.Fprintf(&sb, "\nBio: %s", info.Bio)
	}
	if info.Research != "" {
		fmt.Fprintf(&sb, "\n\nResearch:\n%s", info.Research)
	}

	analysis, err := c.GenerateContent(ctx, sb.String())
	if err != nil {
		return nil, err
	}

	return ParseVibeCheck(analysis), nil
}

var (
	scoreOf10Re  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10\b`)
	scoreOf100Re = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*100\b`)
	scoreLineRe  = regexp.MustCompile(`(?i)\bscore\b[^0-9]{0,10}(\d+(?:\.\d+)?)`)
)

// ParseVibeCheck coerces Gemini prose into a VibeCheck. Total: an
// unparseable score falls back to the mid value 5.0, and the
// recommendation is derived from the score band (>=7 proceed,
// >=4 review, else skip).
func ParseVibeCheck(analysis string) *VibeCheck {
	score := 5.0

	if m := scoreOf10Re.FindStringSubmatch(analysis); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			score = v
		}
	} else if m := scoreOf100Re.FindStringSubmatch(analysis); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			score = v / 10
		}
	} else if m := scoreLineRe.FindStringSubmatch(analysis); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if v > 10 {
				v /= 10
			}
			score = v
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	var rec string
	switch {
	case score >= 7:
		rec = RecommendProceed
	case score >= 4:
		rec = RecommendReview
	default:
		rec = RecommendSkip
	}

	return &VibeCheck{
		Score:          score,
		Notes:          analysis,
		Recommendation: rec,
	}
}
