package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/gemini"
)

// vibeCheckLead scores brand-partnership fit. A scorer failure yields
// recommendation skip: an unvetted image-first lead never reaches
// outreach. The score and notes are copied onto the lead as side
// effects for the sheet write-back.
func (p *Pipeline) vibeCheckLead(ctx context.Context, lead *model.Lead, research *model.ResearchPayload) *model.VibeCheckPayload {
	vibe, err := p.vibe.Evaluate(ctx, lead, research.Content)
	if err != nil {
		zap.L().Error("pipeline: vibe check failed",
			zap.String("lead", lead.DisplayName()),
			zap.Error(err),
		)
		return &model.VibeCheckPayload{
			Error:          err.Error(),
			Recommendation: gemini.RecommendSkip,
		}
	}

	lead.VibeCheckScore = vibe.Score
	lead.VibeCheckNotes = vibe.Notes

	return vibe
}
