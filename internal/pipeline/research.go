package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// researchLead looks up the creator's public footprint. A failed lookup
// is non-fatal: the error lands in the payload and processing
// continues with empty research context.
func (p *Pipeline) researchLead(ctx context.Context, lead *model.Lead) *model.ResearchPayload {
	platform := string(lead.Platform)
	if platform == "" {
		platform = "social media"
	}

	research, err := p.research.Research(ctx, lead.DisplayName(), platform)
	if err != nil {
		zap.L().Error("pipeline: research failed",
			zap.String("lead", lead.DisplayName()),
			zap.Error(err),
		)
		return &model.ResearchPayload{Error: err.Error()}
	}
	return research
}
