package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// generateContent writes the outreach copy: always an email, plus a
// LinkedIn DM when the lead has a profile to message. A failed email
// leaves the whole step errored; a failed DM keeps the email and
// records the error alongside it.
func (p *Pipeline) generateContent(ctx context.Context, lead *model.Lead, research *model.ResearchPayload, vibe *model.VibeCheckPayload) *model.ContentPayload {
	log := zap.L().With(zap.String("lead", lead.DisplayName()))

	var vibeNotes string
	if vibe != nil {
		vibeNotes = vibe.Notes
	}

	email, err := p.writer.WriteEmail(ctx, lead, research.Content, vibeNotes)
	if err != nil {
		log.Error("pipeline: email generation failed", zap.Error(err))
		return &model.ContentPayload{Error: err.Error()}
	}

	payload := &model.ContentPayload{Email: email}

	if lead.LinkedInURL != "" {
		dm, err := p.writer.WriteDM(ctx, lead, research.Content)
		if err != nil {
			log.Error("pipeline: dm generation failed", zap.Error(err))
			payload.Error = err.Error()
		} else {
			payload.LinkedInDM = dm
		}
	}

	return payload
}
