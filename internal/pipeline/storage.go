package pipeline

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// storeLead persists the processed lead: embedding into the vector
// store for future dedup, and prospect row plus result envelope into
// the relational store. Every failure here is swallowed with a warning;
// storage never fails an otherwise-processed lead.
func (p *Pipeline) storeLead(ctx context.Context, lead *model.Lead, research *model.ResearchPayload, result *model.PipelineResult) {
	log := zap.L().With(zap.String("lead", lead.DisplayName()))

	vector, err := p.embed.Embed(ctx, storageText(lead, research))
	if err != nil {
		log.Warn("pipeline: storage embed failed", zap.Error(err))
	} else if err := p.vectors.Upsert(ctx, lead.VectorID(), vector, leadMetadata(lead)); err != nil {
		log.Warn("pipeline: vector upsert failed", zap.Error(err))
	}

	if p.store == nil {
		return
	}
	if err := p.store.UpsertProspect(ctx, lead); err != nil {
		log.Warn("pipeline: prospect upsert failed", zap.Error(err))
	}
	if err := p.store.SaveResult(ctx, lead, result); err != nil {
		log.Warn("pipeline: result save failed", zap.Error(err))
	}
}

// leadMetadata flattens the lead into the string-only metadata the
// vector store accepts: times as RFC 3339, numbers formatted, empty
// values as "".
func leadMetadata(lead *model.Lead) map[string]string {
	createdAt := ""
	if !lead.CreatedAt.IsZero() {
		createdAt = lead.CreatedAt.UTC().Format(time.RFC3339)
	}
	return map[string]string{
		"name":           lead.Name,
		"handle":         lead.Handle,
		"platform":       string(lead.Platform),
		"email":          lead.Email,
		"vibe_score":     strconv.FormatFloat(lead.VibeCheckScore, 'f', -1, 64),
		"contact_status": contactStatusOrPending(lead),
		"created_at":     createdAt,
	}
}

func contactStatusOrPending(lead *model.Lead) string {
	if lead.ContactStatus == "" {
		return string(model.ContactPending)
	}
	return string(lead.ContactStatus)
}
