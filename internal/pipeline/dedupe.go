package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

// canonicalText is the dedup gate's embedding input. It deliberately
// excludes research content so the same creator embeds to the same
// point regardless of what research returned on a given day.
func canonicalText(lead *model.Lead) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", lead.Name, lead.Handle, lead.Bio))
}

// storageText is the richer embedding stored for future dedup queries;
// it folds in research content for better nearest-neighbor recall.
func storageText(lead *model.Lead, research *model.ResearchPayload) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s %s", lead.Name, lead.Handle, lead.Bio, research.Content))
}

// CheckDuplicate embeds the lead and asks the vector store for its
// nearest neighbor. Fail-open: any error reports not-a-duplicate so a
// flaky vector store never blocks outreach. Besides gating Process,
// intake surfaces call it up front so a known lead costs no research,
// vibe check, or contact lookups.
func (p *Pipeline) CheckDuplicate(ctx context.Context, lead *model.Lead) *model.DuplicatePayload {
	log := zap.L().With(zap.String("lead", lead.DisplayName()))

	vector, err := p.embed.Embed(ctx, canonicalText(lead))
	if err != nil {
		log.Warn("pipeline: duplicate check embed failed, proceeding", zap.Error(err))
		return &model.DuplicatePayload{}
	}

	matches, err := p.vectors.QueryNearest(ctx, vector, 1)
	if err != nil {
		log.Warn("pipeline: duplicate check query failed, proceeding", zap.Error(err))
		return &model.DuplicatePayload{}
	}

	threshold := p.cfg.Pipeline.DuplicateThreshold
	for _, m := range matches {
		if m.Score >= threshold {
			return &model.DuplicatePayload{IsDuplicate: true, MatchedID: m.ID}
		}
	}
	return &model.DuplicatePayload{}
}
