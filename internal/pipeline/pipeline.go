// Package pipeline orchestrates the creator outreach flow: research,
// vibe check, contact discovery, duplicate gate, content generation,
// outreach, and vector storage.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/store"
	"github.com/sells-group/outreach-cli/pkg/gemini"
)

// Pipeline runs leads through the outreach steps. It holds no mutable
// state of its own; each Process call owns its lead and result.
type Pipeline struct {
	cfg      *config.Config
	store    store.Store
	research Researcher
	vibe     VibeScorer
	contacts ContactFinder
	embed    Embedder
	vectors  VectorStore
	writer   CopyWriter
	email    EmailSender
	dm       DMSender
}

// New creates a Pipeline with all dependencies. The store may be nil
// when the caller handles persistence itself.
func New(
	cfg *config.Config,
	st store.Store,
	research Researcher,
	vibe VibeScorer,
	contacts ContactFinder,
	embed Embedder,
	vectors VectorStore,
	writer CopyWriter,
	email EmailSender,
	dm DMSender,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		research: research,
		vibe:     vibe,
		contacts: contacts,
		embed:    embed,
		vectors:  vectors,
		writer:   writer,
		email:    email,
		dm:       dm,
	}
}

// Process runs one lead through the full flow. It never returns an
// error: gating conditions become skipped/failed statuses with a
// reason, step errors land in the step's payload slot, and anything
// escaping a step is recovered into status error with the partial
// steps preserved.
func (p *Pipeline) Process(ctx context.Context, lead *model.Lead) (result *model.PipelineResult) {
	log := zap.L().With(
		zap.String("lead", lead.DisplayName()),
		zap.String("platform", string(lead.Platform)),
	)
	log.Info("pipeline: processing lead")

	result = &model.PipelineResult{
		LeadID: leadID(lead),
		Status: model.StatusProcessing,
		Steps:  map[string]any{},
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline: recovered", zap.Any("panic", r))
			result.Status = model.StatusError
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	// Step 1: research.
	research := p.researchLead(ctx, lead)
	result.Steps[model.StepResearch] = research

	// Step 2: vibe check, image-first platforms only.
	var vibe *model.VibeCheckPayload
	if lead.Platform.VibeCheckable() {
		vibe = p.vibeCheckLead(ctx, lead, research)
		result.Steps[model.StepVibeCheck] = vibe

		if vibe.Recommendation == gemini.RecommendSkip {
			result.Status = model.StatusSkipped
			result.Reason = "Low vibe check score"
			log.Info("pipeline: lead skipped", zap.Float64("score", vibe.Score))
			return result
		}
	}

	// Step 3: contact discovery.
	contact := p.discoverContact(ctx, lead)
	result.Steps[model.StepContactDiscovery] = contact

	if contact.Email == "" && contact.LinkedInURL == "" {
		result.Status = model.StatusFailed
		result.Reason = "No contact information found"
		log.Info("pipeline: lead failed, no contact info")
		return result
	}

	// Step 4: duplicate gate.
	dup := p.CheckDuplicate(ctx, lead)
	result.Steps[model.StepDuplicateCheck] = dup

	if dup.IsDuplicate {
		result.Status = model.StatusSkipped
		result.Reason = "Duplicate lead"
		log.Info("pipeline: lead skipped, duplicate", zap.String("matched_id", dup.MatchedID))
		return result
	}

	// Step 5: content generation.
	content := p.generateContent(ctx, lead, research, vibe)
	result.Steps[model.StepContentGeneration] = content

	// Step 6: outreach execution.
	outreach := p.executeOutreach(ctx, lead, contact, content)
	result.Steps[model.StepOutreach] = outreach

	// Step 7: store for future dedup. Failures never fail the lead.
	p.storeLead(ctx, lead, research, result)

	result.Status = model.StatusCompleted
	log.Info("pipeline: lead completed")
	return result
}

// ProcessBatch runs leads strictly sequentially and returns one result
// per input lead, in order.
func (p *Pipeline) ProcessBatch(ctx context.Context, leads []*model.Lead) []*model.PipelineResult {
	zap.L().Info("pipeline: processing batch", zap.Int("count", len(leads)))

	results := make([]*model.PipelineResult, 0, len(leads))
	for _, lead := range leads {
		results = append(results, p.Process(ctx, lead))
	}

	return results
}

func leadID(lead *model.Lead) string {
	if lead.ID != "" {
		return lead.ID
	}
	return lead.Handle
}
