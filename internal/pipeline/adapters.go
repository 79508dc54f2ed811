package pipeline

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/anthropic"
	"github.com/sells-group/outreach-cli/pkg/findymail"
	"github.com/sells-group/outreach-cli/pkg/gemini"
	"github.com/sells-group/outreach-cli/pkg/openai"
	"github.com/sells-group/outreach-cli/pkg/perplexity"
	"github.com/sells-group/outreach-cli/pkg/pinecone"
	"github.com/sells-group/outreach-cli/pkg/smartlead"
	"github.com/sells-group/outreach-cli/pkg/unipile"
)

// Capability interfaces consumed by the orchestrator. Concrete
// implementations wrap the vendor clients under pkg/; tests substitute
// fakes. Retries and timeouts live inside the vendor wrappers, so every
// call here is one blocking attempt from the orchestrator's view.

// Researcher looks up public information about a creator.
type Researcher interface {
	Research(ctx context.Context, nameOrHandle, platform string) (*model.ResearchPayload, error)
}

// VibeScorer evaluates brand-partnership fit on the 0-10 scale.
type VibeScorer interface {
	Evaluate(ctx context.Context, lead *model.Lead, research string) (*model.VibeCheckPayload, error)
}

// ContactFinder resolves a social handle to contact details.
type ContactFinder interface {
	Resolve(ctx context.Context, handle, platform string) (*model.ContactPayload, error)
}

// Embedder converts text to a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorMatch is one nearest-neighbor hit from the vector store.
type VectorMatch struct {
	ID    string
	Score float64
}

// VectorStore persists and queries lead embeddings.
type VectorStore interface {
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) error
	QueryNearest(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error)
}

// CopyWriter generates personalized outreach copy.
type CopyWriter interface {
	WriteEmail(ctx context.Context, lead *model.Lead, research, vibeNotes string) (*model.EmailContent, error)
	WriteDM(ctx context.Context, lead *model.Lead, research string) (string, error)
}

// EmailSender delivers an outreach email.
type EmailSender interface {
	SendEmail(ctx context.Context, email, subject, body string) (*model.ChannelResult, error)
}

// DMSender delivers a LinkedIn direct message.
type DMSender interface {
	SendDM(ctx context.Context, profileURL, message string) (*model.ChannelResult, error)
}

// --- vendor-backed implementations ---

type perplexityResearcher struct {
	client perplexity.Client
}

// NewPerplexityResearcher adapts a Perplexity client to the Researcher
// capability.
func NewPerplexityResearcher(c perplexity.Client) Researcher {
	return &perplexityResearcher{client: c}
}

func (r *perplexityResearcher) Research(ctx context.Context, nameOrHandle, platform string) (*model.ResearchPayload, error) {
	res, err := perplexity.ResearchCreator(ctx, r.client, nameOrHandle, platform)
	if err != nil {
		return nil, err
	}
	return &model.ResearchPayload{Content: res.Content, Citations: res.Citations}, nil
}

type geminiScorer struct {
	client gemini.Client
}

// NewGeminiScorer adapts a Gemini client to the VibeScorer capability.
func NewGeminiScorer(c gemini.Client) VibeScorer {
	return &geminiScorer{client: c}
}

func (s *geminiScorer) Evaluate(ctx context.Context, lead *model.Lead, research string) (*model.VibeCheckPayload, error) {
	vc, err := gemini.Evaluate(ctx, s.client, gemini.CreatorInfo{
		Name:     lead.Name,
		Handle:   lead.Handle,
		Platform: string(lead.Platform),
		Bio:      lead.Bio,
		Research: research,
	})
	if err != nil {
		return nil, err
	}
	return &model.VibeCheckPayload{
		Score:          vc.Score,
		Notes:          vc.Notes,
		Recommendation: vc.Recommendation,
	}, nil
}

type findymailFinder struct {
	client findymail.Client
}

// NewFindymailFinder adapts a Findymail client to the ContactFinder
// capability.
func NewFindymailFinder(c findymail.Client) ContactFinder {
	return &findymailFinder{client: c}
}

func (f *findymailFinder) Resolve(ctx context.Context, handle, platform string) (*model.ContactPayload, error) {
	contact, err := f.client.FindFromHandle(ctx, handle, platform)
	if err != nil {
		return nil, err
	}
	return &model.ContactPayload{
		Email:       contact.Email,
		Confidence:  contact.Confidence,
		LinkedInURL: contact.LinkedInURL,
	}, nil
}

type openaiEmbedder struct {
	client openai.Client
}

// NewOpenAIEmbedder adapts an OpenAI client to the Embedder capability.
func NewOpenAIEmbedder(c openai.Client) Embedder {
	return &openaiEmbedder{client: c}
}

func (e *openaiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.client.Embed(ctx, text)
}

type pineconeStore struct {
	client pinecone.Client
}

// NewPineconeStore adapts a Pinecone client to the VectorStore
// capability.
func NewPineconeStore(c pinecone.Client) VectorStore {
	return &pineconeStore{client: c}
}

func (v *pineconeStore) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) error {
	return v.client.Upsert(ctx, id, vector, metadata)
}

func (v *pineconeStore) QueryNearest(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error) {
	matches, err := v.client.QueryNearest(ctx, vector, topK)
	if err != nil {
		return nil, err
	}
	out := make([]VectorMatch, len(matches))
	for i, m := range matches {
		out[i] = VectorMatch{ID: m.ID, Score: m.Score}
	}
	return out, nil
}

type anthropicWriter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicWriter adapts an Anthropic client to the CopyWriter
// capability.
func NewAnthropicWriter(c anthropic.Client, model string) CopyWriter {
	return &anthropicWriter{client: c, model: model}
}

func (w *anthropicWriter) WriteEmail(ctx context.Context, lead *model.Lead, research, vibeNotes string) (*model.EmailContent, error) {
	email, err := anthropic.WriteEmail(ctx, w.client, w.model, anthropic.CopyInput{
		Name:     lead.Name,
		Handle:   lead.Handle,
		Platform: string(lead.Platform),
		Bio:      lead.Bio,
		Research: research,
		VibeNote: vibeNotes,
	})
	if err != nil {
		return nil, err
	}
	return &model.EmailContent{Subject: email.Subject, Body: email.Body}, nil
}

func (w *anthropicWriter) WriteDM(ctx context.Context, lead *model.Lead, research string) (string, error) {
	return anthropic.WriteLinkedInDM(ctx, w.client, w.model, anthropic.CopyInput{
		Name:     lead.Name,
		Handle:   lead.Handle,
		Platform: string(lead.Platform),
		Bio:      lead.Bio,
		Research: research,
	})
}

type smartleadSender struct {
	client smartlead.Client
}

// NewSmartleadSender adapts a Smartlead client to the EmailSender
// capability.
func NewSmartleadSender(c smartlead.Client) EmailSender {
	return &smartleadSender{client: c}
}

func (s *smartleadSender) SendEmail(ctx context.Context, email, subject, body string) (*model.ChannelResult, error) {
	res, err := s.client.SendEmail(ctx, email, subject, body)
	if err != nil {
		return nil, err
	}
	return &model.ChannelResult{OK: res.OK, MessageID: res.CampaignID}, nil
}

type unipileSender struct {
	client unipile.Client
}

// NewUnipileSender adapts a Unipile client to the DMSender capability.
func NewUnipileSender(c unipile.Client) DMSender {
	return &unipileSender{client: c}
}

func (s *unipileSender) SendDM(ctx context.Context, profileURL, message string) (*model.ChannelResult, error) {
	res, err := s.client.SendDM(ctx, profileURL, message)
	if err != nil {
		return nil, err
	}
	return &model.ChannelResult{OK: res.OK, MessageID: res.MessageID}, nil
}
