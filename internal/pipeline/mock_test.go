package pipeline

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/model"
)

type fakeResearcher struct {
	payload *model.ResearchPayload
	err     error
	calls   int
}

func (f *fakeResearcher) Research(_ context.Context, _, _ string) (*model.ResearchPayload, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type fakeScorer struct {
	payload *model.VibeCheckPayload
	err     error
	calls   int
}

func (f *fakeScorer) Evaluate(_ context.Context, _ *model.Lead, _ string) (*model.VibeCheckPayload, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

// brokenScorer returns neither payload nor error for one handle,
// forcing a nil dereference mid-step for that lead only.
type brokenScorer struct {
	inner  *fakeScorer
	handle string
}

func (s *brokenScorer) Evaluate(ctx context.Context, lead *model.Lead, research string) (*model.VibeCheckPayload, error) {
	if lead.Handle == s.handle {
		return nil, nil
	}
	return s.inner.Evaluate(ctx, lead, research)
}

type fakeFinder struct {
	payload *model.ContactPayload
	err     error
	calls   int
}

func (f *fakeFinder) Resolve(_ context.Context, _, _ string) (*model.ContactPayload, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	// Copy so pipeline-side mutation never leaks between test cases.
	cp := *f.payload
	return &cp, nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	inputs []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type upsertCall struct {
	id       string
	metadata map[string]string
}

type fakeVectors struct {
	matches  []VectorMatch
	queryErr error
	upserts  []upsertCall
}

func (f *fakeVectors) Upsert(_ context.Context, id string, _ []float32, metadata map[string]string) error {
	f.upserts = append(f.upserts, upsertCall{id: id, metadata: metadata})
	return nil
}

func (f *fakeVectors) QueryNearest(_ context.Context, _ []float32, _ int) ([]VectorMatch, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

type fakeWriter struct {
	email    *model.EmailContent
	emailErr error
	dm       string
	dmErr    error
}

func (f *fakeWriter) WriteEmail(_ context.Context, _ *model.Lead, _, _ string) (*model.EmailContent, error) {
	if f.emailErr != nil {
		return nil, f.emailErr
	}
	return f.email, nil
}

func (f *fakeWriter) WriteDM(_ context.Context, _ *model.Lead, _ string) (string, error) {
	if f.dmErr != nil {
		return "", f.dmErr
	}
	return f.dm, nil
}

type sendCall struct {
	to      string
	subject string
	body    string
}

type fakeEmailSender struct {
	res   *model.ChannelResult
	err   error
	sends []sendCall
}

func (f *fakeEmailSender) SendEmail(_ context.Context, email, subject, body string) (*model.ChannelResult, error) {
	f.sends = append(f.sends, sendCall{to: email, subject: subject, body: body})
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

type fakeDMSender struct {
	res   *model.ChannelResult
	err   error
	sends []sendCall
}

func (f *fakeDMSender) SendDM(_ context.Context, profileURL, message string) (*model.ChannelResult, error) {
	f.sends = append(f.sends, sendCall{to: profileURL, body: message})
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

// testDeps bundles the fakes so tests can tweak one and build a
// Pipeline from the rest.
type testDeps struct {
	cfg      *config.Config
	research *fakeResearcher
	vibe     *fakeScorer
	contacts *fakeFinder
	embed    *fakeEmbedder
	vectors  *fakeVectors
	writer   *fakeWriter
	email    *fakeEmailSender
	dm       *fakeDMSender
}

func happyDeps() *testDeps {
	return &testDeps{
		cfg: &config.Config{
			Pipeline: config.PipelineConfig{DuplicateThreshold: 0.95},
		},
		research: &fakeResearcher{payload: &model.ResearchPayload{
			Content:   "Jane posts daily wellness content with strong engagement.",
			Citations: []string{"https://instagram.com/janedoe"},
		}},
		vibe: &fakeScorer{payload: &model.VibeCheckPayload{
			Score:          8.5,
			Notes:          "Clean aesthetic, consistent posting.",
			Recommendation: "proceed",
		}},
		contacts: &fakeFinder{payload: &model.ContactPayload{
			Email:      "jane@creatormail.com",
			Confidence: 0.9,
		}},
		embed:   &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}},
		vectors: &fakeVectors{},
		writer: &fakeWriter{
			email: &model.EmailContent{Subject: "Partnership Opportunity", Body: "Hi Jane,"},
			dm:    "Hi Jane, loved your feed.",
		},
		email: &fakeEmailSender{res: &model.ChannelResult{OK: true, MessageID: "campaign-1"}},
		dm:    &fakeDMSender{res: &model.ChannelResult{OK: true, MessageID: "msg-1"}},
	}
}

func (d *testDeps) build() *Pipeline {
	return New(d.cfg, nil, d.research, d.vibe, d.contacts, d.embed, d.vectors, d.writer, d.email, d.dm)
}
