package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/pipeline"
	"github.com/sells-group/outreach-cli/internal/store"
	anthropicpkg "github.com/sells-group/outreach-cli/pkg/anthropic"
	"github.com/sells-group/outreach-cli/pkg/findymail"
	"github.com/sells-group/outreach-cli/pkg/gemini"
	"github.com/sells-group/outreach-cli/pkg/gsheets"
	"github.com/sells-group/outreach-cli/pkg/openai"
	"github.com/sells-group/outreach-cli/pkg/perplexity"
	"github.com/sells-group/outreach-cli/pkg/pinecone"
	"github.com/sells-group/outreach-cli/pkg/smartlead"
	"github.com/sells-group/outreach-cli/pkg/unipile"
)

// pipelineEnv holds the initialized store, sheet client, and pipeline
// needed by the run/batch/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Sheets   gsheets.Client // nil when the record sheet is not configured
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline sets up the store, all vendor clients, and the pipeline.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate("pipeline"); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	perplexityClient := perplexity.NewClient(cfg.Perplexity.Key,
		perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
		perplexity.WithModel(cfg.Perplexity.Model),
	)
	geminiClient := gemini.NewClient(cfg.Gemini.Key,
		gemini.WithBaseURL(cfg.Gemini.BaseURL),
		gemini.WithModel(cfg.Gemini.Model),
	)
	openaiClient := openai.NewClient(cfg.OpenAI.Key,
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
	)
	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	findymailClient := findymail.NewClient(cfg.Findymail.Key,
		findymail.WithBaseURL(cfg.Findymail.BaseURL),
	)
	pineconeClient := pinecone.NewClient(cfg.Pinecone.Key, cfg.Pinecone.IndexHost,
		pinecone.WithNamespace(cfg.Pinecone.Namespace),
	)

	smartleadOpts := []smartlead.Option{smartlead.WithBaseURL(cfg.Smartlead.BaseURL)}
	if cfg.Smartlead.CampaignID != "" {
		smartleadOpts = append(smartleadOpts, smartlead.WithCampaignID(cfg.Smartlead.CampaignID))
	}
	smartleadClient := smartlead.NewClient(cfg.Smartlead.Key, smartleadOpts...)

	unipileOpts := []unipile.Option{unipile.WithBaseURL(cfg.Unipile.BaseURL)}
	if cfg.Unipile.AccountID != "" {
		unipileOpts = append(unipileOpts, unipile.WithAccountID(cfg.Unipile.AccountID))
	}
	unipileClient := unipile.NewClient(cfg.Unipile.Key, unipileOpts...)

	var sheetsClient gsheets.Client
	if cfg.Sheets.Key != "" && cfg.Sheets.SpreadsheetID != "" {
		sheetsClient = gsheets.NewClient(cfg.Sheets.Key, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName,
			gsheets.WithBaseURL(cfg.Sheets.BaseURL),
		)
	} else {
		zap.L().Warn("record sheet not configured, sheet sync disabled")
	}

	p := pipeline.New(cfg, st,
		pipeline.NewPerplexityResearcher(perplexityClient),
		pipeline.NewGeminiScorer(geminiClient),
		pipeline.NewFindymailFinder(findymailClient),
		pipeline.NewOpenAIEmbedder(openaiClient),
		pipeline.NewPineconeStore(pineconeClient),
		pipeline.NewAnthropicWriter(anthropicClient, cfg.Anthropic.Model),
		pipeline.NewSmartleadSender(smartleadClient),
		pipeline.NewUnipileSender(unipileClient),
	)

	return &pipelineEnv{
		Store:    st,
		Pipeline: p,
		Sheets:   sheetsClient,
	}, nil
}
