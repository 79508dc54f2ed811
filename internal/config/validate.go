package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that the configuration required for the given mode is
// present. Modes correspond to subcommands: "pipeline" (run/batch),
// "serve", "import". Problems are collected and reported together.
func (c *Config) Validate(mode string) error {
	var problems []string

	requirePipeline := func() {
		if c.Perplexity.Key == "" {
			problems = append(problems, "perplexity.key is required")
		}
		if c.OpenAI.Key == "" {
			problems = append(problems, "openai.key is required")
		}
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if c.Pinecone.Key == "" {
			problems = append(problems, "pinecone.key is required")
		}
		if c.Pinecone.IndexHost == "" {
			problems = append(problems, "pinecone.index_host is required")
		}
		if c.Pipeline.DuplicateThreshold < 0 || c.Pipeline.DuplicateThreshold > 1 {
			problems = append(problems, "pipeline.duplicate_threshold must be in [0, 1]")
		}
	}

	switch mode {
	case "pipeline":
		requirePipeline()
		if c.Batch.MaxLeads < 1 || c.Batch.MaxLeads > 100 {
			problems = append(problems, "batch.max_leads must be between 1 and 100")
		}
	case "serve":
		requirePipeline()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Slack.BotToken == "" {
			problems = append(problems, "slack.bot_token is required")
		}
	case "import":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}
