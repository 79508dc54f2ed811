package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Sheets     SheetsConfig     `yaml:"sheets" mapstructure:"sheets"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Findymail  FindymailConfig  `yaml:"findymail" mapstructure:"findymail"`
	Smartlead  SmartleadConfig  `yaml:"smartlead" mapstructure:"smartlead"`
	Unipile    UnipileConfig    `yaml:"unipile" mapstructure:"unipile"`
	Pinecone   PineconeConfig   `yaml:"pinecone" mapstructure:"pinecone"`
	Slack      SlackConfig      `yaml:"slack" mapstructure:"slack"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the local prospect database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SheetsConfig holds Google Sheets API settings for the record sheet.
type SheetsConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	SpreadsheetID string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name" mapstructure:"sheet_name"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
}

// PerplexityConfig holds Perplexity API settings for the research step.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// GeminiConfig holds Gemini API settings for the vibe-check step.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// OpenAIConfig holds OpenAI API settings for text embeddings.
type OpenAIConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	EmbeddingModel string `yaml:"embedding_model" mapstructure:"embedding_model"`
}

// AnthropicConfig holds Anthropic API settings for content generation.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// FindymailConfig holds Findymail API settings for contact discovery.
type FindymailConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SmartleadConfig holds Smartlead API settings for campaign email sends.
type SmartleadConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	CampaignID string `yaml:"campaign_id" mapstructure:"campaign_id"`
}

// UnipileConfig holds Unipile API settings for LinkedIn DM sends.
type UnipileConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	AccountID string `yaml:"account_id" mapstructure:"account_id"`
}

// PineconeConfig holds Pinecone settings for the dedup vector store.
type PineconeConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	IndexHost string `yaml:"index_host" mapstructure:"index_host"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
}

// SlackConfig holds Slack settings for the chat intake surface.
type SlackConfig struct {
	BotToken      string `yaml:"bot_token" mapstructure:"bot_token"`
	SigningSecret string `yaml:"signing_secret" mapstructure:"signing_secret"`
	BotUserID     string `yaml:"bot_user_id" mapstructure:"bot_user_id"`
}

// PipelineConfig configures orchestrator gates.
type PipelineConfig struct {
	DuplicateThreshold float64 `yaml:"duplicate_threshold" mapstructure:"duplicate_threshold"`
}

// BatchConfig configures the scheduled batch runner.
type BatchConfig struct {
	MaxLeads       int     `yaml:"max_leads" mapstructure:"max_leads"`
	LeadsPerMinute float64 `yaml:"leads_per_minute" mapstructure:"leads_per_minute"`
	QueueFile      string  `yaml:"queue_file" mapstructure:"queue_file"`
}

// ServerConfig configures the chat-intake webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("outreach")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "outreach.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com/v4")
	v.SetDefault("sheets.sheet_name", "Leads")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("findymail.base_url", "https://app.findymail.com/api")
	v.SetDefault("smartlead.base_url", "https://server.smartlead.ai/api/v1")
	v.SetDefault("unipile.base_url", "https://api.unipile.com/v1")
	v.SetDefault("pinecone.namespace", "leads")
	v.SetDefault("pipeline.duplicate_threshold", 0.95)
	v.SetDefault("batch.max_leads", 10)
	v.SetDefault("batch.leads_per_minute", 6)
	v.SetDefault("batch.queue_file", "leads/queue.csv")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
