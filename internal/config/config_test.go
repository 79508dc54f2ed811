package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no outreach.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "outreach.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, "Leads", cfg.Sheets.SheetName)
	assert.Equal(t, "leads", cfg.Pinecone.Namespace)
	assert.InDelta(t, 0.95, cfg.Pipeline.DuplicateThreshold, 0.001)
	assert.Equal(t, 10, cfg.Batch.MaxLeads)
	assert.InDelta(t, 6.0, cfg.Batch.LeadsPerMinute, 0.001)
	assert.Equal(t, "leads/queue.csv", cfg.Batch.QueueFile)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/outreach
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  max_leads: 25
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "outreach.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Batch.MaxLeads)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.95, cfg.Pipeline.DuplicateThreshold, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "outreach.yaml"), []byte(yaml), 0644))

	t.Setenv("OUTREACH_STORE_DRIVER", "postgres")
	t.Setenv("OUTREACH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("OUTREACH_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validPipeline returns a Config that passes pipeline validation.
func validPipeline() *Config {
	cfg := &Config{}
	cfg.Perplexity.Key = "pplx-key"
	cfg.OpenAI.Key = "sk-key"
	cfg.Anthropic.Key = "sk-ant-key"
	cfg.Pinecone.Key = "pc-key"
	cfg.Pinecone.IndexHost = "https://leads-abc.svc.pinecone.io"
	cfg.Pipeline.DuplicateThreshold = 0.95
	cfg.Batch.MaxLeads = 10
	cfg.Server.Port = 8080
	cfg.Slack.BotToken = "xoxb-token"
	return cfg
}

func TestValidatePipeline_AllPresent(t *testing.T) {
	assert.NoError(t, validPipeline().Validate("pipeline"))
}

func TestValidatePipeline_MissingKeys(t *testing.T) {
	cfg := &Config{}
	cfg.Batch.MaxLeads = 10

	err := cfg.Validate("pipeline")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "perplexity.key is required")
	assert.Contains(t, err.Error(), "openai.key is required")
	assert.Contains(t, err.Error(), "pinecone.key is required")
}

func TestValidatePipeline_ThresholdBounds(t *testing.T) {
	cfg := validPipeline()
	cfg.Pipeline.DuplicateThreshold = 1.2
	err := cfg.Validate("pipeline")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate_threshold")
}

func TestValidatePipeline_BatchBounds(t *testing.T) {
	cfg := validPipeline()
	cfg.Batch.MaxLeads = 0
	err := cfg.Validate("pipeline")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch.max_leads must be between 1 and 100")

	cfg.Batch.MaxLeads = 101
	err = cfg.Validate("pipeline")
	assert.Error(t, err)
}

func TestValidateServe(t *testing.T) {
	cfg := validPipeline()
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_MissingSlackToken(t *testing.T) {
	cfg := validPipeline()
	cfg.Slack.BotToken = ""
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "slack.bot_token is required")
}

func TestValidateImport(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("import")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "outreach.db"
	assert.NoError(t, cfg.Validate("import"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validPipeline().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
