package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	SetDefaults(v)
	if yaml != "" {
		require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	}
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	cfg, err := Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.DSN)
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.False(t, cfg.Analysis.Enabled)
	assert.Equal(t, 3, cfg.Analysis.QuotaPerSession)
	assert.True(t, cfg.Analysis.RedactDefault)
	assert.Equal(t, 60, cfg.LLM.TimeoutSeconds)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "gamex", cfg.Tracing.ServiceName)
	assert.InDelta(t, 0.1, cfg.Tracing.SampleRatio, 1e-9)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DSN", "/tmp/sessions.db")
	t.Setenv("MY_LLM_KEY", "sk-test")

	cfg, err := Load(newViper(t, `
server:
  port: "7000"
content:
  templates_dir: ./tpl
llm:
  api_key: MY_LLM_KEY
  model: local-model
  timeout_seconds: 0
analysis:
  enabled: true
  quota_per_session: -1
`))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/tmp/sessions.db", cfg.Database.DSN)
	assert.Equal(t, "./tpl", cfg.Content.TemplatesDir)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "local-model", cfg.LLM.Model)
	assert.Equal(t, 60, cfg.LLM.TimeoutSeconds)
	assert.True(t, cfg.Analysis.Enabled)
	assert.Equal(t, 0, cfg.Analysis.QuotaPerSession)
}

func TestLoad_LiteralAPIKey(t *testing.T) {
	cfg, err := Load(newViper(t, "llm:\n  api_key: literal-token\n"))
	require.NoError(t, err)
	assert.Equal(t, "literal-token", cfg.LLM.APIKey)
}

func TestLoad_Tracing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")

	cfg, err := Load(newViper(t, `
server:
  allowed_origins: ["http://localhost:5173"]
tracing:
  enabled: true
  sample_ratio: 3
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "collector:4318", cfg.Tracing.Endpoint)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}
