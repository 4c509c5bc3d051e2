package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LLMConfig describes the chat-completion endpoint used for optional analyses.
type LLMConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"` // Name of the environment variable holding the key, or the key itself
	Model          string  `mapstructure:"model"`
	Temperature    float32 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// TracingConfig controls OpenTelemetry export. An empty endpoint writes spans to stdout.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// AnalysisConfig gates the LLM analysis feature.
type AnalysisConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	QuotaPerSession int  `mapstructure:"quota_per_session"`
	RedactDefault   bool `mapstructure:"redact_default"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port           string   `mapstructure:"port"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`
	Database struct {
		DSN string `mapstructure:"dsn"` // "memory" or a file path for SQLite
	} `mapstructure:"database"`
	Log struct {
		Mode string `mapstructure:"mode"`
	} `mapstructure:"log"`
	Content struct {
		TemplatesDir  string `mapstructure:"templates_dir"`
		ScenariosFile string `mapstructure:"scenarios_file"`
	} `mapstructure:"content"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// AppConfig is the global configuration instance.
var AppConfig Config

// SetDefaults registers the fallback values used when config.yaml omits a key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("database.dsn", "memory")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("content.templates_dir", "./content/templates")
	v.SetDefault("content.scenarios_file", "./content/scenarios.yaml")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "LLM_API_KEY")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("analysis.enabled", false)
	v.SetDefault("analysis.quota_per_session", 3)
	v.SetDefault("analysis.redact_default", true)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "gamex")
	v.SetDefault("tracing.sample_ratio", 0.1)
}

// Load unmarshals v into a Config and applies environment overrides.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if mode := os.Getenv("LOG_MODE"); mode != "" {
		cfg.Log.Mode = mode
	}

	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.Tracing.Endpoint = endpoint
	}
	cfg.Tracing.SampleRatio = min(max(cfg.Tracing.SampleRatio, 0), 1)

	// api_key names an environment variable; a literal key is kept as is.
	envName := cfg.LLM.APIKey
	if envValue := os.Getenv(envName); envName != "" && envValue != "" {
		cfg.LLM.APIKey = envValue
	} else if envName == "" || strings.HasSuffix(envName, "_KEY") {
		if envValue := os.Getenv("LLM_API_KEY"); envValue != "" {
			cfg.LLM.APIKey = envValue
		} else {
			cfg.LLM.APIKey = ""
		}
	}

	if cfg.Analysis.QuotaPerSession < 0 {
		cfg.Analysis.QuotaPerSession = 0
	}
	if cfg.LLM.TimeoutSeconds <= 0 {
		cfg.LLM.TimeoutSeconds = 60
	}
	return cfg, nil
}

// LoadConfig reads config.yaml (if any) and fills AppConfig.
func LoadConfig() error {
	v := viper.GetViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("../config") // For running from locations like tests
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading configuration file: %w", err)
		}
	}

	cfg, err := Load(v)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}
