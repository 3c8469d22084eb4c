package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// defaultGeminiModel is the model used when none is configured, and the
// key of the built-in pricing entry.
const defaultGeminiModel = "gemini-2.5-pro-preview-05-06"

// Config holds the full application configuration. It is constructed once at
// startup and passed into component constructors; pipeline logic never reads
// configuration ambiently.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Google     GoogleConfig     `yaml:"google" mapstructure:"google"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Pricing    PricingConfig    `yaml:"pricing" mapstructure:"pricing"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GoogleConfig holds Google Custom Search credentials.
type GoogleConfig struct {
	APIKey         string `yaml:"api_key" mapstructure:"api_key"`
	SearchEngineID string `yaml:"search_engine_id" mapstructure:"search_engine_id"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
}

// Configured reports whether structured search calls can be made.
func (c GoogleConfig) Configured() bool {
	return c.APIKey != "" && c.SearchEngineID != ""
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// Configured reports whether an API key is present.
func (c GeminiConfig) Configured() bool {
	return c.APIKey != ""
}

// FetchConfig configures the shared page fetcher.
type FetchConfig struct {
	UserAgent  string  `yaml:"user_agent" mapstructure:"user_agent"`
	PerHostRPS float64 `yaml:"per_host_rps" mapstructure:"per_host_rps"`
}

// PipelineConfig holds the timeouts for search and LLM calls. Page-fetch
// timeouts are fixed per stage and live with the stages.
type PipelineConfig struct {
	SearchTimeoutSecs int `yaml:"search_timeout_secs" mapstructure:"search_timeout_secs"`
	LLMTimeoutSecs    int `yaml:"llm_timeout_secs" mapstructure:"llm_timeout_secs"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentAnalyses int `yaml:"max_concurrent_analyses" mapstructure:"max_concurrent_analyses"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// NotionConfig holds the Notion integration token and the target database
// for published analysis summaries.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	AnalysisDB string `yaml:"analysis_db" mapstructure:"analysis_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// PricingConfig holds per-provider pricing rates for cost accounting.
type PricingConfig struct {
	Gemini map[string]ModelPricing `yaml:"gemini" mapstructure:"gemini"`
	Search SearchPricing           `yaml:"search" mapstructure:"search"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// SearchPricing holds Custom Search pricing.
type SearchPricing struct {
	PerThousand float64 `yaml:"per_thousand" mapstructure:"per_thousand"`
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
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BIZINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not surface env-only keys through Unmarshal.
	// Credential keys carry no defaults, so they need explicit bindings.
	for _, key := range []string{
		"google.api_key",
		"google.search_engine_id",
		"gemini.api_key",
		"notion.token",
		"notion.analysis_db",
		"salesforce.client_id",
		"salesforce.username",
		"salesforce.key_path",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "bizintel.db")
	v.SetDefault("google.base_url", "https://www.googleapis.com")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", defaultGeminiModel)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("fetch.per_host_rps", 2.0)
	v.SetDefault("pipeline.search_timeout_secs", 30)
	v.SetDefault("pipeline.llm_timeout_secs", 30)
	v.SetDefault("batch.max_concurrent_analyses", 3)
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("pricing.search.per_thousand", 5.00)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	// The default model pricing is applied after Unmarshal: model names
	// contain dots, which viper would split into nested keys.
	if len(cfg.Pricing.Gemini) == 0 {
		cfg.Pricing.Gemini = map[string]ModelPricing{
			defaultGeminiModel: {Input: 1.25, Output: 10.00},
		}
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
