// Package config handles configuration loading for NewsLens.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Market   MarketConfig   `mapstructure:"market"   yaml:"market"`
	News     NewsConfig     `mapstructure:"news"     yaml:"news"`
	LLM      LLMConfig      `mapstructure:"llm"      yaml:"llm"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
}

// MarketConfig pins down the trading session news items are aligned to.
// Both values are explicit configuration rather than hidden constants so
// other markets and session hours stay testable.
type MarketConfig struct {
	Timezone  string `mapstructure:"timezone"   yaml:"timezone"`   // IANA name, e.g., "America/New_York"
	CloseHour int    `mapstructure:"close_hour" yaml:"close_hour"` // local hour-of-day; 16 = 16:00
}

// Location resolves the configured market timezone.
func (m MarketConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid market timezone %q: %w", m.Timezone, err)
	}
	return loc, nil
}

// NewsConfig holds news ingestion settings.
type NewsConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"` // max articles per analysis
}

// LLMConfig holds the text-generation cascade configuration. Credentials and
// models are ordered: the cascade walks credentials in the outer loop and
// models in the inner loop.
type LLMConfig struct {
	Provider   string   `mapstructure:"provider"    yaml:"provider"` // "gemini", "openai", "ollama"
	GeminiKeys []string `mapstructure:"gemini_keys" yaml:"gemini_keys"`
	OpenAIKeys []string `mapstructure:"openai_keys" yaml:"openai_keys"`
	OllamaURL  string   `mapstructure:"ollama_url"  yaml:"ollama_url"`
	Models     []string `mapstructure:"models"      yaml:"models"` // fallback order; empty = provider defaults
}

// Credentials returns the ordered credential sequence for the active
// provider. Ollama needs no key; a single placeholder keeps the cascade grid
// well-formed.
func (l LLMConfig) Credentials() []string {
	switch l.Provider {
	case "openai":
		return l.OpenAIKeys
	case "ollama":
		return []string{"local"}
	default:
		return l.GeminiKeys
	}
}

// AnalysisConfig holds analysis engine settings.
type AnalysisConfig struct {
	LookbackDays int `mapstructure:"lookback_days" yaml:"lookback_days"` // price history window
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.newslens/config.yaml (home directory)
//  3. /etc/newslens/config.yaml (system)
//
// Environment variables override config file values.
// Format: NEWSLENS_<SECTION>_<KEY>, e.g., NEWSLENS_LLM_GEMINI_KEYS.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".newslens"))
	v.AddConfigPath("/etc/newslens")

	v.SetEnvPrefix("NEWSLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("NEWSLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Market defaults: US equities regular session.
	v.SetDefault("market.timezone", "America/New_York")
	v.SetDefault("market.close_hour", 16)

	// News defaults
	v.SetDefault("news.limit", 10)

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.ollama_url", "http://localhost:11434")

	// Analysis defaults
	v.SetDefault("analysis.lookback_days", 30)

	// API defaults
	v.SetDefault("api.host", "127.0.0.1")
	v.SetDefault("api.port", 8390)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
}

// overrideFromEnv applies single-key env overrides that viper's unmarshal
// misses for slice values.
func overrideFromEnv(cfg *Config) {
	if keys := os.Getenv("NEWSLENS_LLM_GEMINI_KEYS"); keys != "" {
		cfg.LLM.GeminiKeys = splitKeys(keys)
	}
	if keys := os.Getenv("NEWSLENS_LLM_OPENAI_KEYS"); keys != "" {
		cfg.LLM.OpenAIKeys = splitKeys(keys)
	}
	if models := os.Getenv("NEWSLENS_LLM_MODELS"); models != "" {
		cfg.LLM.Models = splitKeys(models)
	}
}

func splitKeys(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
