package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Market.Timezone != "America/New_York" {
		t.Errorf("market timezone = %s", cfg.Market.Timezone)
	}
	if cfg.Market.CloseHour != 16 {
		t.Errorf("close hour = %d", cfg.Market.CloseHour)
	}
	if cfg.News.Limit != 10 {
		t.Errorf("news limit = %d", cfg.News.Limit)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("provider = %s", cfg.LLM.Provider)
	}
	if cfg.Analysis.LookbackDays != 30 {
		t.Errorf("lookback = %d", cfg.Analysis.LookbackDays)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
market:
  timezone: Europe/London
  close_hour: 17
llm:
  provider: ollama
  ollama_url: http://box:11434
analysis:
  lookback_days: 90
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Market.Timezone != "Europe/London" || cfg.Market.CloseHour != 17 {
		t.Errorf("market = %+v", cfg.Market)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.OllamaURL != "http://box:11434" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Analysis.LookbackDays != 90 {
		t.Errorf("lookback = %d", cfg.Analysis.LookbackDays)
	}
	// Unset sections keep their defaults.
	if cfg.News.Limit != 10 {
		t.Errorf("news limit = %d", cfg.News.Limit)
	}
}

func TestKeyListEnvOverride(t *testing.T) {
	t.Setenv("NEWSLENS_LLM_GEMINI_KEYS", "key-one, key-two ,key-three")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.LLM.GeminiKeys) != 3 {
		t.Fatalf("gemini keys = %v", cfg.LLM.GeminiKeys)
	}
	if cfg.LLM.GeminiKeys[1] != "key-two" {
		t.Errorf("keys not trimmed: %v", cfg.LLM.GeminiKeys)
	}
}

func TestCredentialsPerProvider(t *testing.T) {
	l := LLMConfig{
		Provider:   "gemini",
		GeminiKeys: []string{"g1", "g2"},
		OpenAIKeys: []string{"o1"},
	}
	if got := l.Credentials(); len(got) != 2 || got[0] != "g1" {
		t.Errorf("gemini credentials = %v", got)
	}

	l.Provider = "openai"
	if got := l.Credentials(); len(got) != 1 || got[0] != "o1" {
		t.Errorf("openai credentials = %v", got)
	}

	// Ollama needs no key but the grid must stay non-empty.
	l.Provider = "ollama"
	if got := l.Credentials(); len(got) != 1 {
		t.Errorf("ollama credentials = %v", got)
	}
}

func TestMarketLocation(t *testing.T) {
	m := MarketConfig{Timezone: "America/New_York"}
	if _, err := m.Location(); err != nil {
		t.Errorf("valid timezone: %v", err)
	}
	m.Timezone = "Mars/Olympus_Mons"
	if _, err := m.Location(); err == nil {
		t.Error("invalid timezone accepted")
	}
}

func TestMaskKey(t *testing.T) {
	if got := MaskKey("AIzaSyExampleKey12345"); got != "AIz...345" {
		t.Errorf("MaskKey = %q", got)
	}
	if got := MaskKey("short"); got != "***" {
		t.Errorf("short key mask = %q", got)
	}
}

func TestCheckAPIKeys(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{
		GeminiKeys: []string{"AIzaSyExampleKey12345"},
	}}
	keys := CheckAPIKeys(cfg)
	if len(keys) != 1 {
		t.Fatalf("keys = %d", len(keys))
	}
	if !keys[0].IsSet {
		t.Error("key should register as set")
	}
	if keys[0].Masked == "AIzaSyExampleKey12345" {
		t.Error("status leaks raw key")
	}
}
