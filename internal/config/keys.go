package config

import (
	"fmt"
	"os"
)

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key. Masked values never reveal
// more than the first and last three characters; raw keys must not appear in
// logs or diagnostics.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "AIz...xyz"
}

// CheckAPIKeys returns the status of all configured generation credentials.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	statuses := make([]KeyStatus, 0, len(cfg.LLM.GeminiKeys)+len(cfg.LLM.OpenAIKeys))
	for i, key := range cfg.LLM.GeminiKeys {
		statuses = append(statuses, checkKey(fmt.Sprintf("Gemini API Key #%d", i+1), key, "NEWSLENS_LLM_GEMINI_KEYS"))
	}
	for i, key := range cfg.LLM.OpenAIKeys {
		statuses = append(statuses, checkKey(fmt.Sprintf("OpenAI API Key #%d", i+1), key, "NEWSLENS_LLM_OPENAI_KEYS"))
	}
	if len(statuses) == 0 {
		statuses = append(statuses, KeyStatus{Name: "Generation credentials", Source: KeySourceNone})
	}
	return statuses
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value, envVar string) KeyStatus {
	status := KeyStatus{
		Name:  name,
		IsSet: value != "",
	}

	if value != "" {
		// Check if it came from env
		if os.Getenv(envVar) != "" {
			status.Source = KeySourceEnv
		} else {
			status.Source = KeySourceConfig
		}
		status.Masked = MaskKey(value)
	} else {
		status.Source = KeySourceNone
	}

	return status
}

// MaskKey masks an API key for display, showing only first 3 and last 3 chars.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
