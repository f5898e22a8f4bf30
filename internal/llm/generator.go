// Package llm provides a unified text-generation capability over multiple
// backends (Gemini, OpenAI, Ollama) and a resilient fallback cascade across
// an ordered credential × model grid.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Backend names for configuration and routing.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Common errors returned by generation backends.
var (
	ErrNoCredentials = errors.New("llm: no credentials configured")
	ErrNoModels      = errors.New("llm: no models configured")
	ErrNoAPIKey      = errors.New("llm: API key not configured")
	ErrProviderDown  = errors.New("llm: provider unavailable")
	ErrInvalidModel  = errors.New("llm: invalid model")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// TextGenerator is the generation capability the cascade drives: one
// synchronous attempt against a specific (credential, model) pair. The
// capability is a black box — prompt construction and response semantics are
// caller concerns; the cascade only needs the text-or-error outcome.
type TextGenerator interface {
	// Name returns the backend identifier (e.g., "gemini").
	Name() string

	// Generate invokes the backend once with the given credential and model.
	// It must not retry internally; the cascade owns the retry policy.
	Generate(ctx context.Context, credential, model, prompt string) (string, error)
}

// NewGenerator constructs the backend for a provider name.
func NewGenerator(provider, baseURL string) (TextGenerator, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiGenerator(), nil
	case ProviderOpenAI:
		return NewOpenAIGenerator(baseURL), nil
	case ProviderOllama:
		return NewOllamaGenerator(baseURL), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}
