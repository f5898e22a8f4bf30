package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiModelFallbacks is the default model order for the Gemini backend,
// preferring the fast flash tier before the pro tier.
var GeminiModelFallbacks = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
}

// GeminiGenerator implements TextGenerator against the Gemini API via the
// official genai SDK. It holds no credential state: each attempt builds a
// client for the credential the cascade hands it, so one generator serves
// the whole credential grid.
type GeminiGenerator struct{}

// NewGeminiGenerator creates a Gemini text-generation backend.
func NewGeminiGenerator() *GeminiGenerator { return &GeminiGenerator{} }

// Name returns the backend identifier.
func (g *GeminiGenerator) Name() string { return ProviderGemini }

// Generate performs a single generateContent call. SDK errors pass through
// unwrapped apart from classification; the cascade records and continues.
func (g *GeminiGenerator) Generate(ctx context.Context, credential, model, prompt string) (string, error) {
	if credential == "" {
		return "", ErrNoAPIKey
	}
	if model == "" {
		return "", ErrInvalidModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderDown, err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return "", fmt.Errorf("%w: %s", ErrInvalidModel, model)
		}
		return "", fmt.Errorf("gemini: generate with %s: %w", model, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
