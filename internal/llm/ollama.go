package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaModelFallbacks is the default model order for local Ollama.
var OllamaModelFallbacks = []string{
	"qwen2.5:7b",
	"llama3.1:8b",
	"mistral:7b",
}

// OllamaGenerator implements TextGenerator against a local Ollama server.
// Ollama has no credentials; the cascade's credential value is ignored, so a
// single placeholder entry keeps the grid well-formed.
type OllamaGenerator struct {
	baseURL string
	client  *http.Client
}

// NewOllamaGenerator creates an Ollama backend.
// baseURL defaults to "http://localhost:11434".
func NewOllamaGenerator(baseURL string) *OllamaGenerator {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 300 * time.Second}, // longer timeout for local models
	}
}

// Name returns the backend identifier.
func (g *OllamaGenerator) Name() string { return ProviderOllama }

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate sends one non-streaming /api/generate request.
func (g *OllamaGenerator) Generate(ctx context.Context, _ string, model, prompt string) (string, error) {
	if model == "" {
		return "", ErrInvalidModel
	}

	body := ollamaGenerateRequest{Model: model, Prompt: prompt, Stream: false}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", ErrInvalidModel, model)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrProviderDown, resp.StatusCode)
	}

	var result ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama: %s", result.Error)
	}
	if strings.TrimSpace(result.Response) == "" {
		return "", ErrEmptyResponse
	}
	return result.Response, nil
}
