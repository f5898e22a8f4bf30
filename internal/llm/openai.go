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

// OpenAIModelFallbacks is the default model order for the OpenAI backend.
var OpenAIModelFallbacks = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-3.5-turbo",
}

// OpenAIGenerator implements TextGenerator against OpenAI's Chat Completions
// API. Like the Gemini backend it is credential-stateless: the API key
// arrives per attempt from the cascade.
type OpenAIGenerator struct {
	baseURL string
	client  *http.Client
}

// NewOpenAIGenerator creates an OpenAI backend. baseURL may be empty for the
// public API, or point at an Azure/proxy endpoint.
func NewOpenAIGenerator(baseURL string) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIGenerator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the backend identifier.
func (g *OpenAIGenerator) Name() string { return ProviderOpenAI }

type openAIChatRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends one chat completion request.
func (g *OpenAIGenerator) Generate(ctx context.Context, credential, model, prompt string) (string, error) {
	if credential == "" {
		return "", ErrNoAPIKey
	}
	if model == "" {
		return "", ErrInvalidModel
	}

	body := openAIChatRequest{
		Model:    model,
		Messages: []openAIMessage{{Role: "user", Content: prompt}},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("%w: rejected by server", ErrNoAPIKey)
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrInvalidModel, model)
	default:
		return "", fmt.Errorf("%w: status %d", ErrProviderDown, resp.StatusCode)
	}

	var result openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("openai: %s: %s", result.Error.Type, result.Error.Message)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return result.Choices[0].Message.Content, nil
}
