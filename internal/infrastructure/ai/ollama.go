package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"sketchforge/internal/domain"
	"sketchforge/internal/ports"
)

type ollamaProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
}

func newOllamaProvider(model domain.ModelDefinition, client *http.Client) ports.Provider {
	return &ollamaProvider{
		model:      model,
		httpClient: client,
	}
}

func (o *ollamaProvider) Name() string {
	return "ollama"
}

func (o *ollamaProvider) Model() domain.ModelDefinition {
	return o.model
}

// generateRequest is Ollama's native /api/generate payload.
type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (o *ollamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Model:       o.model.ModelID,
		Prompt:      prompt,
		Stream:      false,
		Temperature: o.model.Temperature,
		MaxTokens:   o.model.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.model.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama: %s", resp.Status)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	content := strings.TrimSpace(decoded.Response)
	if content == "" {
		return "", fmt.Errorf("ollama: empty completion")
	}
	return content, nil
}
