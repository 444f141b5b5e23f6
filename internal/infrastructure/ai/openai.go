package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"sketchforge/internal/domain"
	"sketchforge/internal/ports"
)

// systemInstruction constrains the hosted model to emit code only.
const systemInstruction = "You are an Arduino code generator. Generate only valid Arduino C++ code with no explanations."

type openAIProvider struct {
	model      domain.ModelDefinition
	httpClient *http.Client
}

func newOpenAIProvider(model domain.ModelDefinition, client *http.Client) ports.Provider {
	return &openAIProvider{
		model:      model,
		httpClient: client,
	}
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *openAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	apiKey := resolveAuth(p.model.AuthEnvVar, domain.DefaultAuthEnvVar)
	if apiKey == "" {
		return "", fmt.Errorf("openai: no API key in %s", p.model.AuthEnvVar)
	}

	payload := chatCompletionRequest{
		Model: p.model.ModelID,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   p.model.MaxTokens,
		Temperature: p.model.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.model.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("authorization", "Bearer "+apiKey)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("openai: %s", resp.Status)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	content := decoded.FirstMessage()
	if content == "" {
		return "", fmt.Errorf("openai: empty completion")
	}
	return content, nil
}
