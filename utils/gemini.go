package utils

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"salescoach/config"
)

// TextGenerator produces free text from a prompt. The analysis pipeline
// depends on this interface rather than the Gemini SDK so it can be
// exercised with a stub.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiClient wraps the Gemini SDK behind TextGenerator.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a client from the loaded configuration.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.AppConfig.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  config.AppConfig.GeminiModel,
	}, nil
}

// GenerateText sends the prompt and returns the model's text. The call
// blocks for the full network round trip; no timeout is imposed here
// beyond what the transport enforces.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}
