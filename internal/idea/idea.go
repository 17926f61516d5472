// Package idea turns a post title into a content idea with the Gemini API.
package idea

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-1.5-flash"

// Generator calls one Gemini model. Build it once at startup; the underlying
// genai.Client is safe for concurrent use.
type Generator struct {
	client *genai.Client
	model  string
}

// New creates a Generator for the Gemini API (not Vertex AI).
func New(ctx context.Context, apiKey, model string) (*Generator, error) {
	return NewWithConfig(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

// NewWithConfig is New with full control over the client config.
// Tests use it to point the client at a fake server.
func NewWithConfig(ctx context.Context, cfg *genai.ClientConfig, model string) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("idea: API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("idea: creating genai client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

// Prompt is the fixed instruction sent for a title.
func Prompt(title string) string {
	return fmt.Sprintf("Suggest a creative blog or social media content idea inspired by this Reddit post: \"%s\"", title)
}

// Generate returns the model's text for title, unmodified.
func (g *Generator) Generate(ctx context.Context, title string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(title)), nil)
	if err != nil {
		return "", fmt.Errorf("idea: generating content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		// Blocked prompts and empty candidates both end up here.
		return "", errors.New("idea: model returned no text")
	}
	return text, nil
}
