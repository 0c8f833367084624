// Package gemini generates wishes with the Gemini API. It runs on the server
// so the API key never reaches the browser.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/esimov/bhaidooj-wasm/config"
	"github.com/esimov/bhaidooj-wasm/wish"
	"google.golang.org/genai"
)

// ErrNoAPIKey is returned by New without an API key.
var ErrNoAPIKey = errors.New("gemini: missing API key")

// Models is the part of the genai client used here.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator implements wish.Generator.
type Generator struct {
	models Models
	model  string
}

// New creates a Generator backed by the Gemini API.
func New(ctx context.Context, apiKey string) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return NewWithModels(client.Models), nil
}

// NewWithModels creates a Generator around an existing client.
func NewWithModels(m Models) *Generator {
	return &Generator{models: m, model: wish.Model}
}

// Generate asks the model for a wish.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](wish.Temperature),
		TopP:        genai.Ptr[float32](wish.TopP),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(wish.Prompt), cfg)
	if err != nil {
		slog.Error("Gemini API call failed",
			config.LogKeyComponent, config.CompGemini,
			config.LogKeyModel, g.model,
			config.LogKeyError, err,
		)
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if resp == nil {
		return "", wish.ErrEmpty
	}

	text := wish.Clean(resp.Text())
	if text == "" {
		return "", wish.ErrEmpty
	}
	return text, nil
}
