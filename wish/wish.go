// Package wish produces the festive message shown by the celebration.
//
// Generation may fail for any reason: the caller always gets a message,
// falling back to a fixed wish.
package wish

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/esimov/bhaidooj-wasm/config"
)

const (
	// Prompt is sent to the text generation service.
	Prompt = "Generate a short, heartwarming, and festive Bhai Dooj wish for a sibling, suitable for a virtual celebration. Keep it under 25 words."

	// Model identifies the text generation model.
	Model = "gemini-2.5-flash"

	Temperature = 0.8
	TopP        = 0.95

	// Fallback replaces the generated wish on failure.
	Fallback = "Wishing you a very Happy Bhai Dooj! May your bond be blessed with happiness and love."
)

// ErrEmpty is returned when the service answered without any text.
var ErrEmpty = errors.New("empty wish")

// Generator produces a wish.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context) (string, error) {
	return f(ctx)
}

// Clean trims the text and strips a wrapping double quote from each end.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, `"`)
	text = strings.TrimSuffix(text, `"`)
	return text
}

// Resolve asks g for a wish and returns fallback when it fails. Errors are
// logged, never returned.
func Resolve(ctx context.Context, g Generator, fallback string) string {
	text, err := g.Generate(ctx)
	if err == nil {
		text = Clean(text)
		if text == "" {
			err = ErrEmpty
		}
	}
	if err != nil {
		slog.Warn("wish generation failed, using fallback",
			config.LogKeyComponent, config.CompWish,
			config.LogKeyError, err,
		)
		return fallback
	}
	return text
}
