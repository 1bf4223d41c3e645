// Package llm defines the generation provider interface and common types for
// interacting with large-language-model backends.
package llm

import (
	"context"

	"github.com/kbukum/flowstack/provider"
)

// Provider is the interface that LLM backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Generate produces a model response for the given request.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Embed returns the embedding vector for a piece of text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
