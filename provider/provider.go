package provider

import "context"

// Provider is the contract shared by flowstack's pluggable backends: LLM
// providers (openai, gemini) and web search providers (serpapi, brave).
type Provider interface {
	// Name is the wire name the backend is addressed by in node data and
	// configuration.
	Name() string
	// IsAvailable reports whether the backend has what it needs to serve a
	// call, typically whether credentials are configured.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider instance from a generic configuration map, as
// read from the service config. Unknown keys are ignored by convention.
type Factory[T Provider] func(cfg map[string]any) (T, error)
