// Package gemini implements llm.Provider on top of the Google Generative
// Language API.
package gemini

import (
	"context"
	"fmt"
	"sync"

	genai "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/kbukum/flowstack/llm"
	"github.com/kbukum/flowstack/provider"
)

const (
	// ProviderName is the registered name for the Gemini provider.
	ProviderName = "gemini"

	defaultModel          = "gemini-pro"
	defaultEmbeddingModel = "embedding-001"
)

// Config holds configuration for the Gemini provider.
type Config struct {
	APIKey         string `json:"api_key" yaml:"api_key"`
	Model          string `json:"model" yaml:"model"`
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`
}

// Provider implements llm.Provider using the Generative Language API.
// The underlying service client is created lazily on first use.
type Provider struct {
	cfg Config

	mu  sync.Mutex
	svc *genai.Service
}

// NewProvider creates a new Gemini provider.
func NewProvider(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = defaultEmbeddingModel
	}
	return &Provider{cfg: cfg}
}

// Factory returns a provider.Factory that creates Gemini Provider instances
// from a generic config map.
func Factory() provider.Factory[llm.Provider] {
	return func(cfg map[string]any) (llm.Provider, error) {
		gc := Config{}
		if v, ok := cfg["api_key"].(string); ok {
			gc.APIKey = v
		}
		if v, ok := cfg["model"].(string); ok {
			gc.Model = v
		}
		if v, ok := cfg["embedding_model"].(string); ok {
			gc.EmbeddingModel = v
		}
		return NewProvider(gc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the provider has credentials configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.APIKey != "" }

func (p *Provider) service(ctx context.Context) (*genai.Service, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini client not configured")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.svc != nil {
		return p.svc, nil
	}

	svc, err := genai.NewService(ctx, option.WithAPIKey(p.cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini service: %w", err)
	}
	p.svc = svc
	return svc, nil
}

// Generate produces a model response for the request.
func (p *Provider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	svc, err := p.service(ctx)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = llm.DefaultSystemPrompt
	}

	// The v1beta text interface takes one combined prompt.
	prompt := systemPrompt + "\n\n" + req.UserPrompt()

	call := svc.Models.GenerateContent("models/"+model, &genai.GenerateContentRequest{
		Contents: []*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		GenerationConfig: &genai.GenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: int64(req.MaxTokens),
		},
	})

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	return &llm.GenerateResponse{
		Response: resp.Candidates[0].Content.Parts[0].Text,
		Model:    model,
		Provider: ProviderName,
	}, nil
}

// Embed returns the embedding vector for text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	svc, err := p.service(ctx)
	if err != nil {
		return nil, err
	}

	model := "models/" + p.cfg.EmbeddingModel
	call := svc.Models.EmbedContent(model, &genai.EmbedContentRequest{
		Model: model,
		Content: &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		},
	})

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("gemini returned no embedding")
	}

	values := make([]float32, len(resp.Embedding.Values))
	for i, v := range resp.Embedding.Values {
		values[i] = float32(v)
	}
	return values, nil
}
