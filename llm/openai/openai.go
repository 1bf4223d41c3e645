// Package openai implements llm.Provider on top of the OpenAI chat and
// embeddings APIs.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/flowstack/llm"
	"github.com/kbukum/flowstack/provider"
)

const (
	// ProviderName is the registered name for the OpenAI provider.
	ProviderName = "openai"

	defaultModel          = "gpt-3.5-turbo"
	defaultEmbeddingModel = "text-embedding-ada-002"
)

// Config holds configuration for the OpenAI provider.
type Config struct {
	APIKey         string `json:"api_key" yaml:"api_key"`
	Model          string `json:"model" yaml:"model"`
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`
}

// Provider implements llm.Provider using the OpenAI API.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

// NewProvider creates a new OpenAI provider.
func NewProvider(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = defaultEmbeddingModel
	}
	p := &Provider{cfg: cfg}
	if cfg.APIKey != "" {
		p.client = goopenai.NewClient(cfg.APIKey)
	}
	return p
}

// Factory returns a provider.Factory that creates OpenAI Provider instances
// from a generic config map.
func Factory() provider.Factory[llm.Provider] {
	return func(cfg map[string]any) (llm.Provider, error) {
		oc := Config{}
		if v, ok := cfg["api_key"].(string); ok {
			oc.APIKey = v
		}
		if v, ok := cfg["model"].(string); ok {
			oc.Model = v
		}
		if v, ok := cfg["embedding_model"].(string); ok {
			oc.EmbeddingModel = v
		}
		return NewProvider(oc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the provider has credentials configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.client != nil }

// Generate produces a chat completion for the request.
func (p *Provider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if p.client == nil {
		return nil, fmt.Errorf("openai client not configured")
	}

	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = llm.DefaultSystemPrompt
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: req.UserPrompt()},
		},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &llm.GenerateResponse{
		Response: resp.Choices[0].Message.Content,
		Model:    model,
		Provider: ProviderName,
		Usage: &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Embed returns the embedding vector for text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.client == nil {
		return nil, fmt.Errorf("openai client not configured")
	}

	resp, err := p.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: goopenai.EmbeddingModel(p.cfg.EmbeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai returned no embeddings")
	}

	return resp.Data[0].Embedding, nil
}
