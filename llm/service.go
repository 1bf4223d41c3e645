package llm

import (
	"context"
	"fmt"

	"github.com/kbukum/flowstack/logger"
	"github.com/kbukum/flowstack/resilience"
	"github.com/kbukum/flowstack/workflow"
)

// Service routes generation requests to a named provider and adds retry
// around the network call. It implements workflow.Generator.
type Service struct {
	providers       map[string]Provider
	defaultProvider string
	retry           resilience.RetryConfig
	log             *logger.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRetryConfig overrides the retry policy for provider calls.
func WithRetryConfig(cfg resilience.RetryConfig) ServiceOption {
	return func(s *Service) { s.retry = cfg }
}

// NewService creates a generation service over the given provider instances.
func NewService(providers map[string]Provider, defaultProvider string, opts ...ServiceOption) *Service {
	s := &Service{
		providers:       providers,
		defaultProvider: defaultProvider,
		retry:           resilience.DefaultRetryConfig(),
		log:             logger.WithComponent("llm"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces a model response for a workflow generation step.
func (s *Service) Generate(ctx context.Context, in workflow.GenerateInput) (workflow.GenerateOutput, error) {
	name := in.Provider
	if name == "" {
		name = s.defaultProvider
	}

	p, ok := s.providers[name]
	if !ok {
		return workflow.GenerateOutput{}, fmt.Errorf("unsupported provider: %s", name)
	}
	if !p.IsAvailable(ctx) {
		return workflow.GenerateOutput{}, fmt.Errorf("%s client not configured", name)
	}

	req := GenerateRequest{
		Query:        in.Query,
		Context:      in.Context,
		Model:        in.Model,
		Temperature:  in.Temperature,
		MaxTokens:    in.MaxTokens,
		SystemPrompt: in.SystemPrompt,
	}

	resp, err := resilience.Retry(ctx, s.retry, func() (*GenerateResponse, error) {
		return p.Generate(ctx, req)
	})
	if err != nil {
		s.log.Error("generation failed", logger.Fields(
			logger.FieldProvider, name,
			logger.FieldError, err.Error(),
		))
		return workflow.GenerateOutput{}, err
	}

	s.log.Debug("generation completed", logger.Fields(
		logger.FieldProvider, resp.Provider,
		"model", resp.Model,
	))

	return workflow.GenerateOutput{
		Response: resp.Response,
		Model:    resp.Model,
		Provider: resp.Provider,
	}, nil
}

// Embed returns the embedding vector for text using the named provider, or
// the default provider when name is empty.
func (s *Service) Embed(ctx context.Context, text, name string) ([]float32, error) {
	if name == "" {
		name = s.defaultProvider
	}

	p, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	if !p.IsAvailable(ctx) {
		return nil, fmt.Errorf("%s client not configured", name)
	}

	return resilience.Retry(ctx, s.retry, func() ([]float32, error) {
		return p.Embed(ctx, text)
	})
}

// Providers returns the names of the configured provider instances.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}
