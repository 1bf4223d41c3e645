package websearch

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/flowstack/logger"
	"github.com/kbukum/flowstack/provider"
	"github.com/kbukum/flowstack/resilience"
)

// DefaultMaxResults bounds a search when the caller passes no limit.
const DefaultMaxResults = 5

// Service routes search requests to named providers. Fallback (trying
// providers in order until one returns results) and fan-out (querying all
// providers concurrently) are separate operations with distinct semantics.
// It implements workflow.WebSearcher.
type Service struct {
	providers map[string]Provider
	// selector orders the fallback used by RelevantContext and SearchAll.
	selector *provider.PrioritySelector[Provider]
	breakers map[string]*resilience.CircuitBreaker
	log      *logger.Logger
}

// NewService creates a search service over the given provider instances.
// Priority determines fallback order; each provider gets its own circuit
// breaker so a flapping backend fails fast instead of burning its timeout.
func NewService(providers map[string]Provider, priority []string) *Service {
	breakers := make(map[string]*resilience.CircuitBreaker, len(providers))
	for name := range providers {
		breakers[name] = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("websearch." + name))
	}
	return &Service{
		providers: providers,
		selector:  provider.NewPrioritySelector[Provider](priority),
		breakers:  breakers,
		log:       logger.WithComponent("websearch"),
	}
}

// SearchWeb queries a single named provider.
func (s *Service) SearchWeb(ctx context.Context, query, providerName string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	p, ok := s.providers[providerName]
	if !ok {
		return nil, fmt.Errorf("unsupported search provider: %s", providerName)
	}

	var results []Result
	err := s.breakers[providerName].Execute(func() error {
		var searchErr error
		results, searchErr = p.Search(ctx, query, maxResults)
		return searchErr
	})
	if err != nil {
		s.log.Error("web search failed", logger.Fields(
			logger.FieldProvider, providerName,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	return results, nil
}

// SearchAll queries the named providers concurrently and returns a map from
// provider name to its results. A failing provider contributes an empty
// list; one provider's failure never blocks or poisons another's result.
func (s *Service) SearchAll(ctx context.Context, query string, providerNames []string, maxResults int) map[string][]Result {
	if len(providerNames) == 0 {
		providerNames = s.selector.Order()
	}

	combined := make(map[string][]Result, len(providerNames))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range providerNames {
		wg.Add(1)
		go func(providerName string) {
			defer wg.Done()

			results, err := s.SearchWeb(ctx, query, providerName, maxResults)
			if err != nil {
				results = []Result{}
			}

			mu.Lock()
			combined[providerName] = results
			mu.Unlock()
		}(name)
	}

	wg.Wait()
	return combined
}

// RelevantContext tries providers in priority order and returns the first
// non-empty result set formatted as LLM context. It never fails: when every
// provider errors or returns nothing, the context is simply "".
func (s *Service) RelevantContext(ctx context.Context, query string, maxResults int) string {
	for _, name := range s.selector.Candidates(ctx, s.providers) {
		results, err := s.SearchWeb(ctx, query, name, maxResults)
		if err != nil {
			s.log.Warn("search failed, trying next provider", logger.Fields(
				logger.FieldProvider, name,
				logger.FieldError, err.Error(),
			))
			continue
		}
		if len(results) > 0 {
			return FormatResults(results)
		}
	}
	return ""
}

// Providers returns the names of the configured provider instances.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}
