package provider

import (
	"context"
	"fmt"
)

// PrioritySelector resolves providers by a configured preference order. The
// search service uses it to decide which backends to consult, and in what
// order, when building fallback context.
type PrioritySelector[T Provider] struct {
	priority []string
}

// NewPrioritySelector creates a selector over the given preference order.
func NewPrioritySelector[T Provider](priority []string) *PrioritySelector[T] {
	return &PrioritySelector[T]{priority: priority}
}

// Order returns the configured preference order.
func (s *PrioritySelector[T]) Order() []string { return s.priority }

// Select returns the first provider in preference order that is registered
// and reports itself available.
func (s *PrioritySelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	for _, name := range s.priority {
		if p, ok := providers[name]; ok && p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("no available provider in priority order %v", s.priority)
}

// Candidates returns the names of registered, available providers in
// preference order. Callers whose fallback depends on each provider's result
// iterate these rather than committing to the first pick.
func (s *PrioritySelector[T]) Candidates(ctx context.Context, providers map[string]T) []string {
	names := make([]string, 0, len(s.priority))
	for _, name := range s.priority {
		if p, ok := providers[name]; ok && p.IsAvailable(ctx) {
			names = append(names, name)
		}
	}
	return names
}
