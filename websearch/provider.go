// Package websearch defines the web search provider interface and a service
// that fans out across providers or falls back through them in order.
package websearch

import (
	"context"

	"github.com/kbukum/flowstack/provider"
)

// Provider is the interface that web search backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Search returns up to maxResults web hits for the query.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
