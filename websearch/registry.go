package websearch

import "github.com/kbukum/flowstack/provider"

// NewRegistry creates a new provider registry for web search providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
