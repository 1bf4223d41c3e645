// Package provider implements a generic provider framework using Go generics
// for swappable backends.
//
// It provides a registry for managing multiple provider implementations with
// factory-based instantiation, availability checking, and runtime selection.
// The llm and websearch packages build their provider registries on top of it.
//
// # Usage
//
//	reg := provider.NewRegistry[llm.Provider]()
//	reg.RegisterFactory("openai", openai.Factory())
//	p, err := reg.Create("openai", cfg)
//
// A priority selector orders fallback across instantiated providers; the
// websearch service uses it to decide which backends to consult:
//
//	sel := provider.NewPrioritySelector[llm.Provider]([]string{"openai", "gemini"})
//	p, err := sel.Select(ctx, instances)
package provider
