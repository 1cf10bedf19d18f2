// Package llm implements the LLM client and provider registry (spec.md
// §4.2, C2): a single generate(prompt) → text contract over four back-ends,
// with retry/backoff, response caching, and JSON-response parsing.
//
// The registry pattern is grounded on the teacher's pkg/registry
// (BaseRegistry[T], populated by explicit registration rather than
// import-time side effects — spec.md §9's "Registry pattern" design note
// calls for exactly this in languages without reliable import-time
// side-effects).
package llm

import (
	"context"
	"fmt"
	"sync"
)

// Provider is the single contract every back-end implements.
type Provider interface {
	// Generate performs one LLM call and returns the provider's raw text.
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
	Name() string
}

// Registry is a generic, thread-safe name → Provider map. Adding a new
// provider requires only an implementation and a call to Register — no
// central switch statement to edit (spec.md §4.2: "The registry is
// extensible").
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under name. Re-registering the same name
// replaces the previous provider, which keeps `init()`-style re-registration
// (e.g. in tests) idempotent.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Get looks up a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("llm: provider %q not registered", name)
	}
	return p, nil
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	return names
}
