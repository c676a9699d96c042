package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ProviderFactory builds a provider bound to one model. The registry routes
// by provider name; the model comes from the participant being served.
type ProviderFactory func(ctx context.Context, model string) (Provider, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	def       string
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

func (r *Registry) Register(name string, f ProviderFactory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.def == "" {
		r.def = name
	}
	r.factories[name] = f
}

// Get resolves a provider by name. An empty name falls back to the first
// registered provider.
func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	if name == "" {
		name = r.def
	}
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ai provider: %s", name)
	}
	return f(ctx, model)
}
