package summarizer

import (
	"fmt"
	"sync"

	"github.com/north-cloud/newsllm/internal/config"
	"github.com/north-cloud/newsllm/internal/logger"
)

// ProviderFactory constructs a provider on first use. Construction is where
// credential validation happens, so configuration errors surface when a
// provider is actually selected.
type ProviderFactory func() (Provider, error)

// ProviderRegistry maps provider names to factories and caches the
// constructed instances. Selecting an unknown name is ErrProviderNotFound,
// distinct from any credential or call failure.
type ProviderRegistry struct {
	mu        sync.Mutex
	factories map[string]ProviderFactory
	instances map[string]Provider
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		factories: make(map[string]ProviderFactory),
		instances: make(map[string]Provider),
	}
}

// Register adds a named provider factory.
func (r *ProviderRegistry) Register(name string, f ProviderFactory) {
	r.mu.Lock()
	r.factories[name] = f
	r.mu.Unlock()
}

// Get returns the provider registered under name, constructing it on first
// use.
func (r *ProviderRegistry) Get(name string) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.instances[name]; ok {
		return p, nil
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, name)
	}
	p, err := f()
	if err != nil {
		return nil, err
	}
	r.instances[name] = p
	return p, nil
}

// DefaultRegistry wires the known providers against the process config.
func DefaultRegistry(cfg *config.Config, log logger.Logger) *ProviderRegistry {
	r := NewProviderRegistry()
	r.Register("openrouter", func() (Provider, error) {
		return NewOpenRouter(cfg.OpenRouterAPIKey, log)
	})
	r.Register("openai", func() (Provider, error) {
		return NewOpenAI(cfg.OpenAIAPIKey, log)
	})
	r.Register("anthropic", func() (Provider, error) {
		return NewAnthropic(cfg.AnthropicAPIKey, log)
	})
	return r
}
