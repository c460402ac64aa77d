package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-cloud/newsllm/internal/config"
	"github.com/north-cloud/newsllm/internal/logger"
)

func TestProviderRegistryUnknownName(t *testing.T) {
	r := NewProviderRegistry()

	_, err := r.Get("nonexistent")
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestProviderRegistryCachesInstances(t *testing.T) {
	r := NewProviderRegistry()

	built := 0
	r.Register("stub", func() (Provider, error) {
		built++
		return &stubProvider{}, nil
	})

	a, err := r.Get("stub")
	require.NoError(t, err)
	b, err := r.Get("stub")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, built)
}

func TestDefaultRegistryKnownProviders(t *testing.T) {
	cfg := &config.Config{
		OpenRouterAPIKey: "or-key",
		OpenAIAPIKey:     "oa-key",
		AnthropicAPIKey:  "an-key",
	}
	r := DefaultRegistry(cfg, logger.NewNop())

	for _, name := range []string{"openrouter", "openai", "anthropic"} {
		p, err := r.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}
}

func TestDefaultRegistryMissingCredentials(t *testing.T) {
	r := DefaultRegistry(&config.Config{}, logger.NewNop())

	_, err := r.Get("openrouter")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}
