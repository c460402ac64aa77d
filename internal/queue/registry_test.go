package queue

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-cloud/newsllm/internal/logger"
)

func TestRegistryReturnsSameInstancePerPair(t *testing.T) {
	r := NewRegistry("", logger.NewNop())

	a, err := r.Get(BackendMemory, "llm-queue")
	require.NoError(t, err)
	b, err := r.Get(BackendMemory, "llm-queue")
	require.NoError(t, err)

	assert.Same(t, a, b)
}

func TestRegistryDistinctNamesDistinctQueues(t *testing.T) {
	r := NewRegistry("", logger.NewNop())

	a, err := r.Get(BackendMemory, "one")
	require.NoError(t, err)
	b, err := r.Get(BackendMemory, "two")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, "one", a.Name())
	assert.Equal(t, "two", b.Name())
}

func TestRegistryUnsupportedBackend(t *testing.T) {
	r := NewRegistry("", logger.NewNop())

	_, err := r.Get(Backend("kafka"), "llm-queue")
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestRegistryRedisWithoutURL(t *testing.T) {
	r := NewRegistry("", logger.NewNop())

	_, err := r.Get(BackendRedis, "llm-queue")
	assert.ErrorIs(t, err, ErrRedisURLNotSet)
}

func TestRegistryRedisBackend(t *testing.T) {
	srv := miniredis.RunT(t)
	r := NewRegistry("redis://"+srv.Addr(), logger.NewNop())

	a, err := r.Get(BackendRedis, "llm-queue")
	require.NoError(t, err)
	b, err := r.Get(BackendRedis, "llm-queue")
	require.NoError(t, err)

	assert.Same(t, a, b)

	// Same name on a different backend is a different queue.
	m, err := r.Get(BackendMemory, "llm-queue")
	require.NoError(t, err)
	assert.NotSame(t, a, m)
}
