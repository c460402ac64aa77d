package queue

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-cloud/newsllm/internal/logger"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	srv := miniredis.RunT(t)
	q, err := NewRedis("test", "redis://"+srv.Addr(), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestNewRedisRequiresURL(t *testing.T) {
	_, err := NewRedis("test", "", logger.NewNop())
	assert.ErrorIs(t, err, ErrRedisURLNotSet)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis("test", "::not-a-url", logger.NewNop())
	assert.Error(t, err)
}

func TestRedisFIFO(t *testing.T) {
	ctx := context.Background()
	q := newTestRedis(t)

	for _, item := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(ctx, item))
	}

	var got []string
	for {
		item, ok, err := q.Dequeue(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, item)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestRedisDequeueEmpty(t *testing.T) {
	q := newTestRedis(t)

	item, ok, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, item)
}

func TestRedisSizeAndClear(t *testing.T) {
	ctx := context.Background()
	q := newTestRedis(t)

	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)

	require.NoError(t, q.Clear(ctx))
	size, err = q.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestRedisDrain(t *testing.T) {
	ctx := context.Background()
	q := newTestRedis(t)

	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))

	var got []string
	for item := range q.Drain(ctx) {
		got = append(got, item)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}
