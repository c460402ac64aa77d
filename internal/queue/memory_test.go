package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-cloud/newsllm/internal/logger"
)

func TestMemoryFIFO(t *testing.T) {
	ctx := context.Background()
	q := NewMemory("test", logger.NewNop())

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

func TestMemoryDequeueEmpty(t *testing.T) {
	q := NewMemory("test", logger.NewNop())

	item, ok, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, item)
}

func TestMemorySizeAndClear(t *testing.T) {
	ctx := context.Background()
	q := NewMemory("test", logger.NewNop())

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

func TestMemoryDrainConsumesUntilEmpty(t *testing.T) {
	ctx := context.Background()
	q := NewMemory("test", logger.NewNop())

	require.NoError(t, q.Enqueue(ctx, "a"))
	require.NoError(t, q.Enqueue(ctx, "b"))

	var got []string
	for item := range q.Drain(ctx) {
		got = append(got, item)
	}
	assert.Equal(t, []string{"a", "b"}, got)

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestMemoryDrainObservesConcurrentEnqueue(t *testing.T) {
	ctx := context.Background()
	q := NewMemory("test", logger.NewNop())

	require.NoError(t, q.Enqueue(ctx, "first"))

	var got []string
	for item := range q.Drain(ctx) {
		got = append(got, item)
		if item == "first" {
			require.NoError(t, q.Enqueue(ctx, "late"))
		}
	}
	assert.Equal(t, []string{"first", "late"}, got)
}

func TestMemoryConcurrentConsumersNoDoubleDelivery(t *testing.T) {
	ctx := context.Background()
	q := NewMemory("test", logger.NewNop())

	const total = 200
	for i := 0; i < total; i++ {
		require.NoError(t, q.Enqueue(ctx, fmt.Sprintf("item-%d", i)))
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
		wg   sync.WaitGroup
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, ok, err := q.Dequeue(ctx)
				assert.NoError(t, err)
				if !ok {
					return
				}
				mu.Lock()
				seen[item]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, total)
	for item, n := range seen {
		assert.Equal(t, 1, n, "item %s delivered %d times", item, n)
	}
}
