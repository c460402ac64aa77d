// Package queue provides the ordered, named, at-least-once FIFO store that
// mediates between the scrape and summarize stages. Two interchangeable
// backends exist: an in-process deque and a Redis-backed durable list.
package queue

import (
	"context"
	"errors"
	"iter"
)

// Backend names a queue implementation.
type Backend string

const (
	// BackendMemory is the in-process deque, visible within one run only.
	BackendMemory Backend = "memory"
	// BackendRedis is the durable Redis list backend.
	BackendRedis Backend = "redis"
)

var (
	// ErrUnsupportedBackend is returned for backend strings the registry
	// does not know.
	ErrUnsupportedBackend = errors.New("unsupported queue backend")
	// ErrRedisURLNotSet is returned when the redis backend is selected
	// without a connection URL.
	ErrRedisURLNotSet = errors.New("redis queue url not configured")
)

// Queue is the contract every backend implements. Ordering is strict FIFO
// per producer: the Nth item dequeued is the Nth item enqueued.
type Queue interface {
	// Name returns the logical queue name.
	Name() string
	// Enqueue appends an item.
	Enqueue(ctx context.Context, item string) error
	// Dequeue removes and returns the oldest item. An empty queue yields
	// ok=false with a nil error; it is not a failure.
	Dequeue(ctx context.Context) (item string, ok bool, err error)
	// Drain returns a lazy, finite, non-restartable sequence that pulls
	// items until the queue is empty. Each pull reflects the queue's state
	// at that moment, so enqueues from other producers may be observed
	// mid-iteration.
	Drain(ctx context.Context) iter.Seq[string]
	// Size reports the current number of items.
	Size(ctx context.Context) (int64, error)
	// Clear removes all items.
	Clear(ctx context.Context) error
}
