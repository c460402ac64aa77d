package queue

import (
	"context"
	"iter"
	"sync"

	"github.com/north-cloud/newsllm/internal/logger"
)

// Memory is an unbounded in-process FIFO. The mutex makes concurrent
// enqueue/dequeue from multiple workers safe without double-delivery.
type Memory struct {
	name   string
	logger logger.Logger

	mu    sync.Mutex
	items []string
}

// NewMemory creates an in-process queue with the given name.
func NewMemory(name string, log logger.Logger) *Memory {
	log.Debug("memory queue initialized", logger.String("queue", name))
	return &Memory{name: name, logger: log}
}

// Name returns the logical queue name.
func (q *Memory) Name() string { return q.name }

// Enqueue appends an item.
func (q *Memory) Enqueue(_ context.Context, item string) error {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.logger.Debug("enqueued item", logger.String("queue", q.name), logger.String("item", truncate(item)))
	return nil
}

// Dequeue pops the oldest item. Empty queue yields ok=false, no error.
func (q *Memory) Dequeue(_ context.Context) (string, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", false, nil
	}
	item := q.items[0]
	q.items = q.items[1:]
	q.logger.Debug("dequeued item", logger.String("queue", q.name), logger.String("item", truncate(item)))
	return item, true, nil
}

// Drain pulls items until the queue is empty.
func (q *Memory) Drain(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			item, ok, _ := q.Dequeue(ctx)
			if !ok {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Size reports the current item count.
func (q *Memory) Size(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}

// Clear removes all items.
func (q *Memory) Clear(_ context.Context) error {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
	q.logger.Debug("queue cleared", logger.String("queue", q.name))
	return nil
}

const logItemMax = 30

func truncate(s string) string {
	if len(s) > logItemMax {
		return s[:logItemMax]
	}
	return s
}
