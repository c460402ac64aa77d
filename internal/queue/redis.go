package queue

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/north-cloud/newsllm/internal/logger"
)

const connectionTimeout = 2 * time.Second

// Redis is the durable queue backend. Items live in a Redis list keyed by
// the queue name: LPush on enqueue, RPop on dequeue, so consumption is FIFO
// and the atomic pop is safe under concurrent workers.
type Redis struct {
	name   string
	client *redis.Client
	logger logger.Logger
}

// NewRedis connects to the Redis endpoint at rawURL and verifies it with a
// bounded ping. An unparseable or unreachable endpoint is a configuration
// error surfaced here, before any enqueue is attempted.
func NewRedis(name, rawURL string, log logger.Logger) (*Redis, error) {
	if rawURL == "" {
		return nil, ErrRedisURLNotSet
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis queue url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis queue: %w", err)
	}

	log.Info("redis queue initialized", logger.String("queue", name))
	return &Redis{name: name, client: client, logger: log}, nil
}

// Name returns the logical queue name.
func (q *Redis) Name() string { return q.name }

// Enqueue pushes an item onto the left of the list.
func (q *Redis) Enqueue(ctx context.Context, item string) error {
	if err := q.client.LPush(ctx, q.name, item).Err(); err != nil {
		return fmt.Errorf("enqueue to %s: %w", q.name, err)
	}
	q.logger.Debug("enqueued item", logger.String("queue", q.name), logger.String("item", truncate(item)))
	return nil
}

// Dequeue pops the oldest item from the right of the list.
func (q *Redis) Dequeue(ctx context.Context) (string, bool, error) {
	item, err := q.client.RPop(ctx, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("dequeue from %s: %w", q.name, err)
	}
	q.logger.Debug("dequeued item", logger.String("queue", q.name), logger.String("item", truncate(item)))
	return item, true, nil
}

// Drain pulls items until the list is empty. A backend error terminates the
// sequence after logging; items already committed stay in Redis.
func (q *Redis) Drain(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			item, ok, err := q.Dequeue(ctx)
			if err != nil {
				q.logger.Error("drain aborted", logger.String("queue", q.name), logger.Error(err))
				return
			}
			if !ok {
				return
			}
			if !yield(item) {
				return
			}
		}
	}
}

// Size reports the list length.
func (q *Redis) Size(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.name).Result()
	if err != nil {
		return 0, fmt.Errorf("size of %s: %w", q.name, err)
	}
	return n, nil
}

// Clear deletes the list key.
func (q *Redis) Clear(ctx context.Context) error {
	if err := q.client.Del(ctx, q.name).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", q.name, err)
	}
	q.logger.Info("queue cleared", logger.String("queue", q.name))
	return nil
}

// Close releases the underlying client connection.
func (q *Redis) Close() error {
	return q.client.Close()
}
