package queue

import (
	"fmt"
	"sync"

	"github.com/north-cloud/newsllm/internal/logger"
)

type registryKey struct {
	backend Backend
	name    string
}

// Registry hands out queue instances and guarantees one live instance per
// (backend, name) pair: repeated Get calls with the same pair return the same
// queue. This keeps "the same" logical queue from diverging in memory and
// avoids redundant Redis connections. The registry is constructed once at
// startup and injected; there is no process-wide hidden state.
type Registry struct {
	redisURL string
	logger   logger.Logger

	mu     sync.Mutex
	queues map[registryKey]Queue
}

// NewRegistry creates a queue registry. redisURL may be empty when only the
// memory backend is used; selecting the redis backend then fails fast.
func NewRegistry(redisURL string, log logger.Logger) *Registry {
	return &Registry{
		redisURL: redisURL,
		logger:   log,
		queues:   make(map[registryKey]Queue),
	}
}

// Get resolves a backend string and returns the queue for name, constructing
// it on first use. Unsupported backends and missing redis configuration are
// configuration errors.
func (r *Registry) Get(backend Backend, name string) (Queue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{backend: backend, name: name}
	if q, ok := r.queues[key]; ok {
		return q, nil
	}

	var (
		q   Queue
		err error
	)
	switch backend {
	case BackendMemory:
		q = NewMemory(name, r.logger)
	case BackendRedis:
		q, err = NewRedis(name, r.redisURL, r.logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
	}

	r.queues[key] = q
	return q, nil
}
