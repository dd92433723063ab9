package journey

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/drawmyfeelings/journey/internal/shardqueue"
)

// ErrNotFound is returned for an unknown journey id.
var ErrNotFound = errors.New("journey not found")

// Registry holds many journeys that share one Generator and one bounded
// executor. Calls of different journeys run in parallel up to the shard
// count; calls of one journey stay in order.
type Registry struct {
	gen  Generator
	exec *shardqueue.ShardExecutor
	log  zerolog.Logger

	mu       sync.RWMutex
	journeys map[string]*Machine
	closed   bool
}

// NewRegistry starts the shared executor described by cfg.
func NewRegistry(gen Generator, cfg shardqueue.Config, log zerolog.Logger) (*Registry, error) {
	if gen == nil {
		return nil, errors.New("generator cannot be nil")
	}
	cfg.Logger = log
	return &Registry{
		gen:      gen,
		exec:     shardqueue.NewShardExecutor(cfg),
		log:      log.With().Str("component", "registry").Logger(),
		journeys: make(map[string]*Machine),
	}, nil
}

// Open starts a new journey in the Initial state.
func (r *Registry) Open() (*Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	m, err := New(r.gen, WithExecutor(r.exec), WithLogger(r.log))
	if err != nil {
		return nil, errors.Wrap(err, "open journey")
	}
	r.journeys[m.ID()] = m
	openJourneys.Inc()
	r.log.Debug().Str("journey", m.ID()).Int("open", len(r.journeys)).Msg("journey opened")
	return m, nil
}

// Get returns the journey with id.
func (r *Registry) Get(id string) (*Machine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.journeys[id]
	return m, ok
}

// Len reports how many journeys are open.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.journeys)
}

// Close closes and forgets the journey with id.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	m, ok := r.journeys[id]
	if ok {
		delete(r.journeys, id)
		openJourneys.Dec()
	}
	r.mu.Unlock()

	if !ok {
		return errors.Wrap(ErrNotFound, id)
	}
	return m.Close()
}

// CloseAll closes every journey and stops the shared executor. Further Open
// calls fail with ErrClosed.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	journeys := r.journeys
	r.journeys = make(map[string]*Machine)
	openJourneys.Sub(float64(len(journeys)))
	r.mu.Unlock()

	for _, m := range journeys {
		_ = m.Close()
	}
	r.exec.Stop()
	r.log.Debug().Int("closed", len(journeys)).Msg("registry closed")
	return nil
}
