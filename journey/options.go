package journey

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/drawmyfeelings/journey/internal/shardqueue"
)

// Option configures a Machine.
type Option func(*Machine) error

// WithExecutor runs generation calls on exec instead of a private executor.
// The caller keeps ownership of exec.
func WithExecutor(exec *shardqueue.ShardExecutor) Option {
	return func(m *Machine) error {
		if exec == nil {
			return errors.New("executor cannot be nil")
		}
		m.exec = exec
		return nil
	}
}

// WithLogger sets the logger used for transitions and failures.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) error {
		m.log = l
		return nil
	}
}

// WithID overrides the generated journey id.
func WithID(id string) Option {
	return func(m *Machine) error {
		if id == "" {
			return errors.New("id cannot be empty")
		}
		m.id = id
		return nil
	}
}
