package journey

import (
	"context"

	"github.com/drawmyfeelings/journey/emotion"
)

// Availability is the last answer of ProbeAvailability.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	Available
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of a journey. Results are immutable and
// shared; everything else is copied.
type Snapshot struct {
	ID        string
	Revision  uint64
	State     State
	Input     emotion.InputView
	Feeling   *emotion.FeelingResult
	Story     *emotion.StoryResult
	Failure   *Failure
	Available Availability
}

// Busy reports whether a generation call is outstanding.
func (s Snapshot) Busy() bool {
	_, ok := s.State.(Generating)
	return ok
}

// CanRetry reports whether RetryLastRequest would be accepted.
func (s Snapshot) CanRetry() bool {
	return s.Failure != nil && s.Failure.Retryable && s.Failure.Request.origin().Kind() == s.State.Kind()
}

// Snapshot returns the current view.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:        m.id,
		Revision:  m.revision,
		State:     m.state,
		Input:     m.input.View(),
		Feeling:   m.feeling,
		Story:     m.story,
		Available: m.available,
	}
	if m.failure != nil {
		f := *m.failure
		s.Failure = &f
	}
	return s
}

// Await blocks until pred accepts a snapshot or ctx is done. The current
// snapshot is tested first.
func (m *Machine) Await(ctx context.Context, pred func(Snapshot) bool) (Snapshot, error) {
	for {
		m.mu.Lock()
		s := m.snapshotLocked()
		changed := m.changed
		m.mu.Unlock()

		if pred(s) {
			return s, nil
		}
		if m.isClosed() {
			return s, ErrClosed
		}
		select {
		case <-ctx.Done():
			return s, ctx.Err()
		case <-changed:
		}
	}
}

// Settled matches any snapshot without an outstanding call.
func Settled(s Snapshot) bool { return !s.Busy() }

// In matches snapshots whose state has kind k.
func In(k Kind) func(Snapshot) bool {
	return func(s Snapshot) bool { return s.State.Kind() == k }
}
