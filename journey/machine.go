// Package journey drives one pass through the Draw My Feelings flow: the
// questionnaire, the feeling artifact, the optional story and its analysis.
//
// A Machine is the only writer of its state, input and results. Operations
// validate the current state and return immediately; generation calls run on
// a shard executor and re-enter the machine when they resolve. Every call is
// tagged with a sequence number and a response whose number is no longer
// current is dropped.
package journey

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/shardqueue"
)

// Generator issues generation calls. *client.Client satisfies it.
type Generator interface {
	RequestFeelingArtifact(ctx context.Context, category emotion.Category, emotions []emotion.ID) (*emotion.FeelingResult, error)
	RequestStoryArtifact(ctx context.Context, storyText string, category emotion.Category, emotions []emotion.ID) (*emotion.StoryResult, error)
	CheckAvailability(ctx context.Context) bool
}

// Machine is one journey. It is safe for concurrent use, although the flow
// assumes a single interacting owner.
type Machine struct {
	id      string
	gen     Generator
	exec    *shardqueue.ShardExecutor
	ownExec bool
	log     zerolog.Logger

	mu        sync.Mutex
	state     State
	input     *emotion.Input
	feeling   *emotion.FeelingResult
	story     *emotion.StoryResult
	failure   *Failure
	available Availability
	seq       uint64
	cancel    context.CancelFunc
	revision  uint64
	changed   chan struct{}

	stale  atomic.Uint64
	closed uint32
}

// New constructs a Machine in the Initial state. Without WithExecutor the
// machine runs its calls on a private single-shard executor that Close stops.
func New(gen Generator, opts ...Option) (*Machine, error) {
	if gen == nil {
		return nil, errors.New("generator cannot be nil")
	}
	m := &Machine{
		id:      uuid.NewString(),
		gen:     gen,
		log:     zerolog.Nop(),
		state:   Initial{},
		input:   emotion.NewInput(),
		changed: make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.log = m.log.With().Str("journey", m.id).Logger()
	if m.exec == nil {
		m.exec = shardqueue.NewShardExecutor(shardqueue.Config{Shards: 1, QueueSize: 1, Logger: m.log})
		m.ownExec = true
	}
	return m, nil
}

// ID identifies the journey; it is also its executor key.
func (m *Machine) ID() string { return m.id }

// Begin records the first interaction: Initial → QuestionnaireLevel1.
func (m *Machine) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expectLocked("Begin", KindInitial); err != nil {
		return err
	}
	m.failure = nil
	m.setStateLocked(QuestionnaireLevel1{})
	return nil
}

// ChooseCategory sets the feeling category: QuestionnaireLevel1 →
// QuestionnaireLevel2.
func (m *Machine) ChooseCategory(c emotion.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expectLocked("ChooseCategory", KindQuestionnaireLevel1); err != nil {
		return err
	}
	if !c.Valid() {
		return errors.Wrapf(ErrInvalidCategory, "%q", c)
	}
	m.failure = nil
	m.input.SetCategory(c)
	m.setStateLocked(QuestionnaireLevel2{})
	return nil
}

// ToggleEmotion adds or removes id from the selection and reports whether
// it is selected afterwards. Valid only in QuestionnaireLevel2.
func (m *Machine) ToggleEmotion(id emotion.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expectLocked("ToggleEmotion", KindQuestionnaireLevel2); err != nil {
		return false, err
	}
	selected, err := m.input.Toggle(id)
	if err != nil {
		return false, errors.Wrapf(ErrInvalidEmotion, "%q", id)
	}
	m.failure = nil
	m.notifyLocked()
	return selected, nil
}

// Back moves one step backwards. Leaving QuestionnaireLevel2 clears the
// emotion selection; leaving FreeTextInput keeps the story text.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isClosed() {
		return ErrClosed
	}
	switch m.state.(type) {
	case QuestionnaireLevel1:
		m.failure = nil
		m.setStateLocked(Initial{})
	case QuestionnaireLevel2:
		m.failure = nil
		m.input.ClearEmotions()
		m.setStateLocked(QuestionnaireLevel1{})
	case FreeTextInput:
		m.failure = nil
		m.setStateLocked(FeelingReady{Result: m.feeling})
	default:
		return m.wrongStateLocked("Back")
	}
	return nil
}

// SubmitFeelingRequest issues the feeling call: QuestionnaireLevel2 →
// GeneratingFeeling. An empty selection is rejected locally.
func (m *Machine) SubmitFeelingRequest() error {
	m.mu.Lock()
	if err := m.expectLocked("SubmitFeelingRequest", KindQuestionnaireLevel2); err != nil {
		m.mu.Unlock()
		return err
	}
	if !m.input.CanRequestFeeling() {
		m.mu.Unlock()
		return ErrNoEmotions
	}
	return m.startLocked(RequestFeeling)
}

// Elaborate opens the story step: FeelingReady → FreeTextInput.
func (m *Machine) Elaborate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expectLocked("Elaborate", KindFeelingReady); err != nil {
		return err
	}
	m.failure = nil
	m.setStateLocked(FreeTextInput{})
	return nil
}

// SetStoryText replaces the story text. Valid only in FreeTextInput.
func (m *Machine) SetStoryText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expectLocked("SetStoryText", KindFreeTextInput); err != nil {
		return err
	}
	if err := m.input.SetStoryText(text); err != nil {
		return ErrStoryTooLong
	}
	m.failure = nil
	m.notifyLocked()
	return nil
}

// SubmitStoryRequest issues the story call: FreeTextInput →
// GeneratingStory. A story under 50 characters once trimmed is rejected
// locally.
func (m *Machine) SubmitStoryRequest() error {
	m.mu.Lock()
	if err := m.expectLocked("SubmitStoryRequest", KindFreeTextInput); err != nil {
		m.mu.Unlock()
		return err
	}
	if !emotion.CanSubmitStory(m.input.StoryText()) {
		m.mu.Unlock()
		return ErrStoryTooShort
	}
	if !m.input.CanRequestFeeling() {
		m.mu.Unlock()
		return ErrNoEmotions
	}
	return m.startLocked(RequestStory)
}

// CancelGeneration abandons the outstanding call and returns to the state it
// was issued from, without a result or a failure. A response that still
// arrives is dropped.
func (m *Machine) CancelGeneration() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isClosed() {
		return ErrClosed
	}
	g, ok := m.state.(Generating)
	if !ok {
		return m.wrongStateLocked("CancelGeneration")
	}
	m.abandonLocked()
	m.log.Debug().Uint64("seq", g.Sequence()).Msg("generation canceled")
	if g.Origin() == KindFreeTextInput {
		m.setStateLocked(FreeTextInput{})
	} else {
		m.setStateLocked(QuestionnaireLevel2{})
	}
	return nil
}

// RetryLastRequest re-issues the request that failed. It requires a
// retryable failure whose request belongs to the current state.
func (m *Machine) RetryLastRequest() error {
	m.mu.Lock()
	if m.isClosed() {
		m.mu.Unlock()
		return ErrClosed
	}
	f := m.failure
	if f == nil || !f.Retryable || f.Request.origin().Kind() != m.state.Kind() {
		m.mu.Unlock()
		return ErrNotRetryable
	}
	return m.startLocked(f.Request)
}

// StartOver returns to Initial, clearing the input and both results in one
// step. An outstanding call is canceled first.
func (m *Machine) StartOver() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isClosed() {
		return ErrClosed
	}
	if _, ok := m.state.(Generating); ok {
		m.abandonLocked()
	}
	m.input.Reset()
	m.feeling = nil
	m.story = nil
	m.failure = nil
	m.setStateLocked(Initial{})
	return nil
}

// ProbeAvailability asks the service whether it can take requests and
// records the answer in the snapshot. It never changes the state.
func (m *Machine) ProbeAvailability(ctx context.Context) bool {
	ok := m.gen.CheckAvailability(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.available = Available
	} else {
		m.available = Unavailable
	}
	m.notifyLocked()
	return ok
}

// StaleResponses counts responses dropped because their call was no longer
// current.
func (m *Machine) StaleResponses() uint64 { return m.stale.Load() }

// Close abandons any outstanding call and rejects further operations.
// It stops the executor if the machine owns it. Close is idempotent.
func (m *Machine) Close() error {
	if !atomic.CompareAndSwapUint32(&m.closed, 0, 1) {
		return nil
	}
	m.mu.Lock()
	if _, ok := m.state.(Generating); ok {
		m.abandonLocked()
	}
	m.notifyLocked()
	m.mu.Unlock()

	if m.ownExec {
		m.exec.Stop()
	}
	return nil
}

// ------------------------- internals -------------------------

// startLocked transitions into the generating state for kind and hands the
// call to the executor. It is entered with m.mu held and releases it.
func (m *Machine) startLocked(kind RequestKind) error {
	m.seq++
	seq := m.seq
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.failure = nil

	category, _ := m.input.Category()
	emotions := m.input.Emotions()
	storyText := m.input.StoryText()

	var job shardqueue.JobFunc
	if kind == RequestStory {
		m.setStateLocked(GeneratingStory{Seq: seq})
		job = func(ctx context.Context) error {
			res, err := m.gen.RequestStoryArtifact(ctx, storyText, category, emotions)
			m.resolve(seq, kind, nil, res, err)
			return err
		}
	} else {
		m.setStateLocked(GeneratingFeeling{Seq: seq})
		job = func(ctx context.Context) error {
			res, err := m.gen.RequestFeelingArtifact(ctx, category, emotions)
			m.resolve(seq, kind, res, nil, err)
			return err
		}
	}
	m.mu.Unlock()

	m.log.Debug().Str("request", kind.String()).Uint64("seq", seq).Int("emotions", len(emotions)).Msg("generation submitted")
	if err := m.exec.Submit(ctx, m.id, job); err != nil {
		m.resolve(seq, kind, nil, nil, err)
	}
	return nil
}

// resolve re-enters the machine with the outcome of call seq.
func (m *Machine) resolve(seq uint64, kind RequestKind, feeling *emotion.FeelingResult, story *emotion.StoryResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.state.(Generating)
	if !ok || g.Sequence() != seq || seq != m.seq || m.isClosed() {
		m.stale.Add(1)
		staleResponsesTotal.WithLabelValues(kind.String()).Inc()
		m.log.Debug().Uint64("seq", seq).Uint64("current", m.seq).Msg("dropping stale generation response")
		return
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if err != nil {
		f := newFailure(kind, err)
		m.failure = f
		failuresTotal.WithLabelValues(kind.String(), f.Code).Inc()
		m.log.Warn().Err(err).Str("code", f.Code).Bool("retryable", f.Retryable).Msg("generation failed")
		m.setStateLocked(kind.origin())
		return
	}

	if kind == RequestStory {
		m.story = story
		m.setStateLocked(StoryReady{Result: story})
	} else {
		m.feeling = feeling
		m.setStateLocked(FeelingReady{Result: feeling})
	}
}

// abandonLocked invalidates the outstanding call.
func (m *Machine) abandonLocked() {
	m.seq++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Machine) expectLocked(op string, want Kind) error {
	if m.isClosed() {
		return ErrClosed
	}
	if m.state.Kind() != want {
		return m.wrongStateLocked(op)
	}
	return nil
}

func (m *Machine) wrongStateLocked(op string) error {
	return errors.Wrapf(ErrWrongState, "%s from %s", op, m.state.Kind())
}

func (m *Machine) setStateLocked(s State) {
	from := m.state.Kind()
	m.state = s
	transitionsTotal.WithLabelValues(from.String(), s.Kind().String()).Inc()
	m.log.Debug().Stringer("from", from).Stringer("to", s.Kind()).Msg("transition")
	m.notifyLocked()
}

// notifyLocked publishes a new revision and wakes Await callers.
func (m *Machine) notifyLocked() {
	m.revision++
	close(m.changed)
	m.changed = make(chan struct{})
}

func (m *Machine) isClosed() bool { return atomic.LoadUint32(&m.closed) == 1 }
