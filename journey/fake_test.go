package journey

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drawmyfeelings/journey/emotion"
)

type call struct {
	Request  RequestKind
	Category emotion.Category
	Emotions []emotion.ID
	Story    string
}

// fakeGenerator records calls and answers with the configured functions.
type fakeGenerator struct {
	mu        sync.Mutex
	calls     []call
	entered   chan struct{}
	feeling   func(ctx context.Context) (*emotion.FeelingResult, error)
	story     func(ctx context.Context) (*emotion.StoryResult, error)
	available bool
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		entered: make(chan struct{}, 16),
		feeling: func(context.Context) (*emotion.FeelingResult, error) { return feelingResult(), nil },
		story:   func(context.Context) (*emotion.StoryResult, error) { return storyResult(), nil },
	}
}

func (g *fakeGenerator) RequestFeelingArtifact(ctx context.Context, c emotion.Category, ids []emotion.ID) (*emotion.FeelingResult, error) {
	g.record(call{Request: RequestFeeling, Category: c, Emotions: ids})
	return g.feeling(ctx)
}

func (g *fakeGenerator) RequestStoryArtifact(ctx context.Context, text string, c emotion.Category, ids []emotion.ID) (*emotion.StoryResult, error) {
	g.record(call{Request: RequestStory, Category: c, Emotions: ids, Story: text})
	return g.story(ctx)
}

func (g *fakeGenerator) CheckAvailability(context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.available
}

func (g *fakeGenerator) record(c call) {
	g.mu.Lock()
	g.calls = append(g.calls, c)
	g.mu.Unlock()
	g.entered <- struct{}{}
}

func (g *fakeGenerator) Calls() []call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]call(nil), g.calls...)
}

// blockUntil makes the next calls wait for release while ignoring their
// context, like a service that finishes work nobody waits for anymore.
func (g *fakeGenerator) blockUntil(release <-chan struct{}) {
	g.feeling = func(context.Context) (*emotion.FeelingResult, error) {
		<-release
		return feelingResult(), nil
	}
	g.story = func(context.Context) (*emotion.StoryResult, error) {
		<-release
		return storyResult(), nil
	}
}

func feelingResult() *emotion.FeelingResult {
	return emotion.NewFeelingResult(emotion.Artifact{
		Image:          []byte{0x89, 'P', 'N', 'G'},
		Format:         "png",
		Width:          1024,
		Height:         1024,
		Prompt:         "warm abstract shapes",
		DominantColors: []string{"#D4B896", "#D4C4E8", "#FFD700"},
		Latency:        1500 * time.Millisecond,
	})
}

func storyResult() *emotion.StoryResult {
	return emotion.NewStoryResult(emotion.Artifact{
		Image:          []byte{0x89, 'P', 'N', 'G'},
		Format:         "png",
		Width:          1024,
		Height:         1024,
		DominantColors: []string{"#708090", "#4682B4", "#FFD700"},
	}, emotion.Analysis{
		CentralStressor: "work deadline",
		Factors: []emotion.Factor{
			{Label: "Pressure", Insight: "a"},
			{Label: "Fatigue", Insight: "b"},
			{Label: "Support", Insight: "c"},
		},
		Language: "en",
	})
}

const longStory = "I have been feeling overwhelmed at work lately and cannot rest."

func newMachine(t *testing.T, g Generator, opts ...Option) *Machine {
	t.Helper()
	m, err := New(g, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func await(t *testing.T, m *Machine, pred func(Snapshot) bool) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := m.Await(ctx, pred)
	require.NoError(t, err, "last state %s", s.State.Kind())
	return s
}

func waitEntered(t *testing.T, g *fakeGenerator) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("generator was not called")
	}
}

// toLevel2 walks a fresh machine to QuestionnaireLevel2 with ids selected.
func toLevel2(t *testing.T, m *Machine, c emotion.Category, ids ...emotion.ID) {
	t.Helper()
	require.NoError(t, m.Begin())
	require.NoError(t, m.ChooseCategory(c))
	for _, id := range ids {
		selected, err := m.ToggleEmotion(id)
		require.NoError(t, err)
		require.True(t, selected)
	}
}

// toFreeText walks a fresh machine to FreeTextInput.
func toFreeText(t *testing.T, m *Machine) {
	t.Helper()
	toLevel2(t, m, emotion.Bad, emotion.Down)
	require.NoError(t, m.SubmitFeelingRequest())
	await(t, m, In(KindFeelingReady))
	require.NoError(t, m.Elaborate())
}
