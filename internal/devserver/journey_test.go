package devserver

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/wire"
	"github.com/drawmyfeelings/journey/journey"
)

func awaitState(t *testing.T, m *journey.Machine, pred func(journey.Snapshot) bool) journey.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := m.Await(ctx, pred)
	require.NoError(t, err)
	return s
}

// A full journey against the dev service, with one transient failure on the
// story that a retry recovers from.
func TestJourneyAgainstDevService(t *testing.T) {
	s, base := startServer(t)
	m, err := journey.New(newClient(t, base))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	require.True(t, m.ProbeAvailability(context.Background()))
	require.NoError(t, m.Begin())
	require.NoError(t, m.ChooseCategory(emotion.Bad))
	for _, id := range []emotion.ID{emotion.FreakedOut, emotion.Down} {
		_, err := m.ToggleEmotion(id)
		require.NoError(t, err)
	}
	require.NoError(t, m.SubmitFeelingRequest())
	snap := awaitState(t, m, journey.In(journey.KindFeelingReady))
	assert.Equal(t, []string{"#C8A0E8", "#A0B8D4", "#FFD700", "#FF6B6B"}, snap.Feeling.DominantColors)

	require.NoError(t, m.Elaborate())
	require.NoError(t, m.SetStoryText(strings.Repeat("I could not sleep before the exam. ", 3)))

	var failed atomic.Bool
	s.SetFaults(func(endpoint string) *Fault {
		if endpoint == EndpointStory && failed.CompareAndSwap(false, true) {
			return &Fault{Status: http.StatusServiceUnavailable}
		}
		return nil
	})
	require.NoError(t, m.SubmitStoryRequest())
	snap = awaitState(t, m, func(s journey.Snapshot) bool { return s.Failure != nil })
	assert.Equal(t, journey.KindFreeTextInput, snap.State.Kind())
	assert.Equal(t, wire.CodeServiceError, snap.Failure.Code)
	require.True(t, snap.CanRetry())

	require.NoError(t, m.RetryLastRequest())
	snap = awaitState(t, m, journey.In(journey.KindStoryReady))
	require.NotNil(t, snap.Story)
	assert.Equal(t, "en", snap.Story.Analysis.Language)
	assert.Equal(t, "Anxiety", snap.Story.Analysis.Factors[0].Label)

	require.NoError(t, m.StartOver())
	snap = m.Snapshot()
	assert.Equal(t, journey.KindInitial, snap.State.Kind())
	assert.True(t, snap.Input.Empty())
	assert.Nil(t, snap.Feeling)
	assert.Nil(t, snap.Story)
}
