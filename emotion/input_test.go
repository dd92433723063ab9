package emotion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanSubmitStory(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"49", strings.Repeat("a", 49), false},
		{"50", strings.Repeat("a", 50), true},
		{"padded 49", "     " + strings.Repeat("b", 49) + "      ", false},
		{"whitespace only", strings.Repeat(" \n\t", 100), false},
		{"inner spaces count", strings.Repeat("ab ", 16) + "ab", true},
		{"runes not bytes", strings.Repeat("情", 50), true},
		{"49 runes", strings.Repeat("情", 49), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanSubmitStory(tc.text))
		})
	}
}

func TestInputToggleIsInvolution(t *testing.T) {
	in := NewInput()
	_, err := in.Toggle(Chill)
	require.NoError(t, err)
	before := in.Emotions()

	on, err := in.Toggle(Cozy)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = in.Toggle(Cozy)
	require.NoError(t, err)
	assert.False(t, on)

	assert.Equal(t, before, in.Emotions())
}

func TestInputToggleUnknown(t *testing.T) {
	in := NewInput()
	_, err := in.Toggle("ecstatic")
	assert.ErrorIs(t, err, ErrUnknownEmotion)
	assert.Empty(t, in.Emotions())
}

func TestInputGates(t *testing.T) {
	in := NewInput()
	assert.False(t, in.CanRequestFeeling())

	in.SetCategory(Good)
	assert.False(t, in.CanRequestFeeling())

	_, _ = in.Toggle(Content)
	assert.True(t, in.CanRequestFeeling())
	assert.False(t, in.CanRequestStory())

	require.NoError(t, in.SetStoryText(strings.Repeat("x", 50)))
	assert.True(t, in.CanRequestStory())
}

func TestInputStoryBound(t *testing.T) {
	in := NewInput()
	require.NoError(t, in.SetStoryText("hello"))
	err := in.SetStoryText(strings.Repeat("x", MaxStoryLength+1))
	assert.ErrorIs(t, err, ErrStoryTooLong)
	assert.Equal(t, "hello", in.StoryText())
	assert.NoError(t, in.SetStoryText(strings.Repeat("x", MaxStoryLength)))
}

func TestInputResets(t *testing.T) {
	in := NewInput()
	in.SetCategory(Bad)
	_, _ = in.Toggle(Down)
	_ = in.SetStoryText("something")

	in.ClearEmotions()
	v := in.View()
	assert.Equal(t, Bad, v.Category)
	assert.Empty(t, v.Emotions)
	assert.Equal(t, "something", v.StoryText)

	in.Reset()
	assert.True(t, in.View().Empty())
	_, ok := in.Category()
	assert.False(t, ok)
}

func TestResultsAreCopies(t *testing.T) {
	img := []byte{1, 2, 3}
	colors := []string{"#1", "#2", "#3"}
	r := NewFeelingResult(Artifact{Image: img, DominantColors: colors})
	img[0] = 9
	colors[0] = "#9"
	assert.Equal(t, byte(1), r.Image[0])
	assert.Equal(t, "#1", r.DominantColors[0])

	factors := []Factor{{Label: "work", Insight: "deadline"}}
	s := NewStoryResult(Artifact{}, Analysis{Factors: factors})
	factors[0].Label = "changed"
	assert.Equal(t, "work", s.Analysis.Factors[0].Label)
}
