package devserver

import (
	"fmt"
	"strings"

	"github.com/drawmyfeelings/journey/emotion"
	"github.com/drawmyfeelings/journey/internal/wire"
)

const feelingStyle = "Abstract art visualization, no recognizable objects or people, soft muted pastel tones"

const storyStyle = "2D cartoon infographic, central scene with four surrounding panels, no text in the image"

var categoryMood = map[emotion.Category]string{
	emotion.Good:      "an overall pleasant mood",
	emotion.Bad:       "an overall heavy mood",
	emotion.Uncertain: "a mixed, unsettled mood",
}

func feelingPrompt(c emotion.Category, ids []emotion.ID) string {
	return fmt.Sprintf("%s. Expressing %s: %s.", feelingStyle, categoryMood[c], describe(ids))
}

func storyPrompt(c emotion.Category, ids []emotion.ID, a *wire.StoryAnalysis) string {
	labels := make([]string, len(a.Factors))
	for i, f := range a.Factors {
		labels[i] = f.Factor
	}
	return fmt.Sprintf("%s. Central stressor: %s. Factors: %s. Expressing %s: %s.",
		storyStyle, a.CentralStressor, strings.Join(labels, ", "), categoryMood[c], describe(ids))
}

func describe(ids []emotion.ID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if e, ok := emotion.Lookup(id); ok {
			parts = append(parts, fmt.Sprintf("%s (%s energy, %s)", strings.ToLower(e.Label), e.Energy, strings.Join(e.Palette, " ")))
		}
	}
	return strings.Join(parts, "; ")
}
