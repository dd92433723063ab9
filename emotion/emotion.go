// Package emotion holds the value types of a feelings journey: the emotion
// taxonomy, the feeling category, the input a user accumulates, and the
// artifacts the generation service returns.
package emotion

import (
	"cmp"
	"fmt"
	"slices"
)

// ID identifies one entry of the emotion table. The set is closed; the
// generation service rejects anything else.
type ID string

const (
	SuperHappy ID = "super_happy"
	Pumped     ID = "pumped"
	Cozy       ID = "cozy"
	Chill      ID = "chill"
	Content    ID = "content"

	Fuming     ID = "fuming"
	FreakedOut ID = "freaked_out"
	MadAsHell  ID = "mad_as_hell"
	Blah       ID = "blah"
	Down       ID = "down"
	BoredStiff ID = "bored_stiff"
)

// Valence groups emotions for the second questionnaire level.
type Valence int

const (
	Positive Valence = iota
	Negative
)

func (v Valence) String() string {
	switch v {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("Valence(%d)", int(v))
	}
}

// Energy is the intensity the image prompt associates with an emotion.
type Energy string

const (
	Calm     Energy = "calm"
	Moderate Energy = "moderate"
	Intense  Energy = "intense"
)

// Emotion is one row of the static emotion table.
type Emotion struct {
	ID      ID
	Label   string
	Valence Valence
	Energy  Energy
	// Palette holds hex colours; the first one is the emotion's dominant colour.
	Palette []string
}

var table = []Emotion{
	{SuperHappy, "Super happy", Positive, Moderate, []string{"#FFE4A0", "#FFB899", "#FFD4E5"}},
	{Pumped, "Pumped", Positive, Intense, []string{"#FFB5A0", "#FFDAB9", "#FFD700"}},
	{Cozy, "Cozy", Positive, Calm, []string{"#D4B896", "#E2A68F", "#FFFDD0"}},
	{Chill, "Chill", Positive, Calm, []string{"#A8E6CF", "#9DC183", "#ADD8E6"}},
	{Content, "Content", Positive, Calm, []string{"#D4C4E8", "#D4A5A5", "#C4C4BC"}},
	{Fuming, "Fuming", Negative, Intense, []string{"#E8A0A0", "#C25A5A", "#A89F9F"}},
	{FreakedOut, "Freaked out", Negative, Intense, []string{"#C8A0E8", "#B0B0B0", "#8FA8C8"}},
	{MadAsHell, "Mad as hell", Negative, Intense, []string{"#8B4570", "#722F37", "#36454F"}},
	{Blah, "Blah", Negative, Calm, []string{"#B0C4D4", "#C4B8A8", "#B8AFA0"}},
	{Down, "Down", Negative, Calm, []string{"#A0B8D4", "#9FA8DA", "#6B7B8C"}},
	{BoredStiff, "Bored stiff", Negative, Calm, []string{"#D4D0C4", "#C5C99B", "#C2B280"}},
}

var byID = make(map[ID]int, len(table))

func init() {
	for i, e := range table {
		byID[e.ID] = i
	}
}

// FallbackColors pad the dominant colours when fewer than three emotions
// contribute one.
var FallbackColors = []string{"#FFD700", "#FF6B6B", "#4ECDC4", "#A78BFA"}

// Lookup returns the table entry for id.
func Lookup(id ID) (Emotion, bool) {
	i, ok := byID[id]
	if !ok {
		return Emotion{}, false
	}
	return clone(table[i]), true
}

// Valid reports whether id is part of the emotion table.
func Valid(id ID) bool {
	_, ok := byID[id]
	return ok
}

// All returns the emotion table in display order.
func All() []Emotion {
	out := make([]Emotion, 0, len(table))
	for _, e := range table {
		out = append(out, clone(e))
	}
	return out
}

// ForCategory returns the emotions offered once c has been chosen. An
// uncertain user gets the full table.
func ForCategory(c Category) []Emotion {
	out := make([]Emotion, 0, len(table))
	for _, e := range table {
		switch {
		case c == Good && e.Valence == Positive,
			c == Bad && e.Valence == Negative,
			c == Uncertain:
			out = append(out, clone(e))
		}
	}
	return out
}

// DominantColors takes the first palette colour of each known emotion. When
// fewer than three contribute, unused FallbackColors are appended until there
// are four. The result never exceeds four.
func DominantColors(ids []ID) []string {
	colors := make([]string, 0, 4)
	for _, id := range ids {
		if e, ok := Lookup(id); ok && len(e.Palette) > 0 {
			colors = append(colors, e.Palette[0])
		}
	}
	if len(colors) < 3 {
		for _, fb := range FallbackColors {
			if !slices.Contains(colors, fb) {
				colors = append(colors, fb)
			}
			if len(colors) >= 4 {
				break
			}
		}
	}
	if len(colors) > 4 {
		colors = colors[:4]
	}
	return colors
}

// SortIDs orders ids by their position in the emotion table; unknown ids go
// last in lexical order.
func SortIDs(ids []ID) {
	rank := func(id ID) int {
		if i, ok := byID[id]; ok {
			return i
		}
		return len(table)
	}
	slices.SortFunc(ids, func(a, b ID) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

func clone(e Emotion) Emotion {
	e.Palette = append([]string(nil), e.Palette...)
	return e
}
