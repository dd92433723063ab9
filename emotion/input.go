package emotion

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// MinStoryLength is the minimum trimmed rune count of a story.
	MinStoryLength = 50
	// MaxStoryLength bounds the stored story text.
	MaxStoryLength = 5000
)

// ErrStoryTooLong is returned by SetStoryText when text exceeds MaxStoryLength.
var ErrStoryTooLong = errors.New("story text exceeds 5000 characters")

// ErrUnknownEmotion is returned when an id is not part of the emotion table.
var ErrUnknownEmotion = errors.New("unknown emotion")

// CanSubmitStory reports whether text is long enough once leading and
// trailing whitespace is removed.
func CanSubmitStory(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinStoryLength
}

// Input is what a user has entered so far. It is not safe for concurrent use;
// a single owner mutates it.
type Input struct {
	category  Category
	selected  map[ID]struct{}
	storyText string
}

// NewInput returns an empty Input.
func NewInput() *Input {
	return &Input{selected: make(map[ID]struct{})}
}

// Category returns the chosen category and whether one is set.
func (in *Input) Category() (Category, bool) {
	return in.category, in.category != ""
}

// SetCategory records c.
func (in *Input) SetCategory(c Category) {
	in.category = c
}

// Toggle adds id if absent and removes it if present. It reports whether id
// is selected afterwards.
func (in *Input) Toggle(id ID) (bool, error) {
	if !Valid(id) {
		return false, ErrUnknownEmotion
	}
	if _, ok := in.selected[id]; ok {
		delete(in.selected, id)
		return false, nil
	}
	in.selected[id] = struct{}{}
	return true, nil
}

// Selected reports whether id is currently selected.
func (in *Input) Selected(id ID) bool {
	_, ok := in.selected[id]
	return ok
}

// Emotions returns the selection in table order.
func (in *Input) Emotions() []ID {
	ids := make([]ID, 0, len(in.selected))
	for id := range in.selected {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// StoryText returns the story as entered, untrimmed.
func (in *Input) StoryText() string { return in.storyText }

// SetStoryText replaces the story. Text longer than MaxStoryLength runes is
// rejected and the previous text kept.
func (in *Input) SetStoryText(text string) error {
	if utf8.RuneCountInString(text) > MaxStoryLength {
		return ErrStoryTooLong
	}
	in.storyText = text
	return nil
}

// CanRequestFeeling requires a category and at least one emotion.
func (in *Input) CanRequestFeeling() bool {
	return in.category != "" && len(in.selected) > 0
}

// CanRequestStory additionally requires a long enough story.
func (in *Input) CanRequestStory() bool {
	return in.CanRequestFeeling() && CanSubmitStory(in.storyText)
}

// ClearEmotions drops the selection only; used when backing out of the
// second questionnaire level.
func (in *Input) ClearEmotions() {
	clear(in.selected)
}

// Reset clears category, selection and story together.
func (in *Input) Reset() {
	in.category = ""
	clear(in.selected)
	in.storyText = ""
}

// View returns an immutable copy for readers.
func (in *Input) View() InputView {
	return InputView{
		Category:  in.category,
		Emotions:  in.Emotions(),
		StoryText: in.storyText,
	}
}

// InputView is a read-only copy of an Input. Category is empty when unset.
type InputView struct {
	Category  Category
	Emotions  []ID
	StoryText string
}

// Empty reports whether nothing has been entered.
func (v InputView) Empty() bool {
	return v.Category == "" && len(v.Emotions) == 0 && v.StoryText == ""
}
