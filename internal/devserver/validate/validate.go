// Package validate checks visualization requests the way the generation
// service does before any work starts.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/drawmyfeelings/journey/emotion"
)

// ErrTextTooShort is returned by Story for a story under the minimum.
type ErrTextTooShort struct{ Got int }

func (e *ErrTextTooShort) Error() string {
	return fmt.Sprintf("Story text must be at least %d characters (got %d)", emotion.MinStoryLength, e.Got)
}

// Category checks the feeling_category field.
func Category(v string) error {
	if !emotion.Category(v).Valid() {
		return fmt.Errorf("Invalid category '%s'. Must be one of: [good bad not_sure]", v)
	}
	return nil
}

// Emotions checks selected_emotions. what names the purpose in the empty
// case.
func Emotions(v []string, what string) error {
	if len(v) == 0 {
		return fmt.Errorf("%s", what)
	}
	var invalid []string
	for _, id := range v {
		if !emotion.Valid(emotion.ID(id)) {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("Invalid emotions: [%s]", strings.Join(invalid, " "))
	}
	return nil
}

// Story trims v and checks its length in characters. It returns the trimmed
// text.
func Story(v string) (string, error) {
	text := strings.TrimSpace(v)
	n := utf8.RuneCountInString(text)
	if n < emotion.MinStoryLength {
		return "", &ErrTextTooShort{Got: n}
	}
	if n > emotion.MaxStoryLength {
		return "", fmt.Errorf("Story text exceeds maximum length of %d characters (got %d)", emotion.MaxStoryLength, n)
	}
	return text, nil
}
