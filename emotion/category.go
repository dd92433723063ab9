package emotion

import "fmt"

// Category is the first-level questionnaire answer. The string value is the
// wire value sent as feeling_category.
type Category string

const (
	Good      Category = "good"
	Bad       Category = "bad"
	Uncertain Category = "not_sure"
)

// Valid reports whether c is one of the three categories.
func (c Category) Valid() bool {
	switch c {
	case Good, Bad, Uncertain:
		return true
	}
	return false
}

// ParseCategory accepts the wire value and the "uncertain" alias.
func ParseCategory(s string) (Category, error) {
	switch s {
	case string(Good):
		return Good, nil
	case string(Bad):
		return Bad, nil
	case string(Uncertain), "uncertain":
		return Uncertain, nil
	}
	return "", fmt.Errorf("invalid feeling category %q", s)
}
