package emotion

import "time"

// Artifact is a generated image and the metadata returned with it.
type Artifact struct {
	Image          []byte
	Format         string
	Width          int
	Height         int
	Prompt         string
	DominantColors []string
	Latency        time.Duration
}

func (a Artifact) clone() Artifact {
	a.Image = append([]byte(nil), a.Image...)
	a.DominantColors = append([]string(nil), a.DominantColors...)
	return a
}

// Factor is one labelled contributor identified in a story.
type Factor struct {
	Label   string
	Insight string
}

// Analysis is the structured reading of a story. Factors keep the order the
// service returned them in; the presentation lays them out corner by corner.
type Analysis struct {
	CentralStressor string
	Factors         []Factor
	// Language is the detected language code of the story, e.g. "en" or "zh".
	Language string
}

// FeelingResult is the artifact generated from category and emotions alone.
// Treat it as read-only once constructed.
type FeelingResult struct {
	Artifact
}

// NewFeelingResult copies a into a new result.
func NewFeelingResult(a Artifact) *FeelingResult {
	return &FeelingResult{Artifact: a.clone()}
}

// StoryResult is the artifact generated from a story, with its analysis.
// Treat it as read-only once constructed.
type StoryResult struct {
	Artifact
	Analysis Analysis
}

// NewStoryResult copies a and an into a new result.
func NewStoryResult(a Artifact, an Analysis) *StoryResult {
	an.Factors = append([]Factor(nil), an.Factors...)
	return &StoryResult{Artifact: a.clone(), Analysis: an}
}
