package journey

import (
	"fmt"

	"github.com/drawmyfeelings/journey/emotion"
)

// Kind names a journey state.
type Kind int

const (
	KindInitial Kind = iota
	KindQuestionnaireLevel1
	KindQuestionnaireLevel2
	KindGeneratingFeeling
	KindFeelingReady
	KindFreeTextInput
	KindGeneratingStory
	KindStoryReady
)

func (k Kind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindQuestionnaireLevel1:
		return "questionnaire_level1"
	case KindQuestionnaireLevel2:
		return "questionnaire_level2"
	case KindGeneratingFeeling:
		return "generating_feeling"
	case KindFeelingReady:
		return "feeling_ready"
	case KindFreeTextInput:
		return "free_text_input"
	case KindGeneratingStory:
		return "generating_story"
	case KindStoryReady:
		return "story_ready"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is the cursor of a journey. Each implementation carries only the data
// that is valid while the journey is in that state. The set is closed.
type State interface {
	Kind() Kind
	isState()
}

// Generating is implemented by the two states that wait on the service.
type Generating interface {
	State
	// Sequence is the number the outstanding call was tagged with.
	Sequence() uint64
	// Origin is the state the call was issued from and returns to on
	// failure or cancellation.
	Origin() Kind
}

type Initial struct{}

type QuestionnaireLevel1 struct{}

type QuestionnaireLevel2 struct{}

type GeneratingFeeling struct{ Seq uint64 }

// FeelingReady holds the most recent feeling artifact.
type FeelingReady struct{ Result *emotion.FeelingResult }

type FreeTextInput struct{}

type GeneratingStory struct{ Seq uint64 }

// StoryReady holds the story artifact and its analysis. Only StartOver
// leaves it.
type StoryReady struct{ Result *emotion.StoryResult }

func (Initial) Kind() Kind             { return KindInitial }
func (QuestionnaireLevel1) Kind() Kind { return KindQuestionnaireLevel1 }
func (QuestionnaireLevel2) Kind() Kind { return KindQuestionnaireLevel2 }
func (GeneratingFeeling) Kind() Kind   { return KindGeneratingFeeling }
func (FeelingReady) Kind() Kind        { return KindFeelingReady }
func (FreeTextInput) Kind() Kind       { return KindFreeTextInput }
func (GeneratingStory) Kind() Kind     { return KindGeneratingStory }
func (StoryReady) Kind() Kind          { return KindStoryReady }

func (Initial) isState()             {}
func (QuestionnaireLevel1) isState() {}
func (QuestionnaireLevel2) isState() {}
func (GeneratingFeeling) isState()   {}
func (FeelingReady) isState()        {}
func (FreeTextInput) isState()       {}
func (GeneratingStory) isState()     {}
func (StoryReady) isState()          {}

func (s GeneratingFeeling) Sequence() uint64 { return s.Seq }
func (GeneratingFeeling) Origin() Kind       { return KindQuestionnaireLevel2 }
func (s GeneratingStory) Sequence() uint64   { return s.Seq }
func (GeneratingStory) Origin() Kind         { return KindFreeTextInput }
