package journey

import (
	"context"
	stderrors "errors"

	"github.com/drawmyfeelings/journey/client"
	"github.com/drawmyfeelings/journey/internal/shardqueue"
	"github.com/drawmyfeelings/journey/internal/wire"
)

// Errors returned by Machine operations. None of them changes the journey.
var (
	ErrWrongState      = stderrors.New("operation not valid in current state")
	ErrNoEmotions      = stderrors.New("no emotions selected")
	ErrStoryTooShort   = stderrors.New("story must have at least 50 characters")
	ErrStoryTooLong    = stderrors.New("story must have at most 5000 characters")
	ErrInvalidEmotion  = stderrors.New("unknown emotion")
	ErrInvalidCategory = stderrors.New("unknown feeling category")
	ErrNotRetryable    = stderrors.New("no retryable failure for current state")
	ErrClosed          = stderrors.New("journey closed")
)

// Codes for failures raised before a request reaches the service.
const (
	CodeBackpressure = "BACKPRESSURE"
	CodeShutdown     = "SHUTDOWN"
)

const genericFailureMessage = "Something went wrong while creating your artwork. Please try again later."

// RequestKind tells which generation call a failure belongs to.
type RequestKind int

const (
	RequestFeeling RequestKind = iota + 1
	RequestStory
)

func (r RequestKind) String() string {
	switch r {
	case RequestFeeling:
		return "feeling"
	case RequestStory:
		return "story"
	default:
		return "unknown"
	}
}

// origin is the state a request of this kind is issued from.
func (r RequestKind) origin() State {
	if r == RequestStory {
		return FreeTextInput{}
	}
	return QuestionnaireLevel2{}
}

// Failure is the error surfaced after a generation call failed.
type Failure struct {
	Request   RequestKind
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func (f *Failure) Error() string { return f.Request.String() + ": " + f.Code + ": " + f.Message }

func (f *Failure) Unwrap() error { return f.Err }

func newFailure(kind RequestKind, err error) *Failure {
	f := &Failure{
		Request: kind,
		Code:    wire.CodeInternal,
		Message: genericFailureMessage,
		Err:     err,
	}
	if ce, ok := client.AsClassified(err); ok {
		f.Code = ce.Code
		f.Retryable = ce.Category == client.Recoverable
		if ce.Message != "" {
			f.Message = ce.Message
		}
		return f
	}
	var qf *shardqueue.QueueFullError
	switch {
	case stderrors.As(err, &qf):
		f.Code, f.Retryable = CodeBackpressure, true
		f.Message = "Too many artworks are being created right now. Please try again."
	case stderrors.Is(err, shardqueue.ErrExecutorClosed):
		f.Code = CodeShutdown
	case stderrors.Is(err, context.DeadlineExceeded):
		f.Code, f.Retryable = wire.CodeTimeout, true
	}
	return f
}
