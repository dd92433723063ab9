// Package errors provides error classification for the generation client.
// It separates failures the user can retry from ones that will fail the
// same way again.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/drawmyfeelings/journey/internal/wire"
)

// ErrorCategory determines whether a failure may be retried unchanged.
type ErrorCategory int

const (
	// Recoverable errors may succeed when retried unchanged.
	// Examples: 503 service error, 504 generation timeout, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail the same way when retried unchanged.
	// Examples: 400 validation error, malformed envelope, caller cancellation.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Kind says where a failure came from.
type Kind int

const (
	// KindTransient covers service unavailability, timeouts and network errors.
	KindTransient Kind = iota
	// KindRejected means the service refused the request as invalid.
	KindRejected
	// KindDecode means the response did not match the wire contract.
	KindDecode
	// KindCanceled means the caller abandoned the request.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindRejected:
		return "rejected"
	case KindDecode:
		return "decode"
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Local codes for failures that never produced a server error code.
const (
	CodeNetwork  = "NETWORK_ERROR"
	CodeDecode   = "DECODE_ERROR"
	CodeCanceled = "CANCELED"
	CodeHTTP     = "HTTP_ERROR"
)

// Sentinels matched by errors.Is against a *ClassifiedError.
var (
	ErrBadRequest  = stderrors.New("request rejected by generation service")
	ErrUnavailable = stderrors.New("generation service unavailable")
	ErrTimeout     = stderrors.New("generation timed out")
	ErrDecode      = stderrors.New("generation response could not be decoded")
	ErrCanceled    = stderrors.New("generation request canceled")
)

// ClassifiedError wraps a failure with the metadata the journey needs to
// decide what to show and whether to offer a retry.
type ClassifiedError struct {
	Category   ErrorCategory
	Kind       Kind
	Code       string // server error code, or one of the local codes
	Message    string // user-facing message
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Body       string // Response body for debugging
	Underlying error  // The original error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d %s: %v", e.Category, e.StatusCode, e.Code, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Code, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// Is maps the error onto the package sentinels.
func (e *ClassifiedError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Kind == KindRejected
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrCanceled:
		return e.Kind == KindCanceled
	case ErrTimeout:
		return e.Kind == KindTransient && e.Code == wire.CodeTimeout
	case ErrUnavailable:
		return e.Kind == KindTransient && e.Code != wire.CodeTimeout
	}
	return false
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.Category == Irrecoverable
	}
	return false
}

// IsRetryable reports whether err is a classified, recoverable failure.
func IsRetryable(err error) bool {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.Category == Recoverable
	}
	return false
}

// As extracts the *ClassifiedError from err's chain.
func As(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	ok := stderrors.As(err, &classified)
	return classified, ok
}
