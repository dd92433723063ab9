package client

import (
	"errors"

	clienterrors "github.com/drawmyfeelings/journey/client/internal/errors"
)

// Re-export the classified error so callers compare against a single package.
type (
	ClassifiedError = clienterrors.ClassifiedError
	ErrorCategory   = clienterrors.ErrorCategory
	ErrorKind       = clienterrors.Kind
)

const (
	Recoverable   = clienterrors.Recoverable
	Irrecoverable = clienterrors.Irrecoverable
)

const (
	KindTransient = clienterrors.KindTransient
	KindRejected  = clienterrors.KindRejected
	KindDecode    = clienterrors.KindDecode
	KindCanceled  = clienterrors.KindCanceled
)

// Sentinels usable with errors.Is on any error returned by the Client.
var (
	ErrBadRequest  = clienterrors.ErrBadRequest
	ErrUnavailable = clienterrors.ErrUnavailable
	ErrTimeout     = clienterrors.ErrTimeout
	ErrDecode      = clienterrors.ErrDecode
	ErrCanceled    = clienterrors.ErrCanceled
)

// IsRetryable reports whether retrying the same request may succeed.
func IsRetryable(err error) bool { return clienterrors.IsRetryable(err) }

// IsTimeout reports whether the call ran out of time, locally or on the
// service side.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsBadRequest reports whether the service rejected the request as invalid.
func IsBadRequest(err error) bool {
	ce, ok := clienterrors.As(err)
	return ok && ce.Kind == clienterrors.KindRejected
}

// AsClassified extracts the *ClassifiedError from err's chain.
func AsClassified(err error) (*ClassifiedError, bool) { return clienterrors.As(err) }
