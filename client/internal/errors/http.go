package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"

	"github.com/drawmyfeelings/journey/internal/wire"
)

const (
	genericDecodeMessage  = "Something went wrong while reading the result. Please start over."
	genericNetworkMessage = "Couldn't reach the drawing service. Please try again."
	genericTimeoutMessage = "Drawing took too long. Please try again."
)

// ClassifyHTTPError classifies a non-envelope HTTP failure by status code.
// - 4xx client errors (except 408 and 429) are irrecoverable rejections
// - 5xx server errors are recoverable
// - Unexpected status codes are treated as contract mismatches
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	e := &ClassifiedError{
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlyingErr,
		Code:       CodeHTTP,
	}
	switch {
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusTooManyRequests:
		e.Category, e.Kind = Recoverable, KindTransient
		e.Message = genericNetworkMessage
	case statusCode >= 400 && statusCode < 500:
		e.Category, e.Kind = Irrecoverable, KindRejected
		e.Message = http.StatusText(statusCode)
	case statusCode >= 500 && statusCode < 600:
		e.Category, e.Kind = Recoverable, KindTransient
		e.Message = genericNetworkMessage
		if statusCode == http.StatusGatewayTimeout {
			e.Code = wire.CodeTimeout
			e.Message = genericTimeoutMessage
		}
	default:
		e.Category, e.Kind = Irrecoverable, KindDecode
		e.Code = CodeDecode
		e.Message = genericDecodeMessage
	}
	return e
}

// NewHTTPError creates a classified error for HTTP failures.
// This is a convenience function for API layer usage.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	underlyingErr := fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	return ClassifyHTTPError(statusCode, body, underlyingErr)
}

// NewServiceError classifies a failed envelope by the server's error code,
// falling back to the HTTP status for codes it does not know.
func NewServiceError(statusCode int, code, message, operation string) *ClassifiedError {
	underlying := fmt.Errorf("%s failed: %s: %s", operation, code, message)
	e := &ClassifiedError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Underlying: underlying,
	}
	switch code {
	case wire.CodeValidation, wire.CodeTextTooShort, wire.CodeContentFiltered, wire.CodeConfiguration:
		e.Category, e.Kind = Irrecoverable, KindRejected
	case wire.CodeServiceError, wire.CodeTimeout, wire.CodeInternal:
		e.Category, e.Kind = Recoverable, KindTransient
	default:
		byStatus := ClassifyHTTPError(statusCode, "", underlying)
		e.Category, e.Kind = byStatus.Category, byStatus.Kind
		if e.Kind == KindDecode {
			// A well-formed error envelope with an odd status is still a
			// service failure, not a contract mismatch.
			e.Category, e.Kind = Recoverable, KindTransient
		}
	}
	if e.Message == "" {
		e.Message = genericNetworkMessage
	}
	return e
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors and timeouts are recoverable; caller cancellation is not.
func NewNetworkError(operation string, err error) *ClassifiedError {
	e := &ClassifiedError{
		Category:   Recoverable,
		Kind:       KindTransient,
		Code:       CodeNetwork,
		Message:    genericNetworkMessage,
		StatusCode: 0, // No HTTP status for network errors
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
	var netErr net.Error
	switch {
	case stderrors.Is(err, context.Canceled):
		e.Category, e.Kind, e.Code = Irrecoverable, KindCanceled, CodeCanceled
		e.Message = ""
	case stderrors.Is(err, context.DeadlineExceeded),
		stderrors.As(err, &netErr) && netErr.Timeout():
		e.Code = wire.CodeTimeout
		e.Message = genericTimeoutMessage
	}
	return e
}

// NewDecodeError creates a classified error for responses that break the
// wire contract. Underlying carries the detail; Message stays generic.
func NewDecodeError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Irrecoverable,
		Kind:       KindDecode,
		Code:       CodeDecode,
		Message:    genericDecodeMessage,
		Underlying: fmt.Errorf("%s decode error: %w", operation, err),
	}
}
