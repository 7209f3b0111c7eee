package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error into the shared failure vocabulary used by
// the use cases and the provider adapters.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindBadRequest        Kind = "BAD_REQUEST"
	KindIncomplete        Kind = "INCOMPLETE"
	KindTimeout           Kind = "TIMEOUT"
	KindCancelled         Kind = "CANCELLED"
	KindTooManyRequests   Kind = "TOO_MANY_REQUESTS"
	KindUpstreamError     Kind = "UPSTREAM_ERROR"
	KindInvalidResponse   Kind = "INVALID_RESPONSE"
	KindDependencyFailure Kind = "DEPENDENCY_FAILURE"
)

// Error carries a Kind alongside a human-readable message and an
// optional wrapped cause. Callers classify errors by Kind, never by
// concrete type.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// an empty Kind if the chain carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// CauseKind returns the kind of the innermost classified error in err's
// chain. A DEPENDENCY_FAILURE wrapping a TIMEOUT reports TIMEOUT here.
func CauseKind(err error) Kind {
	kind := Kind("")
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		kind = e.Kind
		err = e.Cause
	}
	return kind
}
