package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can pick a status code
// without matching on message strings.
type Kind int

const (
	KindInternal Kind = iota // unexpected fault, maps to 500
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
)

// Error is the error type returned by services and repositories.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf reports malformed or missing input the client can fix.
func Validationf(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

// Unauthorizedf reports a missing or invalid caller identity.
func Unauthorizedf(format string, args ...interface{}) *Error {
	return newf(KindUnauthorized, format, args...)
}

// Forbiddenf reports an authenticated caller that is not entitled.
func Forbiddenf(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

// NotFoundf reports an absent referenced entity.
func NotFoundf(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

// Conflictf reports an operation that is invalid given current state,
// e.g. paying an already-paid order or a stale concurrent write.
func Conflictf(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// Upstreamf reports a failure of an external collaborator.
func Upstreamf(format string, args ...interface{}) *Error {
	return newf(KindUpstream, format, args...)
}

// Internalf reports a server-side fault, including catalog data
// integrity problems such as a missing or invalid price entry.
func Internalf(format string, args ...interface{}) *Error {
	return newf(KindInternal, format, args...)
}

// Wrap attaches a cause to a kinded error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	e := newf(kind, format, args...)
	e.Err = err
	return e
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusCode maps err to the HTTP status code it should be served with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		// External-processor failures are served as a server fault.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err. Unclassified errors
// get a generic message so internals are not leaked to callers.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
