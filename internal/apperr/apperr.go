package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so handlers can map it to a response
// without inspecting message strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidInput
	KindUnavailable
)

// Error carries a kind, a caller-facing message and an optional cause
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports that a referenced resource does not exist
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Forbidden reports that the actor does not own the resource being mutated
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

// Conflict reports a uniqueness or self-reference violation
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// InvalidInput reports a missing or out-of-range request parameter
func InvalidInput(msg string) error { return &Error{Kind: KindInvalidInput, Msg: msg} }

// Unavailable wraps a backing store failure
func Unavailable(msg string, err error) error {
	return &Error{Kind: KindUnavailable, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for plain errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the caller-facing message of err without the wrapped cause
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps an error kind to an HTTP status code
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
