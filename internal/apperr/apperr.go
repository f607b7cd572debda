// Package apperr carries the failure kinds that service operations report
// to the HTTP boundary.  Each error holds a short message that is safe to
// show to a user; the underlying cause, if any, is kept for logging only.
package apperr

import (
	"errors"
	"log"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	Validation Kind = iota + 1
	StateConflict
	Authorization
	LeadTime
	NotFound
	Persistence
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case StateConflict:
		return "state_conflict"
	case Authorization:
		return "authorization"
	case LeadTime:
		return "lead_time"
	case NotFound:
		return "not_found"
	case Persistence:
		return "persistence"
	}
	return "unknown"
}

// HTTPStatus is the status code used when errors are reported through
// status codes rather than the response envelope alone.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case StateConflict:
		return http.StatusConflict
	case Authorization:
		return http.StatusForbidden
	case LeadTime:
		return http.StatusUnprocessableEntity
	case NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// GenericMessage replaces the detail of every persistence failure.
const GenericMessage = "Something went wrong, please try again later"

// Error is a classified, user-presentable failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind.
func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// Store logs cause under op and returns a Persistence error that hides it.
func Store(op string, cause error) *Error {
	log.Printf("[store] %s: %v", op, cause)
	return &Error{Kind: Persistence, Msg: GenericMessage, Err: cause}
}

// KindOf reports the kind of err.  Errors that were never classified count
// as Persistence.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Persistence
}

// Message returns the user-presentable text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return GenericMessage
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
