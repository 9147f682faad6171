// Package errs defines the domain error kinds shared by every store.
//
// Domain failures are *Error values carrying a Kind. Callers branch on the
// kind with errors.Is:
//
//	if errors.Is(err, errs.NotFound) { ... }
//
// Anything that is not an *Error (a driver failure, a closed pool) is treated
// as Internal.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind string

const (
	Validation   Kind = "validation"
	Conflict     Kind = "conflict"
	Unauthorized Kind = "unauthorized"
	Forbidden    Kind = "forbidden"
	NotFound     Kind = "not_found"
	Internal     Kind = "internal"
)

func (k Kind) Error() string { return string(k) }

// Error is a domain failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the same Kind as e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and client-safe message to an underlying cause.
func Wrap(kind Kind, err error, message string) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or Internal for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return Internal
}

// Message returns the client-safe message for err. Internal errors never
// expose their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	if k := KindOf(err); k != Internal {
		return string(k)
	}
	return "internal server error"
}
