package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures so callers can map them to transport
// codes without string matching.
type ErrorKind string

const (
	// KindValidation means malformed or out-of-range input; the caller must
	// correct the request and resubmit.
	KindValidation ErrorKind = "validation"
	// KindNotFound means a referenced order, block, bundle, slab, grade or
	// category does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindStateConflict means the operation is not valid for the current
	// manufacturing state or material status. Retrying without changing the
	// precondition yields the same result.
	KindStateConflict ErrorKind = "state_conflict"
	// KindInconsistency means the aggregate's data linkage is broken, e.g. a
	// requisition without its referenced material.
	KindInconsistency ErrorKind = "inconsistency"
)

// Error is the typed error returned by all domain operations.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a validation error.
func ErrValidation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

// ErrNotFound creates a not-found error.
func ErrNotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

// ErrStateConflict creates a state-conflict error.
func ErrStateConflict(format string, args ...any) *Error {
	return newError(KindStateConflict, format, args...)
}

// ErrInconsistency creates a data-inconsistency error.
func ErrInconsistency(format string, args ...any) *Error {
	return newError(KindInconsistency, format, args...)
}

// KindOf returns the domain error kind, or "" for non-domain errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsStateConflict reports whether err is a state-conflict domain error.
func IsStateConflict(err error) bool { return KindOf(err) == KindStateConflict }

// IsValidation reports whether err is a validation domain error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
