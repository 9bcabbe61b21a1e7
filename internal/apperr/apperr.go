// Package apperr defines the error kinds reported to callers.
//
// Every error that crosses the RPC boundary carries a stable Kind and a
// human-readable message. Wrapped causes are kept for logging and never
// sent to the caller.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable error category.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnknownService     Kind = "unknown_service"
	KindUnauthorized       Kind = "unauthorized"
	KindPaymentFailed      Kind = "payment_failed"
	KindNotFound           Kind = "not_found"
	KindPersistence        Kind = "persistence"
	KindRateLimited        Kind = "rate_limited"
)

// Error is an error with a Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so callers can compare against
// the sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrDuplicateEmail     = &Error{Kind: KindDuplicateEmail}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrUnknownService     = &Error{Kind: KindUnknownService}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrPaymentFailed      = &Error{Kind: KindPaymentFailed}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrPersistence        = &Error{Kind: KindPersistence}
	ErrRateLimited        = &Error{Kind: KindRateLimited}
)

// New returns an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind that wraps err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Validation is shorthand for New(KindValidation, ...).
func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// KindOf returns the kind of err, or KindPersistence for errors that carry
// no kind. Unclassified failures are treated as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindPersistence {
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	}
	return "internal error"
}
