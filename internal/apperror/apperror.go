// Package apperror carries the error kinds the API distinguishes between.
package apperror

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	KindAuthenticationFailed  Kind = "AUTHENTICATION_FAILED"
	KindUnauthorized          Kind = "UNAUTHORIZED"
	KindForbidden             Kind = "FORBIDDEN"
	KindNotFound              Kind = "NOT_FOUND"
	KindValidationFailed      Kind = "VALIDATION_FAILED"
	KindTransientStoreFailure Kind = "TRANSIENT_STORE_FAILURE"
	KindInternal              Kind = "INTERNAL"
)

// MsgInvalidCredentials is the single message shown for any failed login.
const MsgInvalidCredentials = "Invalid email or password"

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Kind sentinels for errors.Is.
var (
	ErrAuthenticationFailed  = &Error{Kind: KindAuthenticationFailed}
	ErrUnauthorized          = &Error{Kind: KindUnauthorized}
	ErrForbidden             = &Error{Kind: KindForbidden}
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrValidationFailed      = &Error{Kind: KindValidationFailed}
	ErrTransientStoreFailure = &Error{Kind: KindTransientStoreFailure}
	ErrInternal              = &Error{Kind: KindInternal}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the kind of an existing *Error in the chain and otherwise uses kind.
func Wrap(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		kind = ae.Kind
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

func AuthenticationFailed() *Error {
	return New(KindAuthenticationFailed, MsgInvalidCredentials)
}

func NotFound(format string, args ...any) *Error {
	return Newf(KindNotFound, format, args...)
}

func Validation(format string, args ...any) *Error {
	return Newf(KindValidationFailed, format, args...)
}

// Store wraps a backing-store failure as retryable.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindTransientStoreFailure, Message: op, Err: err}
}

// KindOf returns the kind of the first *Error in the chain. Context
// cancellation and deadlines count as transient store failures; anything else
// is internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransientStoreFailure
	}
	return KindInternal
}

// Retryable reports whether the caller may retry the same request.
func Retryable(err error) bool {
	return KindOf(err) == KindTransientStoreFailure
}

// PublicMessage is the text safe to show to an API caller.
func PublicMessage(err error) string {
	var ae *Error
	switch KindOf(err) {
	case KindAuthenticationFailed:
		return MsgInvalidCredentials
	case KindTransientStoreFailure:
		return "service temporarily unavailable"
	case KindInternal:
		return "internal error"
	}
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "request failed"
}
