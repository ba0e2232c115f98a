// Package aethererr defines the domain error taxonomy application services
// return. The HTTP boundary translates these once, at the edge, into the
// {code, status, message} envelope; nothing upstream of that boundary
// should format a user-facing message.
package aethererr

import (
	"errors"
	"fmt"
)

// Kind is a coarse category used only for status-code mapping.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindInfrastructure Kind = "infrastructure"
)

// Error is the domain error type every service/repository returns.
// Message is safe to surface to callers for Validation/Authorization/
// NotFound/Conflict kinds; Infrastructure messages are never surfaced
// verbatim (see httpserver's edge translation).
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

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation wraps a field/shape validation failure (maps to 400).
func Validation(format string, args ...any) *Error { return newErr(KindValidation, format, args...) }

// Forbidden wraps an authorization failure (maps to 403).
func Forbidden(format string, args ...any) *Error {
	return newErr(KindAuthorization, format, args...)
}

// NotFound wraps a missing-resource / business-rule failure (maps to 400).
func NotFound(format string, args ...any) *Error { return newErr(KindNotFound, format, args...) }

// Conflict wraps a uniqueness/state-conflict failure (maps to 400).
func Conflict(format string, args ...any) *Error { return newErr(KindConflict, format, args...) }

// Internal wraps an infrastructure failure (DB, AMQP, Kubernetes, JWKS).
// The wrapped err is logged but never surfaced verbatim to callers.
func Internal(err error, format string, args ...any) *Error {
	e := newErr(KindInfrastructure, format, args...)
	e.Err = err
	return e
}

// As is a small helper for callers that want the typed *Error out of an
// error chain without importing "errors" themselves.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
