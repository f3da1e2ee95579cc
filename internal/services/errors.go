package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")
)

// Error carries a client-facing message and one of the kinds above.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error  { return newError(ErrNotFound, format, args...) }
func forbidden(format string, args ...any) error { return newError(ErrForbidden, format, args...) }
func conflict(format string, args ...any) error  { return newError(ErrConflict, format, args...) }
func invalid(format string, args ...any) error   { return newError(ErrValidation, format, args...) }
func unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}
func unavailable(format string, args ...any) error { return newError(ErrUnavailable, format, args...) }
