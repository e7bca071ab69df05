// Package apperrors carries the error taxonomy shared by the store, the
// cache layer and the HTTP surface. Three kinds matter: remote failures
// (transient, surfaced to the caller), not-found conditions (a valid state,
// not a failure), and internal invariant violations.
package apperrors

import (
	"errors"
	"fmt"
)

// Error is a coded error suitable for mapping onto an HTTP response.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`

	// wrapped cause, if any
	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// NotFound creates a NOT_FOUND error for a resource
func NotFound(resource string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  ErrNotFound.StatusCode(),
	}
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *Error {
	return &Error{
		Code:    ErrUnauthorized,
		Message: message,
		Status:  ErrUnauthorized.StatusCode(),
	}
}

// ValidationError creates a VALIDATION_ERROR
func ValidationError(message string) *Error {
	return &Error{
		Code:    ErrValidation,
		Message: message,
		Status:  ErrValidation.StatusCode(),
	}
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *Error {
	return &Error{
		Code:    ErrBadRequest,
		Message: message,
		Status:  ErrBadRequest.StatusCode(),
	}
}

// AlreadyExists creates an ALREADY_EXISTS error
func AlreadyExists(resource string) *Error {
	return &Error{
		Code:    ErrAlreadyExists,
		Message: fmt.Sprintf("%s already exists", resource),
		Status:  ErrAlreadyExists.StatusCode(),
	}
}

// Unavailable wraps a transient remote failure. The caller decides whether
// to retry; nothing in this codebase retries automatically.
func Unavailable(operation string, err error) *Error {
	return &Error{
		Code:    ErrServiceUnavail,
		Message: fmt.Sprintf("%s failed", operation),
		Status:  ErrServiceUnavail.StatusCode(),
		err:     err,
	}
}

// Internal creates an INTERNAL_ERROR wrapping a cause
func Internal(message string, err error) *Error {
	return &Error{
		Code:    ErrInternalError,
		Message: message,
		Status:  ErrInternalError.StatusCode(),
		err:     err,
	}
}

// IsNotFound reports whether err is a not-found condition. Not-found is a
// valid non-error state for profile and post lookups, distinct from a
// transient remote failure.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrNotFound
}

// IsUnavailable reports whether err is a transient remote failure.
func IsUnavailable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrServiceUnavail
}

// CodeOf returns the error code of err, or ErrInternalError for plain errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrInternalError
}
