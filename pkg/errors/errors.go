package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an application error. The HTTP boundary maps every kind to a status code.
type Kind int

const (
	// KindInternal is any failure without a more specific classification.
	KindInternal Kind = iota
	// KindValidation marks a malformed or missing request field.
	KindValidation
	// KindNotFound marks a reference to an entity that does not exist.
	KindNotFound
	// KindConflict marks a uniqueness rule that would be violated.
	KindConflict
	// KindRateLimited marks a client that exceeded its request budget.
	KindRateLimited
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// HTTPStatus returns the status code for the kind
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Common application errors
var (
	ErrUserNotFound      = NewNotFoundError("user not found")
	ErrUserAlreadyExists = NewConflictError("user already exists")
	ErrInvalidID         = NewValidationError("invalid id")
	ErrRateLimited       = NewRateLimitError("rate limit exceeded")
)

// Error is a classified application error carrying a client-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewRateLimitError creates a new rate limit error
func NewRateLimitError(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	return KindOf(err).HTTPStatus()
}
