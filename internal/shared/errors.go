package shared

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail reports a unique violation on the users.email column.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRevoked marks a token presented after sign-out.
	ErrTokenRevoked = errors.New("token revoked")
)

// UnauthorizedErrorName is the name reported by authentication failures.
const UnauthorizedErrorName = "UnauthorizedError"

// Error is an error carrying the HTTP status and the message shown to clients.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BadRequest builds a 400 error with a client facing message.
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Forbidden builds a 403 error.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// Unauthenticated builds a 401 error used by the sign-in flow.
func Unauthenticated(message string, cause error) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message, Err: cause}
}

// UnauthorizedError is raised when a request lacks a valid token.
type UnauthorizedError struct {
	Code    string
	Message string
	Err     error
}

// NewUnauthorizedError constructs an UnauthorizedError.
func NewUnauthorizedError(code, message string, cause error) *UnauthorizedError {
	return &UnauthorizedError{Code: code, Message: message, Err: cause}
}

// Name mirrors the error classification used by the global error handler.
func (e *UnauthorizedError) Name() string {
	return UnauthorizedErrorName
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func (e *UnauthorizedError) Unwrap() error {
	return e.Err
}
