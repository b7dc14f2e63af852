package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailRegistered is returned when registering an email that already has a record.
	ErrEmailRegistered = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnknownEmail is returned when a reset token is requested for a nonexistent user.
	ErrUnknownEmail = errors.New("unknown email")
	// ErrInvalidResetToken is returned when reset-token consumption fails to resolve a user.
	ErrInvalidResetToken = errors.New("invalid reset token")
	// ErrInvalidField is returned when an update targets a field outside the allowed set.
	ErrInvalidField = errors.New("invalid field")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors per the auth API contract:
// duplicate registration is a client error, credential failures are 401, and
// reset flows answer 403 so they never confirm which part was wrong.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailRegistered):
		return NewHTTPError(http.StatusBadRequest, "email already registered")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrUnknownEmail), errors.Is(err, ErrInvalidResetToken):
		return NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidField):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
