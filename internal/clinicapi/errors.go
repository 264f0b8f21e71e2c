package clinicapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for API calls.
var (
	// ErrUnauthorized means the server rejected the credentials or token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation means the server rejected the request body.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means the resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrServer means the server failed with a 5xx status.
	ErrServer = errors.New("server error")
	// ErrUnavailable means the server could not be reached.
	ErrUnavailable = errors.New("service unavailable")
	// ErrUnexpectedStatus covers every other non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Error describes a failed API call.
type Error struct {
	Op         string // e.g. "GET /user"
	StatusCode int    // zero when no response was received
	Message    string // server-provided message, if any
	Err        error  // one of the sentinel errors above
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrUnexpectedStatus
	}
}
