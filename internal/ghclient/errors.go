package ghclient

import (
	"errors"
	"time"
)

// APIError is a non-successful GitHub response, classified by status code
// and rate limit headers. Message is localized and ready to show to a user.
type APIError struct {
	Message    string
	StatusCode int
	RateLimit  bool
	// ResetAt is when the rate limit window resets. Zero when unknown or
	// when the error is not a rate limit error.
	ResetAt time.Time
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError is returned when no HTTP response was obtained at all:
// DNS failures, refused connections, timeouts and the like.
type TransportError struct {
	// Message is the localized, user-facing description.
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRateLimit reports whether err is a rate limit APIError.
func IsRateLimit(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimit
}

// IsNotFound reports whether err is a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsTransport reports whether err is a network failure without a response.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// StatusCode returns the HTTP status carried by err, or 0 if there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage returns the text to show a user for err. Classified errors
// carry their own localized message; anything else falls back to err.Error().
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
