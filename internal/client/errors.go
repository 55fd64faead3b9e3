package client

import (
	"errors"
	"fmt"
)

// Failure kinds returned by the client. Every error returned by a Client
// operation matches exactly one of these through errors.Is.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrRequestFailed = errors.New("request failed")
)

// Display messages for each failure kind
const (
	MessageUnauthorized  = "Unauthorized. Please login again."
	MessageRequestFailed = "Failed to communicate with the API."
)

// Error is a failed API call
type Error struct {
	Kind    error  // one of ErrUnauthorized, ErrNotFound, ErrRequestFailed
	Status  int    // HTTP status, 0 for transport failures
	Message string // human-readable, safe to display
	cause   error
}

// Error implements error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the failure kind and the underlying cause
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.cause}
}

// String includes the status code for logs
func (e *Error) String() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s (%v)", e.Message, e.cause)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Message returns the display message of an API error, or the fallback
// for errors that did not come from the client.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}
