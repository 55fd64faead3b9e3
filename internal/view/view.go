// Package view holds what the catalog, game, publisher and category views
// have in common: the page lifecycle, task tracking and error messages.
package view

import (
	"context"
	"errors"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/router"
)

// Local validation errors. They never reach the network layer.
var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrInvalidLimit = errors.New("limit must be a positive integer")
	// ErrDiscarded is returned by a load whose result was dropped because the
	// view was unmounted or a newer load started.
	ErrDiscarded = errors.New("result discarded")
)

// Page is a mounted view
type Page interface {
	// Mount sets the view's initial state without any network call.
	// It returns a redirect target when the view cannot be shown.
	Mount() (router.Target, bool)
	// Load performs the view's fetch on entry
	Load(ctx context.Context) error
	// Unmount makes the view ignore results of calls still in flight
	Unmount()
}

// Session is the read side of the session store used by views
type Session interface {
	Authenticated() bool
	AuthHeader() (string, bool)
	Logout()
}

// Message converts an error into the text shown next to the failed control
func Message(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLimit):
		return "Please enter a valid number greater than 0"
	case errors.Is(err, ErrNotLoggedIn):
		return "Please login again."
	default:
		return client.Message(err, fallback)
	}
}

// IsUnauthorized reports whether an error should end the session
func IsUnauthorized(err error) bool {
	return errors.Is(err, client.ErrUnauthorized)
}
