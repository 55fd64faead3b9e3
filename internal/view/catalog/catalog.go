// Package catalog is the home view: a login form while logged out, and the
// limit control, search box and games table once logged in.
package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/router"
	"github.com/mcoot/steamgames/internal/view"
)

// DefaultLimit is the limit text restored when the limit control loses focus
// holding nothing usable.
const DefaultLimit = "25"

// Empty table messages
const (
	MessageNothingFetched = `No games found. Click "Fetch Games" to load data.`
	MessageNoMatch        = "No games found matching your search."
)

// ErrNoSuchRow is returned when selecting a row that is not displayed
var ErrNoSuchRow = errors.New("no such row")

// State is the macro state of the view
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

// String returns the state name
func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// Session is what the catalog needs from the session store
type Session interface {
	view.Session
	Login(ctx context.Context, username, password string) bool
	Username() string
	LastAuthError() string
	ClearAuthError()
	LoggingIn() bool
}

// Lister fetches the games list
type Lister interface {
	ListGames(ctx context.Context, authHeader string, limit int) ([]model.GameSummary, error)
}

// View is the catalog view
type View struct {
	session Session
	api     Lister
	logger  *slog.Logger
	tasks   view.Tracker

	mu      sync.Mutex
	limit   string
	result  Result
	loading bool
	err     error
}

// New creates a catalog view with the default limit
func New(session Session, api Lister, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &View{
		session: session,
		api:     api,
		logger:  logger,
		limit:   DefaultLimit,
		result:  NewResult(nil, ""),
	}
}

// Mount never redirects: a logged out visitor gets the login form
func (v *View) Mount() (router.Target, bool) {
	return router.Target{}, false
}

// Load fetches the first page when the session is already logged in
func (v *View) Load(ctx context.Context) error {
	if !v.session.Authenticated() {
		return nil
	}
	return v.Fetch(ctx)
}

// Unmount drops results of fetches still in flight
func (v *View) Unmount() {
	v.tasks.Unmount()
}

// State derives the macro state from the session
func (v *View) State() State {
	if v.session.Authenticated() {
		return LoggedIn
	}
	return LoggedOut
}

// Login submits the login form. A successful login fetches the first page.
func (v *View) Login(ctx context.Context, username, password string) bool {
	v.session.ClearAuthError()
	v.mu.Lock()
	v.err = nil
	v.mu.Unlock()

	if !v.session.Login(ctx, username, password) {
		return false
	}

	// Failures are recorded on the view
	_ = v.Fetch(ctx)
	return true
}

// Logout ends the session and forgets everything fetched under it
func (v *View) Logout() {
	v.session.Logout()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.clear()
}

func (v *View) clear() {
	v.result = NewResult(nil, "")
	v.err = nil
}

// SetLimit edits the limit control. Anything other than digits is ignored.
func (v *View) SetLimit(text string) {
	if !digitsOnly(text) {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.limit = text
}

// BlurLimit restores the default limit when the control holds nothing usable
func (v *View) BlurLimit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n, err := strconv.Atoi(v.limit); err != nil || n < 1 {
		v.limit = DefaultLimit
	}
}

// Limit returns the current limit text
func (v *View) Limit() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.limit
}

// Fetch loads the games list with the current limit. Validation failures are
// recorded and returned without any network call. An unauthorized response
// ends the session.
func (v *View) Fetch(ctx context.Context) error {
	v.mu.Lock()
	limit, err := strconv.Atoi(v.limit)
	if err != nil || limit < 1 {
		v.err = view.ErrInvalidLimit
		v.mu.Unlock()
		return view.ErrInvalidLimit
	}

	header, ok := v.session.AuthHeader()
	if !ok {
		v.err = view.ErrNotLoggedIn
		v.mu.Unlock()
		return view.ErrNotLoggedIn
	}

	task := v.tasks.Start()
	v.loading = true
	v.err = nil
	v.mu.Unlock()

	games, err := v.api.ListGames(ctx, header, limit)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !task.Current() {
		v.logger.Debug("discarding stale games list", slog.String("task", task.ID))
		return view.ErrDiscarded
	}
	v.loading = false

	if err != nil {
		v.err = err
		if view.IsUnauthorized(err) {
			v.session.Logout()
			v.result = NewResult(nil, "")
		}
		return err
	}

	v.result = NewResult(games, v.result.FilterText)
	return nil
}

// SetFilterText edits the search box
func (v *View) SetFilterText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.result = NewResult(v.result.Source, text)
}

// Select returns the navigation to the game on a displayed row (0-based).
// The summary travels along so the detail view can show it right away.
func (v *View) Select(row int) (router.Target, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if row < 0 || row >= len(v.result.Filtered) {
		return router.Target{}, ErrNoSuchRow
	}
	game := v.result.Filtered[row]
	return SelectTarget(game), nil
}

// SelectTarget is the navigation to a game's detail view
func SelectTarget(game model.GameSummary) router.Target {
	return router.Target{Path: router.GamePath(game.ID), State: game}
}

// Snapshot is a consistent copy of the view for rendering
type Snapshot struct {
	State     State
	Username  string
	LoggingIn bool
	Limit     string
	Result    Result
	Loading   bool
	// Error is the message to display, empty when there is none
	Error string
	// EmptyMessage is shown instead of the table when no row is displayed
	EmptyMessage string
}

// Snapshot copies the current state
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.State() == LoggedOut {
		// The session may have ended in another view
		v.result = NewResult(nil, "")
	}

	s := Snapshot{
		State:     v.State(),
		LoggingIn: v.session.LoggingIn(),
		Limit:     v.limit,
		Result:    v.result,
		Loading:   v.loading,
		Error:     v.errorMessage(),
	}
	if s.State == LoggedIn {
		s.Username = v.session.Username()
	}
	switch {
	case len(v.result.Source) == 0:
		s.EmptyMessage = MessageNothingFetched
	case len(v.result.Filtered) == 0:
		s.EmptyMessage = MessageNoMatch
	}
	return s
}

func (v *View) errorMessage() string {
	if errors.Is(v.err, view.ErrNotLoggedIn) {
		return "Please login first."
	}
	if msg := view.Message(v.err, "Failed to fetch games"); msg != "" {
		return msg
	}
	return v.session.LastAuthError()
}

// Err returns the last fetch error
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
