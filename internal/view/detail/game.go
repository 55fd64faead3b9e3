// Package detail holds the drill-down views: one game, one publisher's games
// and one category's games. Each view fetches on its own, keyed by its route.
package detail

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/steamgames/internal/graph"
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/router"
	"github.com/mcoot/steamgames/internal/view"
)

// MessageGameNotFound is the fallback shown when there is no game to display
const MessageGameNotFound = "Game not found."

// GameFetcher fetches one game
type GameFetcher interface {
	GetGame(ctx context.Context, authHeader, id string) (model.GameDetail, error)
}

// Game is the detail view of one game
type Game struct {
	session view.Session
	api     GameFetcher
	logger  *slog.Logger
	tasks   view.Tracker
	id      string

	mu          sync.Mutex
	game        *model.GameDetail
	graph       *graph.Graph
	provisional bool
	loading     bool
	err         error
}

// NewGame creates the view of a game. A known summary, when given, is shown
// until the full detail arrives.
func NewGame(session view.Session, api GameFetcher, logger *slog.Logger, id string, known *model.GameSummary) *Game {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	g := &Game{
		session: session,
		api:     api,
		logger:  logger,
		id:      id,
		loading: true,
	}
	if known != nil {
		d := model.ProvisionalDetail(*known)
		g.set(&d, true)
		g.loading = false
	}
	return g
}

// ID returns the route key of the view
func (g *Game) ID() string {
	return g.id
}

// Mount redirects logged out visitors home
func (g *Game) Mount() (router.Target, bool) {
	if !g.session.Authenticated() {
		return router.Home(), true
	}
	return router.Target{}, false
}

// Load fetches the full detail and replaces whatever is shown in one step
func (g *Game) Load(ctx context.Context) error {
	header, ok := g.session.AuthHeader()
	if !ok {
		g.mu.Lock()
		g.err = view.ErrNotLoggedIn
		g.loading = false
		g.mu.Unlock()
		return view.ErrNotLoggedIn
	}

	task := g.tasks.Start()
	g.mu.Lock()
	g.loading = true
	g.err = nil
	g.mu.Unlock()

	detail, err := g.api.GetGame(ctx, header, g.id)

	g.mu.Lock()
	defer g.mu.Unlock()

	if !task.Current() {
		g.logger.Debug("discarding stale game", slog.String("id", g.id), slog.String("task", task.ID))
		return view.ErrDiscarded
	}
	g.loading = false

	if err != nil {
		g.err = err
		if view.IsUnauthorized(err) {
			g.session.Logout()
		}
		return err
	}

	g.err = nil
	g.set(&detail, false)
	return nil
}

// Unmount drops the result of a load still in flight
func (g *Game) Unmount() {
	g.tasks.Unmount()
}

// set swaps the displayed game and rebuilds its graph
func (g *Game) set(d *model.GameDetail, provisional bool) {
	g.game = d
	g.graph = graph.Build(*d)
	g.provisional = provisional
}

// GameSnapshot is a consistent copy of the view for rendering
type GameSnapshot struct {
	ID string
	// Game is nil until something is known about the game
	Game        *model.GameDetail
	Graph       *graph.Graph
	Provisional bool
	Loading     bool
	// Error is the message to display, empty when there is none
	Error string
}

// NotFound reports whether the view should show its not found fallback
func (s GameSnapshot) NotFound() bool {
	return !s.Loading && (s.Error != "" || s.Game == nil)
}

// Snapshot copies the current state
func (g *Game) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := GameSnapshot{
		ID:          g.id,
		Graph:       g.graph,
		Provisional: g.provisional,
		Loading:     g.loading,
		Error:       view.Message(g.err, "Failed to load game"),
	}
	if g.game != nil {
		d := *g.game
		s.Game = &d
	}
	return s
}
