// Package shell is the top-level viewer. It owns the one session store,
// resolves navigation through the router and mounts exactly one view at a
// time.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/router"
	"github.com/mcoot/steamgames/internal/session"
	"github.com/mcoot/steamgames/internal/view"
	"github.com/mcoot/steamgames/internal/view/catalog"
	"github.com/mcoot/steamgames/internal/view/detail"
)

// maxRedirects bounds redirect chains between views
const maxRedirects = 4

// ErrTooManyRedirects is returned when views keep redirecting each other
var ErrTooManyRedirects = errors.New("too many redirects")

// ErrNoHistory is returned by Back on the first page
var ErrNoHistory = errors.New("no previous page")

// API is every catalog operation the views use
type API interface {
	catalog.Lister
	detail.GameFetcher
	detail.PublisherFetcher
	detail.CategoryFetcher
}

// RenderFunc is called whenever the mounted page may need redrawing. loaded
// is false for the render that precedes the page's load.
type RenderFunc func(m router.Match, page view.Page, loaded bool)

// Config holds shell configuration
type Config struct {
	API    API
	Logger *slog.Logger
	// OnRender is called after a page is mounted and again after its load
	OnRender RenderFunc
}

// Shell hosts the mounted view
type Shell struct {
	api      API
	session  *session.Store
	router   *router.Router
	logger   *slog.Logger
	onRender RenderFunc

	mu      sync.Mutex
	page    view.Page
	match   router.Match
	history []router.Target
}

// New creates a shell with a logged out session and nothing mounted
func New(cfg Config) *Shell {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	onRender := cfg.OnRender
	if onRender == nil {
		onRender = func(router.Match, view.Page, bool) {}
	}
	return &Shell{
		api:      cfg.API,
		session:  session.New(cfg.API, logger),
		router:   router.New(),
		logger:   logger,
		onRender: onRender,
	}
}

// Session returns the session store shared by every view
func (s *Shell) Session() *session.Store {
	return s.session
}

// Page returns the mounted view, nil before the first navigation
func (s *Shell) Page() view.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Match returns the route of the mounted view
func (s *Shell) Match() router.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match
}

// Navigate mounts the view for a target, following redirects, then runs the
// view's load. The returned error is the load's own failure, which the view
// has also recorded for display.
func (s *Shell) Navigate(ctx context.Context, target router.Target) error {
	return s.navigate(ctx, target, true)
}

// Open mounts the view for a target without loading it, so callers can set
// view options before the first fetch. Reload runs the load.
func (s *Shell) Open(target router.Target) (view.Page, error) {
	page, _, err := s.mount(target, true)
	return page, err
}

// Back returns to the previous page. Navigation state is kept, so a game
// opened from a list shows its summary again while reloading.
func (s *Shell) Back(ctx context.Context) error {
	s.mu.Lock()
	if len(s.history) < 2 {
		s.mu.Unlock()
		return ErrNoHistory
	}
	s.history = s.history[:len(s.history)-1]
	prev := s.history[len(s.history)-1]
	s.mu.Unlock()

	return s.navigate(ctx, prev, false)
}

// Reload runs the mounted view's load again
func (s *Shell) Reload(ctx context.Context) error {
	s.mu.Lock()
	page, m := s.page, s.match
	s.mu.Unlock()
	if page == nil {
		return s.Navigate(ctx, router.Home())
	}
	return s.load(ctx, m, page)
}

// Logout ends the session and returns to the catalog
func (s *Shell) Logout(ctx context.Context) error {
	s.session.Logout()
	return s.Navigate(ctx, router.Home())
}

func (s *Shell) navigate(ctx context.Context, target router.Target, record bool) error {
	page, m, err := s.mount(target, record)
	if err != nil {
		return err
	}
	return s.load(ctx, m, page)
}

// mount resolves a target, follows view redirects and swaps the mounted view
func (s *Shell) mount(target router.Target, record bool) (view.Page, router.Match, error) {
	var (
		m    router.Match
		page view.Page
	)
	for i := 0; ; i++ {
		if i > maxRedirects {
			return nil, router.Match{}, fmt.Errorf("navigate to %s: %w", target.Path, ErrTooManyRedirects)
		}
		m = s.router.Resolve(target)
		if m.Redirected {
			s.logger.Debug("unknown path", slog.String("path", target.Path))
		}
		page = s.build(m)

		redirect, ok := page.Mount()
		if !ok {
			break
		}
		s.logger.Debug("view redirected",
			slog.String("from", m.Path),
			slog.String("to", redirect.Path),
		)
		page.Unmount()
		target = redirect
	}

	s.mu.Lock()
	if s.page != nil {
		s.page.Unmount()
	}
	s.page = page
	s.match = m
	entry := router.Target{Path: m.Path, State: m.State}
	switch {
	case record:
		s.history = append(s.history, entry)
	case len(s.history) > 0:
		s.history[len(s.history)-1] = entry
	}
	s.mu.Unlock()

	return page, m, nil
}

func (s *Shell) load(ctx context.Context, m router.Match, page view.Page) error {
	s.onRender(m, page, false)
	err := page.Load(ctx)
	if errors.Is(err, view.ErrDiscarded) {
		return nil
	}
	s.onRender(m, page, true)
	if err != nil {
		s.logger.Debug("view load failed", slog.String("path", m.Path), slog.Any("error", err))
	}
	return err
}

// build creates a fresh view for a route
func (s *Shell) build(m router.Match) view.Page {
	switch m.Name {
	case router.RouteGame:
		id := m.Param("id")
		return detail.NewGame(s.session, s.api, s.logger, id, knownSummary(m.State, id))
	case router.RoutePublisher:
		return detail.NewPublisher(s.session, s.api, s.logger, m.Param("name"))
	case router.RouteCategory:
		return detail.NewCategory(s.session, s.api, s.logger, m.Param("name"))
	default:
		return catalog.New(s.session, s.api, s.logger)
	}
}

// knownSummary returns the navigation state when it describes the routed game
func knownSummary(state any, id string) *model.GameSummary {
	summary, ok := state.(model.GameSummary)
	if !ok || strconv.Itoa(summary.ID) != id {
		return nil
	}
	return &summary
}
