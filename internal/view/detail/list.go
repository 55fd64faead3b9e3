package detail

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/router"
	"github.com/mcoot/steamgames/internal/view"
	"github.com/mcoot/steamgames/internal/view/catalog"
)

// Empty table messages
const (
	MessageNoPublisherGames = "No games found for this publisher."
	MessageNoCategoryGames  = "No games found for this category."
	MessageNoCategoryMatch  = "No games match your search."
)

// PublisherFetcher lists a publisher's games
type PublisherFetcher interface {
	ListGamesByPublisher(ctx context.Context, authHeader, name string, limit int) (client.PublisherGames, error)
}

// CategoryFetcher lists a category's games
type CategoryFetcher interface {
	ListGamesByCategory(ctx context.Context, authHeader, name string, limit int) (client.CategoryGames, error)
}

type fetchFunc func(ctx context.Context, authHeader string) ([]model.GameSummary, error)

// list is the shared state of the publisher and category views
type list struct {
	session view.Session
	fetch   fetchFunc
	logger  *slog.Logger
	tasks   view.Tracker
	kind    string
	name    string

	mu      sync.Mutex
	result  catalog.Result
	loading bool
	err     error
}

func newList(session view.Session, logger *slog.Logger, kind, name string, fetch fetchFunc) *list {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &list{
		session: session,
		fetch:   fetch,
		logger:  logger,
		kind:    kind,
		name:    name,
		result:  catalog.NewResult(nil, ""),
		loading: true,
	}
}

// Name returns the decoded publisher or category name
func (l *list) Name() string {
	return l.name
}

// Mount redirects logged out visitors home
func (l *list) Mount() (router.Target, bool) {
	if !l.session.Authenticated() {
		return router.Home(), true
	}
	return router.Target{}, false
}

// Load fetches the list on entry
func (l *list) Load(ctx context.Context) error {
	return l.Refresh(ctx)
}

// Refresh fetches the list again with the same parameters
func (l *list) Refresh(ctx context.Context) error {
	header, ok := l.session.AuthHeader()
	if !ok || l.name == "" {
		l.mu.Lock()
		l.err = view.ErrNotLoggedIn
		l.loading = false
		l.mu.Unlock()
		return view.ErrNotLoggedIn
	}

	task := l.tasks.Start()
	l.mu.Lock()
	l.loading = true
	l.err = nil
	l.mu.Unlock()

	games, err := l.fetch(ctx, header)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !task.Current() {
		l.logger.Debug("discarding stale list",
			slog.String("kind", l.kind),
			slog.String("name", l.name),
			slog.String("task", task.ID),
		)
		return view.ErrDiscarded
	}
	l.loading = false

	if err != nil {
		l.err = err
		if view.IsUnauthorized(err) {
			l.session.Logout()
		}
		return err
	}

	l.result = catalog.NewResult(games, l.result.FilterText)
	return nil
}

// Unmount drops results of fetches still in flight
func (l *list) Unmount() {
	l.tasks.Unmount()
}

// Select returns the navigation to the game on a displayed row (0-based)
func (l *list) Select(row int) (router.Target, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if row < 0 || row >= len(l.result.Filtered) {
		return router.Target{}, catalog.ErrNoSuchRow
	}
	return catalog.SelectTarget(l.result.Filtered[row]), nil
}

// ListSnapshot is a consistent copy of a list view for rendering
type ListSnapshot struct {
	Kind    string // "publisher" or "category"
	Name    string
	Result  catalog.Result
	Loading bool
	// Error is the message to display, empty when there is none
	Error        string
	EmptyMessage string
	// Searchable is set for views with a search box
	Searchable bool
}

func (l *list) snapshot() ListSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListSnapshot{
		Kind:    l.kind,
		Name:    l.name,
		Result:  l.result,
		Loading: l.loading,
		Error:   view.Message(l.err, "Failed to load games"),
	}
}

// Publisher lists one publisher's games
type Publisher struct {
	*list
}

// NewPublisher creates the view of a publisher
func NewPublisher(session view.Session, api PublisherFetcher, logger *slog.Logger, name string) *Publisher {
	fetch := func(ctx context.Context, header string) ([]model.GameSummary, error) {
		resp, err := api.ListGamesByPublisher(ctx, header, name, client.DefaultListLimit)
		if err != nil {
			return nil, err
		}
		return resp.Games, nil
	}
	return &Publisher{list: newList(session, logger, "publisher", name, fetch)}
}

// Snapshot copies the current state
func (p *Publisher) Snapshot() ListSnapshot {
	s := p.snapshot()
	if len(s.Result.Source) == 0 {
		s.EmptyMessage = MessageNoPublisherGames
	}
	return s
}

// Category lists the games carrying one tag, with its own search box
type Category struct {
	*list
}

// NewCategory creates the view of a category
func NewCategory(session view.Session, api CategoryFetcher, logger *slog.Logger, name string) *Category {
	fetch := func(ctx context.Context, header string) ([]model.GameSummary, error) {
		resp, err := api.ListGamesByCategory(ctx, header, name, client.DefaultListLimit)
		if err != nil {
			return nil, err
		}
		return resp.Games, nil
	}
	return &Category{list: newList(session, logger, "category", name, fetch)}
}

// SetFilterText edits the search box
func (c *Category) SetFilterText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = catalog.NewResult(c.result.Source, text)
}

// Snapshot copies the current state
func (c *Category) Snapshot() ListSnapshot {
	s := c.snapshot()
	s.Searchable = true
	switch {
	case len(s.Result.Source) == 0:
		s.EmptyMessage = MessageNoCategoryGames
	case len(s.Result.Filtered) == 0:
		s.EmptyMessage = MessageNoCategoryMatch
	}
	return s
}
