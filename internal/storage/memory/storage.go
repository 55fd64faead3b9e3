package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games map[int]*model.GameDetail
	// ranked holds game IDs in rank order
	ranked []int
	users  map[string]*model.User
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games: make(map[int]*model.GameDetail),
		users: make(map[string]*model.User),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGames(ctx context.Context, games []model.GameDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range games {
		if _, exists := s.games[g.ID]; !exists {
			s.ranked = append(s.ranked, g.ID)
		}
		stored := cloneGame(g)
		s.games[g.ID] = &stored
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id int) (*model.GameDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	clone := cloneGame(*game)
	return &clone, nil
}

func (s *Storage) ListGames(ctx context.Context, limit int) ([]model.GameSummary, error) {
	return s.list(limit, func(*model.GameDetail) bool { return true }), nil
}

func (s *Storage) ListGamesByPublisher(ctx context.Context, publisher string, limit int) ([]model.GameSummary, error) {
	return s.list(limit, func(g *model.GameDetail) bool {
		return slices.Contains(g.Publishers, publisher)
	}), nil
}

func (s *Storage) ListGamesByCategory(ctx context.Context, category string, limit int) ([]model.GameSummary, error) {
	return s.list(limit, func(g *model.GameDetail) bool {
		return slices.Contains(g.Tags, category)
	}), nil
}

func (s *Storage) CountGames(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ranked), nil
}

// list returns up to limit matching games in rank order
func (s *Storage) list(limit int, match func(*model.GameDetail) bool) []model.GameSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []model.GameSummary{}
	for _, id := range s.ranked {
		if len(result) >= limit {
			break
		}
		if g := s.games[id]; match(g) {
			result = append(result, g.Summary())
		}
	}
	return result
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.Username] = &u
	return nil
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func cloneGame(g model.GameDetail) model.GameDetail {
	g.Publishers = slices.Clone(g.Publishers)
	g.Genres = slices.Clone(g.Genres)
	g.Tags = slices.Clone(g.Tags)
	g.Normalize()
	return g
}
