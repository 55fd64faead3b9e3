package catalog

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/storage"
)

// Limits applied when a request does not give one, and the cap on any limit
const (
	DefaultGamesLimit   = 20
	DefaultListLimit    = 50
	DefaultSimilarLimit = 10
	MaxLimit            = 500
)

// SimilarGame is a game sharing tags with another, scored by the number of
// shared tags
type SimilarGame struct {
	model.GameSummary
	Score int `json:"score"`
}

// Service answers catalog read queries
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new catalog Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// ClampLimit maps a requested limit into [1, MaxLimit], using def for
// non-positive values
func ClampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, MaxLimit)
}

// ListGames returns the first games in rank order
func (s *Service) ListGames(ctx context.Context, limit int) ([]model.GameSummary, error) {
	return s.storage.ListGames(ctx, ClampLimit(limit, DefaultGamesLimit))
}

// GetGame returns one game. An id that is not a number is never found.
func (s *Service) GetGame(ctx context.Context, id string) (*model.GameDetail, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, model.ErrGameNotFound
	}
	return s.storage.GetGame(ctx, n)
}

// ListGamesByPublisher returns games released by a publisher. A publisher
// with no games does not exist.
func (s *Service) ListGamesByPublisher(ctx context.Context, publisher string, limit int) ([]model.GameSummary, error) {
	games, err := s.storage.ListGamesByPublisher(ctx, publisher, ClampLimit(limit, DefaultListLimit))
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, model.ErrPublisherNotFound
	}
	return games, nil
}

// ListGamesByCategory returns games carrying a tag. A tag with no games
// does not exist.
func (s *Service) ListGamesByCategory(ctx context.Context, category string, limit int) ([]model.GameSummary, error) {
	games, err := s.storage.ListGamesByCategory(ctx, category, ClampLimit(limit, DefaultListLimit))
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, model.ErrCategoryNotFound
	}
	return games, nil
}

// SimilarGames ranks other games by how many tags they share with the given
// one, highest first. Ties are broken by name, then id.
func (s *Service) SimilarGames(ctx context.Context, id string, limit int) ([]SimilarGame, error) {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.storage.CountGames(ctx)
	if err != nil {
		return nil, err
	}

	scores := make(map[int]*SimilarGame)
	seen := make(map[string]bool, len(game.Tags))
	for _, tag := range game.Tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true

		tagged, err := s.storage.ListGamesByCategory(ctx, tag, total)
		if err != nil {
			return nil, err
		}
		for _, other := range tagged {
			if other.ID == game.ID {
				continue
			}
			if sg, ok := scores[other.ID]; ok {
				sg.Score++
			} else {
				scores[other.ID] = &SimilarGame{GameSummary: other, Score: 1}
			}
		}
	}

	similar := make([]SimilarGame, 0, len(scores))
	for _, sg := range scores {
		similar = append(similar, *sg)
	}
	slices.SortFunc(similar, func(a, b SimilarGame) int {
		return cmp.Or(
			cmp.Compare(b.Score, a.Score),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ID, b.ID),
		)
	})

	limit = ClampLimit(limit, DefaultSimilarLimit)
	if len(similar) > limit {
		similar = similar[:limit]
	}

	s.logger.Debug("similar games computed",
		slog.Int("game_id", game.ID),
		slog.Int("tags", len(seen)),
		slog.Int("matches", len(scores)),
	)
	return similar, nil
}
