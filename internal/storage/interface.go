package storage

import (
	"context"

	"github.com/mcoot/steamgames/internal/model"
)

// Storage defines the interface for catalog persistence.
//
// Games are ranked by the order they were first saved in; every listing
// returns games in rank order.
type Storage interface {
	// Game operations
	SaveGames(ctx context.Context, games []model.GameDetail) error
	GetGame(ctx context.Context, id int) (*model.GameDetail, error)
	ListGames(ctx context.Context, limit int) ([]model.GameSummary, error)
	ListGamesByPublisher(ctx context.Context, publisher string, limit int) ([]model.GameSummary, error)
	ListGamesByCategory(ctx context.Context, category string, limit int) ([]model.GameSummary, error)
	CountGames(ctx context.Context) (int, error)

	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)
}
