// Package storagetest holds the behavior every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/storage"
)

// Suite runs the storage contract against a fresh backend per test. Backend
// test files embed it and set NewStorage.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

func ptr[T any](v T) *T { return &v }

// Catalog is a small ranked dataset
func Catalog() []model.GameDetail {
	return []model.GameDetail{
		{
			GameSummary: model.GameSummary{ID: 570, Name: "Dota 2", ReleaseDate: ptr("Jul 9, 2013"), EstimatedOwners: ptr("100000000 - 200000000"), RequiredAge: ptr(0), Price: ptr(0.0)},
			Publishers:  []string{"Valve"},
			Genres:      []string{"Action", "Strategy"},
			Tags:        []string{"Free to Play", "MOBA"},
		},
		{
			GameSummary: model.GameSummary{ID: 730, Name: "Counter-Strike 2", Price: ptr(0.0)},
			Publishers:  []string{"Valve"},
			Genres:      []string{"Action"},
			Tags:        []string{"FPS", "Free to Play"},
		},
		{
			GameSummary: model.GameSummary{ID: 1245620, Name: "ELDEN RING", Price: ptr(59.99), RequiredAge: ptr(17)},
			Publishers:  []string{"FromSoftware Inc.", "Bandai Namco Entertainment"},
			Genres:      []string{"Action", "RPG"},
			Tags:        []string{"Souls-like", "Open World"},
		},
		{
			GameSummary: model.GameSummary{ID: 400, Name: "Portal", Price: ptr(9.99)},
			Publishers:  []string{"Valve"},
			Genres:      []string{"Action"},
			Tags:        []string{"Puzzle", "FPS"},
		},
	}
}

func ids(games []model.GameSummary) []int {
	out := make([]int, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

func (s *Suite) seed() {
	s.Require().NoError(s.Storage.SaveGames(s.Ctx, Catalog()))
}

// Game tests

func (s *Suite) TestSaveAndGetGame() {
	s.seed()

	game, err := s.Storage.GetGame(s.Ctx, 570)
	s.Require().NoError(err)
	s.Equal(Catalog()[0], *game)
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, 1)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestGetGameNormalizesLists() {
	s.Require().NoError(s.Storage.SaveGames(s.Ctx, []model.GameDetail{
		{GameSummary: model.GameSummary{ID: 10, Name: "Bare"}},
	}))

	game, err := s.Storage.GetGame(s.Ctx, 10)
	s.Require().NoError(err)
	s.NotNil(game.Publishers)
	s.NotNil(game.Genres)
	s.NotNil(game.Tags)
	s.Nil(game.Price)
	s.Nil(game.ReleaseDate)
}

func (s *Suite) TestListGamesInRankOrder() {
	s.seed()

	games, err := s.Storage.ListGames(s.Ctx, 10)
	s.Require().NoError(err)
	s.Equal([]int{570, 730, 1245620, 400}, ids(games))

	games, err = s.Storage.ListGames(s.Ctx, 2)
	s.Require().NoError(err)
	s.Equal([]int{570, 730}, ids(games))
}

func (s *Suite) TestListGamesEmpty() {
	games, err := s.Storage.ListGames(s.Ctx, 10)
	s.Require().NoError(err)
	s.NotNil(games)
	s.Empty(games)
}

func (s *Suite) TestResaveKeepsRank() {
	s.seed()

	updated := Catalog()[0]
	updated.Name = "Dota 2 Reborn"
	updated.Publishers = []string{"Valve Corporation"}
	s.Require().NoError(s.Storage.SaveGames(s.Ctx, []model.GameDetail{updated}))

	games, err := s.Storage.ListGames(s.Ctx, 10)
	s.Require().NoError(err)
	s.Equal([]int{570, 730, 1245620, 400}, ids(games))
	s.Equal("Dota 2 Reborn", games[0].Name)

	// relationship indexes follow the update
	byOld, err := s.Storage.ListGamesByPublisher(s.Ctx, "Valve", 10)
	s.Require().NoError(err)
	s.Equal([]int{730, 400}, ids(byOld))
	byNew, err := s.Storage.ListGamesByPublisher(s.Ctx, "Valve Corporation", 10)
	s.Require().NoError(err)
	s.Equal([]int{570}, ids(byNew))
}

func (s *Suite) TestListGamesByPublisher() {
	s.seed()

	games, err := s.Storage.ListGamesByPublisher(s.Ctx, "Valve", 10)
	s.Require().NoError(err)
	s.Equal([]int{570, 730, 400}, ids(games))

	games, err = s.Storage.ListGamesByPublisher(s.Ctx, "Valve", 1)
	s.Require().NoError(err)
	s.Equal([]int{570}, ids(games))
}

func (s *Suite) TestListGamesByPublisherIsExact() {
	s.seed()

	games, err := s.Storage.ListGamesByPublisher(s.Ctx, "valve", 10)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *Suite) TestListGamesByCategory() {
	s.seed()

	games, err := s.Storage.ListGamesByCategory(s.Ctx, "FPS", 10)
	s.Require().NoError(err)
	s.Equal([]int{730, 400}, ids(games))

	// genres are not categories
	games, err = s.Storage.ListGamesByCategory(s.Ctx, "RPG", 10)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *Suite) TestCountGames() {
	n, err := s.Storage.CountGames(s.Ctx)
	s.Require().NoError(err)
	s.Zero(n)

	s.seed()
	s.seed()

	n, err = s.Storage.CountGames(s.Ctx)
	s.Require().NoError(err)
	s.Equal(4, n)
}

// User tests

func (s *Suite) TestSaveAndGetUser() {
	user := &model.User{
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, user))

	retrieved, err := s.Storage.GetUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user.Username, retrieved.Username)
	s.Equal(user.PasswordHash, retrieved.PasswordHash)
	s.True(user.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Storage.GetUser(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestSaveUserOverwrites() {
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{Username: "alice", PasswordHash: "old"}))
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{Username: "alice", PasswordHash: "new"}))

	retrieved, err := s.Storage.GetUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("new", retrieved.PasswordHash)
}
