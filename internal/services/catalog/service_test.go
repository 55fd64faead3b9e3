package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/storage/memory"
	"github.com/mcoot/steamgames/internal/storage/storagetest"
	"github.com/mcoot/steamgames/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
	s.Require().NoError(s.storage.SaveGames(s.ctx, storagetest.Catalog()))
}

func (s *ServiceSuite) saveMany(n int) {
	games := make([]model.GameDetail, n)
	for i := range games {
		games[i] = model.GameDetail{
			GameSummary: model.GameSummary{ID: 10000 + i, Name: fmt.Sprintf("Game %d", i)},
			Tags:        []string{"Bulk"},
		}
	}
	s.Require().NoError(s.storage.SaveGames(s.ctx, games))
}

func (s *ServiceSuite) TestClampLimit() {
	s.Equal(20, ClampLimit(0, 20))
	s.Equal(50, ClampLimit(-3, 50))
	s.Equal(7, ClampLimit(7, 20))
	s.Equal(MaxLimit, ClampLimit(MaxLimit+1, 20))
}

func (s *ServiceSuite) TestListGamesDefaultLimit() {
	s.saveMany(30)

	games, err := s.service.ListGames(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(games, DefaultGamesLimit)
	s.Equal(570, games[0].ID)
}

func (s *ServiceSuite) TestListGamesLimit() {
	games, err := s.service.ListGames(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *ServiceSuite) TestGetGame() {
	game, err := s.service.GetGame(s.ctx, "400")
	s.Require().NoError(err)
	s.Equal("Portal", game.Name)
}

func (s *ServiceSuite) TestGetGameNotNumeric() {
	_, err := s.service.GetGame(s.ctx, "portal")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestGetGameMissing() {
	_, err := s.service.GetGame(s.ctx, "1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestListGamesByPublisher() {
	games, err := s.service.ListGamesByPublisher(s.ctx, "Valve", 0)
	s.Require().NoError(err)
	s.Len(games, 3)
}

func (s *ServiceSuite) TestListGamesByPublisherUnknown() {
	_, err := s.service.ListGamesByPublisher(s.ctx, "Nobody", 0)
	s.ErrorIs(err, model.ErrPublisherNotFound)
}

func (s *ServiceSuite) TestListGamesByCategoryDefaultLimit() {
	s.saveMany(60)

	games, err := s.service.ListGamesByCategory(s.ctx, "Bulk", 0)
	s.Require().NoError(err)
	s.Len(games, DefaultListLimit)
}

func (s *ServiceSuite) TestListGamesByCategoryUnknown() {
	_, err := s.service.ListGamesByCategory(s.ctx, "Nothing", 0)
	s.ErrorIs(err, model.ErrCategoryNotFound)
}

func (s *ServiceSuite) TestSimilarGames() {
	s.Require().NoError(s.storage.SaveGames(s.ctx, []model.GameDetail{
		{GameSummary: model.GameSummary{ID: 1, Name: "Base"}, Tags: []string{"A", "B", "C", "A"}},
		{GameSummary: model.GameSummary{ID: 2, Name: "Two"}, Tags: []string{"A", "B"}},
		{GameSummary: model.GameSummary{ID: 3, Name: "Three"}, Tags: []string{"A", "B", "C"}},
		{GameSummary: model.GameSummary{ID: 4, Name: "Alpha"}, Tags: []string{"C"}},
		{GameSummary: model.GameSummary{ID: 5, Name: "Beta"}, Tags: []string{"B"}},
		{GameSummary: model.GameSummary{ID: 6, Name: "None"}, Tags: []string{"Z"}},
	}))

	similar, err := s.service.SimilarGames(s.ctx, "1", 0)
	s.Require().NoError(err)

	var names []string
	var scores []int
	for _, g := range similar {
		names = append(names, g.Name)
		scores = append(scores, g.Score)
	}
	s.Equal([]string{"Three", "Two", "Alpha", "Beta"}, names)
	s.Equal([]int{3, 2, 1, 1}, scores)
}

func (s *ServiceSuite) TestSimilarGamesLimit() {
	similar, err := s.service.SimilarGames(s.ctx, "730", 1)
	s.Require().NoError(err)
	s.Len(similar, 1)
}

func (s *ServiceSuite) TestSimilarGamesUnknownGame() {
	_, err := s.service.SimilarGames(s.ctx, "1", 0)
	s.ErrorIs(err, model.ErrGameNotFound)
}
