package response

import (
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/services/catalog"
)

// Health is the response of the health endpoint
type Health struct {
	Status string `json:"status"`
}

// Games is the response for the game listing
type Games struct {
	Games []model.GameSummary `json:"games"`
}

// Game is the response for a single game
type Game struct {
	Game model.GameDetail `json:"game"`
}

// PublisherGames is the response for games by publisher
type PublisherGames struct {
	Publisher string              `json:"publisher"`
	Games     []model.GameSummary `json:"games"`
}

// CategoryGames is the response for games by category
type CategoryGames struct {
	Category string              `json:"category"`
	Games    []model.GameSummary `json:"games"`
}

// SimilarGames is the response for games sharing tags with one game
type SimilarGames struct {
	GameID int                   `json:"game_id"`
	Games  []catalog.SimilarGame `json:"games"`
}

// GameFromModel normalizes the relationship lists so they encode as arrays
func GameFromModel(g *model.GameDetail) Game {
	game := *g
	game.Normalize()
	return Game{Game: game}
}

// Summaries never encodes as null
func Summaries(games []model.GameSummary) []model.GameSummary {
	if games == nil {
		return []model.GameSummary{}
	}
	return games
}
