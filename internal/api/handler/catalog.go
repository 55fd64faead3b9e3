package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/steamgames/internal/api/response"
	"github.com/mcoot/steamgames/internal/services/catalog"
)

// CatalogHandler handles catalog read endpoints
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogService,
	}
}

// ListGames handles GET /api/games
func (h *CatalogHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	games, err := h.catalog.ListGames(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Games{Games: response.Summaries(games)})
}

// GetGame handles GET /api/games/{id}
func (h *CatalogHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathVar(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	game, err := h.catalog.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// ListByPublisher handles GET /api/publishers/{name}/games
func (h *CatalogHandler) ListByPublisher(w http.ResponseWriter, r *http.Request) {
	name, err := pathVar(r, "name")
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	games, err := h.catalog.ListGamesByPublisher(r.Context(), name, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PublisherGames{Publisher: name, Games: games})
}

// ListByCategory handles GET /api/categories/{name}/games
func (h *CatalogHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	name, err := pathVar(r, "name")
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	games, err := h.catalog.ListGamesByCategory(r.Context(), name, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CategoryGames{Category: name, Games: games})
}

// Similar handles GET /api/games/{id}/similar
func (h *CatalogHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, err := pathVar(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	games, err := h.catalog.SimilarGames(r.Context(), id, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	// SimilarGames only succeeds for a numeric id
	gameID, _ := strconv.Atoi(id)
	response.JSON(w, http.StatusOK, response.SimilarGames{GameID: gameID, Games: games})
}

// Health handles GET /api/health
func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
