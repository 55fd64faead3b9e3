package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/steamgames/internal/api/handler"
	"github.com/mcoot/steamgames/internal/api/middleware"
	"github.com/mcoot/steamgames/internal/services/auth"
	"github.com/mcoot/steamgames/internal/services/catalog"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	CatalogService *catalog.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	// Match on the encoded path so an escaped "/" stays inside its segment
	r := mux.NewRouter().UseEncodedPath()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	// Create handlers
	catalogHandler := handler.NewCatalogHandler(cfg.CatalogService)

	// Create middleware
	authMiddleware := middleware.BasicAuth(middleware.ServiceAuthenticator{Service: cfg.AuthService}, cfg.Logger)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = r.NotFoundHandler
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// Catalog routes (all require auth)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	api.Handle("/games", protected(catalogHandler.ListGames)).Methods(http.MethodGet)
	api.Handle("/games/{id}", protected(catalogHandler.GetGame)).Methods(http.MethodGet)
	api.Handle("/games/{id}/similar", protected(catalogHandler.Similar)).Methods(http.MethodGet)
	api.Handle("/publishers/{name}/games", protected(catalogHandler.ListByPublisher)).Methods(http.MethodGet)
	api.Handle("/categories/{name}/games", protected(catalogHandler.ListByCategory)).Methods(http.MethodGet)

	return r
}
