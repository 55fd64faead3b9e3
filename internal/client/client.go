package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mcoot/steamgames/internal/model"
)

// DefaultListLimit is the limit used by the publisher and category listings
// when the caller passes a non-positive one.
const DefaultListLimit = 50

// Config holds client configuration
type Config struct {
	// BaseURL is the catalog server origin, e.g. http://localhost:8080
	BaseURL string
	// HTTPClient is used for all calls (optional). No timeout is set by default;
	// callers bound requests through the context.
	HTTPClient *http.Client
	// Logger is used for request tracing (optional)
	Logger *slog.Logger
}

// Client calls the read endpoints of the catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new API client
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BasicAuthHeader builds the Authorization header value for a credential pair
func BasicAuthHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// PublisherGames is the publisher listing response
type PublisherGames struct {
	Publisher string              `json:"publisher"`
	Games     []model.GameSummary `json:"games"`
}

// CategoryGames is the category listing response
type CategoryGames struct {
	Category string              `json:"category"`
	Games    []model.GameSummary `json:"games"`
}

// SimilarGame is a game sharing tags with another, scored by the number of
// shared tags
type SimilarGame struct {
	model.GameSummary
	Score int `json:"score"`
}

// SimilarGames is the similar games response
type SimilarGames struct {
	GameID int           `json:"game_id"`
	Games  []SimilarGame `json:"games"`
}

type gamesResponse struct {
	Games []model.GameSummary `json:"games"`
}

type gameResponse struct {
	Game model.GameDetail `json:"game"`
}

// ListGames lists up to limit games
func (c *Client) ListGames(ctx context.Context, authHeader string, limit int) ([]model.GameSummary, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}

	var resp gamesResponse
	if err := c.get(ctx, authHeader, "/api/games", query, "Game not found.", &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Games), nil
}

// GetGame fetches one game with its publishers, genres and tags
func (c *Client) GetGame(ctx context.Context, authHeader, id string) (model.GameDetail, error) {
	var resp gameResponse
	if err := c.get(ctx, authHeader, "/api/games/"+url.PathEscape(id), nil, "Game not found.", &resp); err != nil {
		return model.GameDetail{}, err
	}
	resp.Game.Normalize()
	return resp.Game, nil
}

// ListGamesByPublisher lists games released by a publisher
func (c *Client) ListGamesByPublisher(ctx context.Context, authHeader, name string, limit int) (PublisherGames, error) {
	path := "/api/publishers/" + url.PathEscape(name) + "/games"

	var resp PublisherGames
	if err := c.get(ctx, authHeader, path, listQuery(limit), "Publisher not found.", &resp); err != nil {
		return PublisherGames{}, err
	}
	resp.Games = nonNil(resp.Games)
	return resp, nil
}

// ListGamesByCategory lists games tagged with a category
func (c *Client) ListGamesByCategory(ctx context.Context, authHeader, name string, limit int) (CategoryGames, error) {
	path := "/api/categories/" + url.PathEscape(name) + "/games"

	var resp CategoryGames
	if err := c.get(ctx, authHeader, path, listQuery(limit), "Category not found.", &resp); err != nil {
		return CategoryGames{}, err
	}
	resp.Games = nonNil(resp.Games)
	return resp, nil
}

// SimilarGames lists the games sharing the most tags with a game. A
// non-positive limit leaves the choice to the server.
func (c *Client) SimilarGames(ctx context.Context, authHeader, id string, limit int) (SimilarGames, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}

	var resp SimilarGames
	if err := c.get(ctx, authHeader, "/api/games/"+url.PathEscape(id)+"/similar", query, "Game not found.", &resp); err != nil {
		return SimilarGames{}, err
	}
	if resp.Games == nil {
		resp.Games = []SimilarGame{}
	}
	return resp, nil
}

// Health checks that the server is reachable. No credentials are needed.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "", "/api/health", nil, "Not found.", &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// get performs a GET request and decodes a 2xx body into result
func (c *Client) get(ctx context.Context, authHeader, path string, query url.Values, notFoundMsg string, result any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return c.fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", slog.String("path", path), slog.String("error", err.Error()))
		return c.fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		slog.String("method", req.Method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &Error{Kind: ErrUnauthorized, Status: resp.StatusCode, Message: MessageUnauthorized}
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Kind: ErrNotFound, Status: resp.StatusCode, Message: notFoundMsg}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return c.fail(resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return c.fail(resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}

func (c *Client) fail(status int, cause error) error {
	return &Error{Kind: ErrRequestFailed, Status: status, Message: MessageRequestFailed, cause: cause}
}

func listQuery(limit int) url.Values {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

func nonNil(games []model.GameSummary) []model.GameSummary {
	if games == nil {
		return []model.GameSummary{}
	}
	return games
}
