package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/steamgames/internal/client"
)

// stubServer records the last request and answers with a fixed status and body
type stubServer struct {
	*httptest.Server
	status  int
	body    string
	lastReq *http.Request
}

func newStubServer(t *testing.T, status int, body string) *stubServer {
	t.Helper()

	s := &stubServer{status: status, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastReq = r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(s.body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *stubServer) client() *client.Client {
	return client.New(client.Config{BaseURL: s.URL})
}

func TestBasicAuthHeader(t *testing.T) {
	assert.Equal(t, "Basic dXNlcjpwYXNz", client.BasicAuthHeader("user", "pass"))
}

func TestListGames(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"games":[
		{"id":10,"name":"Counter-Strike","release_date":"Nov 1, 2000","estimated_owners":"10000000 - 20000000","required_age":0,"price":9.99},
		{"id":70,"name":"Half-Life","release_date":null,"estimated_owners":null,"required_age":null,"price":null}
	]}`)

	games, err := srv.client().ListGames(context.Background(), "Basic abc", 2)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, "/api/games", srv.lastReq.URL.Path)
	assert.Equal(t, "2", srv.lastReq.URL.Query().Get("limit"))
	assert.Equal(t, "Basic abc", srv.lastReq.Header.Get("Authorization"))

	assert.Equal(t, 10, games[0].ID)
	require.NotNil(t, games[0].Price)
	assert.InDelta(t, 9.99, *games[0].Price, 0.0001)
	assert.Nil(t, games[1].ReleaseDate)
	assert.Nil(t, games[1].Price)
}

func TestListGamesEmptyBody(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{}`)

	games, err := srv.client().ListGames(context.Background(), "Basic abc", 5)
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestGetGame(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"game":{"id":70,"name":"Half-Life","publishers":["Valve"],"genres":["Action"]}}`)

	game, err := srv.client().GetGame(context.Background(), "Basic abc", "70")
	require.NoError(t, err)

	assert.Equal(t, "/api/games/70", srv.lastReq.URL.Path)
	assert.Equal(t, "Half-Life", game.Name)
	assert.Equal(t, []string{"Valve"}, game.Publishers)
	assert.Equal(t, []string{"Action"}, game.Genres)
	assert.NotNil(t, game.Tags)
	assert.Empty(t, game.Tags)
}

func TestListGamesByPublisherEncodesName(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"publisher":"AC/DC Games","games":[{"id":1,"name":"A"}]}`)

	resp, err := srv.client().ListGamesByPublisher(context.Background(), "Basic abc", "AC/DC Games", 0)
	require.NoError(t, err)

	assert.Equal(t, "/api/publishers/AC%2FDC%20Games/games", srv.lastReq.URL.EscapedPath())
	assert.Equal(t, "50", srv.lastReq.URL.Query().Get("limit"))
	assert.Equal(t, "AC/DC Games", resp.Publisher)
	assert.Len(t, resp.Games, 1)
}

func TestListGamesByCategory(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"category":"FPS","games":[]}`)

	resp, err := srv.client().ListGamesByCategory(context.Background(), "Basic abc", "FPS", 10)
	require.NoError(t, err)

	assert.Equal(t, "/api/categories/FPS/games", srv.lastReq.URL.Path)
	assert.Equal(t, "10", srv.lastReq.URL.Query().Get("limit"))
	assert.Equal(t, "FPS", resp.Category)
	assert.Empty(t, resp.Games)
}

func TestSimilarGames(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{"game_id":70,"games":[{"id":10,"name":"Counter-Strike","score":3}]}`)

	resp, err := srv.client().SimilarGames(context.Background(), "Basic abc", "70", 0)
	require.NoError(t, err)

	assert.Equal(t, "/api/games/70/similar", srv.lastReq.URL.Path)
	assert.Empty(t, srv.lastReq.URL.Query().Get("limit"))
	assert.Equal(t, 70, resp.GameID)
	require.Len(t, resp.Games, 1)
	assert.Equal(t, "Counter-Strike", resp.Games[0].Name)
	assert.Equal(t, 3, resp.Games[0].Score)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		kind    error
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, client.ErrUnauthorized, client.MessageUnauthorized},
		{"not found", http.StatusNotFound, client.ErrNotFound, "Game not found."},
		{"server error", http.StatusInternalServerError, client.ErrRequestFailed, client.MessageRequestFailed},
		{"bad request", http.StatusBadRequest, client.ErrRequestFailed, client.MessageRequestFailed},
		{"forbidden", http.StatusForbidden, client.ErrRequestFailed, client.MessageRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newStubServer(t, tt.status, `{"error":{"code":"X","message":"x"}}`)

			_, err := srv.client().GetGame(context.Background(), "Basic abc", "1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.message, err.Error())

			var apiErr *client.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestNotFoundMessagePerEntity(t *testing.T) {
	srv := newStubServer(t, http.StatusNotFound, `{}`)
	c := srv.client()

	_, err := c.ListGamesByPublisher(context.Background(), "Basic abc", "Nobody", 50)
	assert.Equal(t, "Publisher not found.", err.Error())

	_, err = c.ListGamesByCategory(context.Background(), "Basic abc", "Nothing", 50)
	assert.Equal(t, "Category not found.", err.Error())
}

func TestMalformedBodyIsRequestFailed(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `not json`)

	_, err := srv.client().ListGames(context.Background(), "Basic abc", 1)
	assert.ErrorIs(t, err, client.ErrRequestFailed)
}

func TestTransportFailureIsRequestFailed(t *testing.T) {
	srv := newStubServer(t, http.StatusOK, `{}`)
	c := srv.client()
	srv.Close()

	_, err := c.ListGames(context.Background(), "Basic abc", 1)
	assert.ErrorIs(t, err, client.ErrRequestFailed)
	assert.Equal(t, client.MessageRequestFailed, err.Error())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "fallback", client.Message(errors.New("boom"), "fallback"))
	assert.Equal(t, client.MessageUnauthorized, client.Message(&client.Error{Kind: client.ErrUnauthorized, Message: client.MessageUnauthorized}, "fallback"))
}
