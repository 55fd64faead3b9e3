package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/testutil"
)

// newCatalogServer accepts one credential pair and serves an empty catalog
func newCatalogServer(t *testing.T, username, password string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != client.BasicAuthHeader(username, password) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"games":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func useServer(t *testing.T, srv *httptest.Server, username, password string) {
	t.Helper()
	cfg = &Config{ServerURL: srv.URL, Username: username, Password: password, Output: "text"}
	logger = testutil.NopLogger()
	api = client.New(client.Config{BaseURL: srv.URL, Logger: logger})
}

func TestBrowseLogsInWithConfiguredCredentials(t *testing.T) {
	srv := newCatalogServer(t, "jane doe", "open sesame")
	useServer(t, srv, "jane doe", "open sesame")

	var out bytes.Buffer
	b := newBrowser(&out, &bytes.Buffer{})
	require.NoError(t, b.run(context.Background(), strings.NewReader("")))

	assert.True(t, b.shell.Session().Authenticated())
	assert.Equal(t, "jane doe", b.shell.Session().Username())
}

func TestBrowseLoginCommand(t *testing.T) {
	srv := newCatalogServer(t, "jane", "open sesame")
	useServer(t, srv, "", "")

	b := newBrowser(&bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, b.run(context.Background(), strings.NewReader("login jane open sesame\n")))

	assert.True(t, b.shell.Session().Authenticated())
}

func TestBrowseWrongCredentialsStayLoggedOut(t *testing.T) {
	srv := newCatalogServer(t, "jane", "secret")
	useServer(t, srv, "jane", "nope")

	b := newBrowser(&bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, b.run(context.Background(), strings.NewReader("")))

	assert.False(t, b.shell.Session().Authenticated())
}
