package factory

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/steamgames/internal/dependencies/mocks"
	"github.com/mcoot/steamgames/internal/importer"
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/services/auth"
	"github.com/mcoot/steamgames/internal/storage/memory"
	"github.com/mcoot/steamgames/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, authCfg, importer.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

// SeedUser registers a user with a plaintext password
func (t *TestApp) SeedUser(username, password string) error {
	_, err := t.AuthService.CreateUser(context.Background(), username, password)
	return err
}

// SeedGames saves games in the given rank order
func (t *TestApp) SeedGames(games ...model.GameDetail) error {
	return t.Storage.SaveGames(context.Background(), games)
}

// SeedNumberedGames saves n games named "<prefix> 1" .. "<prefix> n"
// with ids starting at firstID, each tagged with tag
func (t *TestApp) SeedNumberedGames(prefix string, firstID, n int, tag string) error {
	games := make([]model.GameDetail, n)
	for i := range games {
		price := float64(i)
		games[i] = model.GameDetail{
			GameSummary: model.GameSummary{
				ID:    firstID + i,
				Name:  prefix + " " + strconv.Itoa(i+1),
				Price: &price,
			},
			Publishers: []string{prefix + " Studios"},
			Genres:     []string{"Action"},
			Tags:       []string{tag},
		}
	}
	return t.SeedGames(games...)
}
