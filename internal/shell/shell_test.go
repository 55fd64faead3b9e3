package shell

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/router"
	"github.com/mcoot/steamgames/internal/testutil"
	"github.com/mcoot/steamgames/internal/view"
	"github.com/mcoot/steamgames/internal/view/catalog"
	"github.com/mcoot/steamgames/internal/view/detail"
)

var portal = model.GameDetail{
	GameSummary: model.GameSummary{ID: 400, Name: "Portal"},
	Publishers:  []string{"Valve"},
	Genres:      []string{"Puzzle"},
	Tags:        []string{"Sci-fi"},
}

// fakeAPI accepts user/pass and knows a single game
type fakeAPI struct {
	unauthorized bool
	calls        []string
}

func (f *fakeAPI) check(authHeader string) error {
	if f.unauthorized || authHeader != client.BasicAuthHeader("user", "pass") {
		return &client.Error{Kind: client.ErrUnauthorized, Status: http.StatusUnauthorized, Message: client.MessageUnauthorized}
	}
	return nil
}

func (f *fakeAPI) ListGames(_ context.Context, authHeader string, limit int) ([]model.GameSummary, error) {
	f.calls = append(f.calls, "games")
	if err := f.check(authHeader); err != nil {
		return nil, err
	}
	return []model.GameSummary{portal.Summary()}, nil
}

func (f *fakeAPI) GetGame(_ context.Context, authHeader, id string) (model.GameDetail, error) {
	f.calls = append(f.calls, "game:"+id)
	if err := f.check(authHeader); err != nil {
		return model.GameDetail{}, err
	}
	if id != "400" {
		return model.GameDetail{}, &client.Error{Kind: client.ErrNotFound, Status: http.StatusNotFound, Message: "Game not found."}
	}
	return portal, nil
}

func (f *fakeAPI) ListGamesByPublisher(_ context.Context, authHeader, name string, limit int) (client.PublisherGames, error) {
	f.calls = append(f.calls, "publisher:"+name)
	if err := f.check(authHeader); err != nil {
		return client.PublisherGames{}, err
	}
	return client.PublisherGames{Publisher: name, Games: []model.GameSummary{portal.Summary()}}, nil
}

func (f *fakeAPI) ListGamesByCategory(_ context.Context, authHeader, name string, limit int) (client.CategoryGames, error) {
	f.calls = append(f.calls, "category:"+name)
	if err := f.check(authHeader); err != nil {
		return client.CategoryGames{}, err
	}
	return client.CategoryGames{Category: name, Games: []model.GameSummary{portal.Summary()}}, nil
}

type ShellSuite struct {
	suite.Suite
	api     *fakeAPI
	shell   *Shell
	renders []router.Match
	ctx     context.Context
}

func TestShellSuite(t *testing.T) {
	suite.Run(t, new(ShellSuite))
}

func (s *ShellSuite) SetupTest() {
	s.api = &fakeAPI{}
	s.renders = nil
	s.ctx = context.Background()
	s.shell = New(Config{
		API:    s.api,
		Logger: testutil.NopLogger(),
		OnRender: func(m router.Match, _ view.Page, _ bool) {
			s.renders = append(s.renders, m)
		},
	})
}

func (s *ShellSuite) login() {
	s.Require().NoError(s.shell.Navigate(s.ctx, router.Home()))
	page, ok := s.shell.Page().(*catalog.View)
	s.Require().True(ok)
	s.Require().True(page.Login(s.ctx, "user", "pass"))
	s.api.calls = nil
}

func (s *ShellSuite) TestHomeMountsCatalog() {
	s.Require().NoError(s.shell.Navigate(s.ctx, router.Home()))

	s.IsType(&catalog.View{}, s.shell.Page())
	s.Equal(router.RouteCatalog, s.shell.Match().Name)
	s.Len(s.renders, 2)
	s.Empty(s.api.calls)
}

func (s *ShellSuite) TestUnknownPathRedirectsHome() {
	s.login()

	s.Require().NoError(s.shell.Navigate(s.ctx, router.Target{Path: "/nowhere"}))
	s.Equal(router.RouteCatalog, s.shell.Match().Name)
	s.True(s.shell.Match().Redirected)
}

func (s *ShellSuite) TestDetailRedirectsWhenLoggedOut() {
	s.Require().NoError(s.shell.Navigate(s.ctx, router.Target{Path: "/games/400"}))

	s.IsType(&catalog.View{}, s.shell.Page())
	s.Equal(router.HomePath, s.shell.Match().Path)
	s.NotContains(s.api.calls, "game:400")
}

func (s *ShellSuite) TestSelectedGameShowsSummaryFirst() {
	s.login()
	home := s.shell.Page().(*catalog.View)
	target, err := home.Select(0)
	s.Require().NoError(err)

	var provisional []bool
	s.shell.onRender = func(_ router.Match, page view.Page, _ bool) {
		provisional = append(provisional, page.(*detail.Game).Snapshot().Provisional)
	}
	s.Require().NoError(s.shell.Navigate(s.ctx, target))

	s.Equal([]bool{true, false}, provisional)
	snap := s.shell.Page().(*detail.Game).Snapshot()
	s.Equal(portal, *snap.Game)
}

func (s *ShellSuite) TestStateForAnotherGameIsIgnored() {
	s.login()

	target := router.Target{Path: router.GamePath(400), State: model.GameSummary{ID: 1, Name: "Other"}}
	var first detail.GameSnapshot
	s.shell.onRender = func(_ router.Match, page view.Page, _ bool) {
		if first.ID == "" {
			first = page.(*detail.Game).Snapshot()
		}
	}
	s.Require().NoError(s.shell.Navigate(s.ctx, target))

	s.Nil(first.Game)
	s.True(first.Loading)
}

func (s *ShellSuite) TestPublisherNameIsDecoded() {
	s.login()

	s.Require().NoError(s.shell.Navigate(s.ctx, router.Target{Path: router.PublisherPath("AC/DC & Co")}))
	page, ok := s.shell.Page().(*detail.Publisher)
	s.Require().True(ok)
	s.Equal("AC/DC & Co", page.Name())
	s.Equal([]string{"publisher:AC/DC & Co"}, s.api.calls)
}

func (s *ShellSuite) TestCategoryRoute() {
	s.login()

	s.Require().NoError(s.shell.Navigate(s.ctx, router.Target{Path: router.CategoryPath("Sci-fi")}))
	s.IsType(&detail.Category{}, s.shell.Page())
}

func (s *ShellSuite) TestNotFoundIsReported() {
	s.login()

	err := s.shell.Navigate(s.ctx, router.Target{Path: "/games/999"})
	s.ErrorIs(err, client.ErrNotFound)
	s.True(s.shell.Page().(*detail.Game).Snapshot().NotFound())
}

func (s *ShellSuite) TestUnauthorizedDetailEndsSession() {
	s.login()
	s.api.unauthorized = true

	err := s.shell.Navigate(s.ctx, router.Target{Path: router.GamePath(400)})
	s.ErrorIs(err, client.ErrUnauthorized)
	s.False(s.shell.Session().Authenticated())

	// the next detail navigation goes home
	s.Require().NoError(s.shell.Navigate(s.ctx, router.Target{Path: router.GamePath(400)}))
	s.IsType(&catalog.View{}, s.shell.Page())
}

func (s *ShellSuite) TestBack() {
	s.login()
	s.Require().NoError(s.shell.Navigate(s.ctx, router.Target{Path: router.GamePath(400)}))

	s.Require().NoError(s.shell.Back(s.ctx))
	s.Equal(router.RouteCatalog, s.shell.Match().Name)

	s.ErrorIs(s.shell.Back(s.ctx), ErrNoHistory)
}

func (s *ShellSuite) TestReload() {
	s.login()
	s.Require().NoError(s.shell.Navigate(s.ctx, router.Target{Path: router.CategoryPath("Sci-fi")}))

	s.Require().NoError(s.shell.Reload(s.ctx))
	s.Equal([]string{"category:Sci-fi", "category:Sci-fi"}, s.api.calls)
}

func (s *ShellSuite) TestOpenDefersLoad() {
	s.login()

	page, err := s.shell.Open(router.Home())
	s.Require().NoError(err)
	home := page.(*catalog.View)
	home.SetLimit("5")
	s.Empty(s.api.calls)

	s.Require().NoError(s.shell.Reload(s.ctx))
	s.Equal([]string{"games"}, s.api.calls)
	s.Same(home, s.shell.Page())
}

func (s *ShellSuite) TestLogout() {
	s.login()
	s.Require().NoError(s.shell.Navigate(s.ctx, router.Target{Path: router.GamePath(400)}))

	s.Require().NoError(s.shell.Logout(s.ctx))
	s.False(s.shell.Session().Authenticated())
	s.Equal(catalog.LoggedOut, s.shell.Page().(*catalog.View).State())
}
