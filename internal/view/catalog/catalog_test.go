package catalog

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/steamgames/internal/client"
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/router"
	"github.com/mcoot/steamgames/internal/session"
	"github.com/mcoot/steamgames/internal/testutil"
	"github.com/mcoot/steamgames/internal/view"
)

// fakeAPI accepts user/pass and returns the first limit games of its list
type fakeAPI struct {
	mu       sync.Mutex
	games    []model.GameSummary
	status   int // forced failure status for non-probe calls, 0 for none
	limits   []int
	accepted string
}

func newFakeAPI(n int) *fakeAPI {
	games := make([]model.GameSummary, n)
	for i := range games {
		games[i] = model.GameSummary{ID: i + 1, Name: fmt.Sprintf("Game %d", i+1)}
	}
	return &fakeAPI{games: games, accepted: client.BasicAuthHeader("user", "pass")}
}

func (f *fakeAPI) ListGames(_ context.Context, authHeader string, limit int) ([]model.GameSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)

	if authHeader != f.accepted {
		return nil, &client.Error{Kind: client.ErrUnauthorized, Status: http.StatusUnauthorized, Message: client.MessageUnauthorized}
	}
	if f.status != 0 && limit != 1 {
		kind := client.ErrRequestFailed
		msg := client.MessageRequestFailed
		if f.status == http.StatusUnauthorized {
			kind, msg = client.ErrUnauthorized, client.MessageUnauthorized
		}
		return nil, &client.Error{Kind: kind, Status: f.status, Message: msg}
	}
	if limit > len(f.games) {
		limit = len(f.games)
	}
	return append([]model.GameSummary(nil), f.games[:limit]...), nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.limits)
}

type ViewSuite struct {
	suite.Suite
	api     *fakeAPI
	session *session.Store
	view    *View
	ctx     context.Context
}

func TestViewSuite(t *testing.T) {
	suite.Run(t, new(ViewSuite))
}

func (s *ViewSuite) SetupTest() {
	s.api = newFakeAPI(100)
	s.session = session.New(s.api, testutil.NopLogger())
	s.view = New(s.session, s.api, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ViewSuite) login() {
	s.Require().True(s.view.Login(s.ctx, "user", "pass"))
}

// State machine

func (s *ViewSuite) TestStartsLoggedOut() {
	snap := s.view.Snapshot()
	s.Equal(LoggedOut, snap.State)
	s.Equal(DefaultLimit, snap.Limit)
	s.Empty(snap.Result.Source)
	s.Equal(MessageNothingFetched, snap.EmptyMessage)
}

func (s *ViewSuite) TestLoginFetchesFirstPage() {
	s.login()

	snap := s.view.Snapshot()
	s.Equal(LoggedIn, snap.State)
	s.Equal("user", snap.Username)
	s.Len(snap.Result.Source, 25)
	s.Empty(snap.Error)
	s.Empty(snap.EmptyMessage)
}

func (s *ViewSuite) TestFailedLoginShowsAuthError() {
	s.False(s.view.Login(s.ctx, "user", "wrong"))

	snap := s.view.Snapshot()
	s.Equal(LoggedOut, snap.State)
	s.Equal(session.MessageInvalidCredentials, snap.Error)
}

func (s *ViewSuite) TestLogoutClearsRecords() {
	s.login()
	s.view.SetFilterText("Game 1")

	s.view.Logout()

	snap := s.view.Snapshot()
	s.Equal(LoggedOut, snap.State)
	s.Empty(snap.Result.Source)
	s.Empty(snap.Result.Filtered)
	s.Empty(snap.Result.FilterText)
}

func (s *ViewSuite) TestUnauthorizedFetchLogsOut() {
	s.login()
	s.api.status = http.StatusUnauthorized

	err := s.view.Fetch(s.ctx)
	s.ErrorIs(err, client.ErrUnauthorized)

	snap := s.view.Snapshot()
	s.Equal(LoggedOut, snap.State)
	s.False(s.session.Authenticated())
	s.Empty(snap.Result.Source)
	s.Equal(client.MessageUnauthorized, snap.Error)
	s.False(snap.Loading)
}

func (s *ViewSuite) TestSessionEndedElsewhereHidesRecords() {
	s.login()
	s.session.Logout()

	snap := s.view.Snapshot()
	s.Equal(LoggedOut, snap.State)
	s.Empty(snap.Result.Source)
}

// Limit control

func (s *ViewSuite) TestSetLimitAcceptsDigits() {
	s.view.SetLimit("10")
	s.Equal("10", s.view.Limit())

	s.view.SetLimit("")
	s.Equal("", s.view.Limit())

	s.view.SetLimit("007")
	s.Equal("007", s.view.Limit())
}

func (s *ViewSuite) TestSetLimitIgnoresNonDigits() {
	s.view.SetLimit("10")

	for _, bad := range []string{"1a", "-5", "3.5", " 4", "abc", "+1", "１"} {
		s.view.SetLimit(bad)
		s.Equal("10", s.view.Limit(), "input %q", bad)
	}
}

func (s *ViewSuite) TestBlurLimitResetsUnusableValues() {
	for _, bad := range []string{"", "0", "000"} {
		s.view.SetLimit(bad)
		s.view.BlurLimit()
		s.Equal(DefaultLimit, s.view.Limit(), "input %q", bad)
	}
}

func (s *ViewSuite) TestBlurLimitKeepsValidValueVerbatim() {
	s.view.SetLimit("007")
	s.view.BlurLimit()
	s.Equal("007", s.view.Limit())
}

func (s *ViewSuite) TestFetchParsesLeadingZeros() {
	s.login()
	s.view.SetLimit("007")

	s.Require().NoError(s.view.Fetch(s.ctx))
	s.Equal(7, s.api.limits[len(s.api.limits)-1])
	s.Len(s.view.Snapshot().Result.Source, 7)
}

// Fetch

func (s *ViewSuite) TestFetchInvalidLimitMakesNoCall() {
	s.login()
	calls := s.api.calls()

	s.view.SetLimit("0")
	s.ErrorIs(s.view.Fetch(s.ctx), view.ErrInvalidLimit)

	s.Equal(calls, s.api.calls())
	s.Equal("Please enter a valid number greater than 0", s.view.Snapshot().Error)
}

func (s *ViewSuite) TestFetchLoggedOutMakesNoCall() {
	s.ErrorIs(s.view.Fetch(s.ctx), view.ErrNotLoggedIn)

	s.Equal(0, s.api.calls())
	s.Equal("Please login first.", s.view.Snapshot().Error)
}

func (s *ViewSuite) TestFetchFailureKeepsSession() {
	s.login()
	s.api.status = http.StatusInternalServerError

	s.ErrorIs(s.view.Fetch(s.ctx), client.ErrRequestFailed)

	snap := s.view.Snapshot()
	s.Equal(LoggedIn, snap.State)
	s.Equal(client.MessageRequestFailed, snap.Error)
	s.False(snap.Loading)
}

func (s *ViewSuite) TestFetchClearsPreviousError() {
	s.login()
	s.view.SetLimit("0")
	_ = s.view.Fetch(s.ctx)

	s.view.SetLimit("5")
	s.Require().NoError(s.view.Fetch(s.ctx))
	s.Empty(s.view.Snapshot().Error)
}

func (s *ViewSuite) TestFetchKeepsFilterText() {
	s.login()
	s.view.SetFilterText("game 1")

	s.view.SetLimit("20")
	s.Require().NoError(s.view.Fetch(s.ctx))

	snap := s.view.Snapshot()
	s.Equal("game 1", snap.Result.FilterText)
	// Game 1, Game 10..19
	s.Len(snap.Result.Filtered, 11)
}

func (s *ViewSuite) TestUnmountDiscardsResult() {
	s.login()
	before := s.view.Snapshot().Result

	s.view.Unmount()
	s.view.SetLimit("3")
	s.ErrorIs(s.view.Fetch(s.ctx), view.ErrDiscarded)

	s.Equal(before.Source, s.view.Snapshot().Result.Source)
}

// Filter and selection

func (s *ViewSuite) TestSearch() {
	s.login()

	s.view.SetFilterText("GAME 2")
	snap := s.view.Snapshot()
	visible, total := snap.Result.Counts()
	s.Equal(25, total)
	// Game 2, Game 20..25
	s.Equal(7, visible)

	s.view.SetFilterText("zzz")
	snap = s.view.Snapshot()
	s.Empty(snap.Result.Filtered)
	s.Equal(MessageNoMatch, snap.EmptyMessage)

	s.view.SetFilterText("")
	s.Len(s.view.Snapshot().Result.Filtered, 25)
}

func (s *ViewSuite) TestSelectCarriesSummary() {
	s.login()
	s.view.SetFilterText("Game 3")

	target, err := s.view.Select(0)
	s.Require().NoError(err)
	s.Equal(router.GamePath(3), target.Path)
	s.Equal(model.GameSummary{ID: 3, Name: "Game 3"}, target.State)
}

func (s *ViewSuite) TestSelectOutOfRange() {
	s.login()

	_, err := s.view.Select(25)
	s.ErrorIs(err, ErrNoSuchRow)
	_, err = s.view.Select(-1)
	s.ErrorIs(err, ErrNoSuchRow)
}

func (s *ViewSuite) TestLoadWhenLoggedOutDoesNothing() {
	s.NoError(s.view.Load(s.ctx))
	s.Equal(0, s.api.calls())
}

func (s *ViewSuite) TestMountNeverRedirects() {
	_, redirect := s.view.Mount()
	s.False(redirect)
}
