package router

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
)

// Route names
const (
	RouteCatalog   = "catalog"
	RouteGame      = "game"
	RoutePublisher = "publisher"
	RouteCategory  = "category"
)

// HomePath is where unknown paths and logged out visitors end up
const HomePath = "/"

// Target is a navigation request: a path plus optional in-memory state
// handed to the destination view (e.g. an already known game summary).
type Target struct {
	Path  string
	State any
}

// Match is a resolved navigation
type Match struct {
	Name   string
	Path   string
	Params map[string]string // decoded route parameters
	State  any
	// Redirected is set when the requested path was unknown and Home was used instead
	Redirected bool
}

// Param returns a decoded route parameter
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Router maps viewer paths to named routes
type Router struct {
	mux *mux.Router
}

// New creates a router with the viewer's route table
func New() *Router {
	r := mux.NewRouter()
	// Match on the escaped path so names containing "/" stay one segment
	r.UseEncodedPath()

	r.Path("/").Name(RouteCatalog)
	r.Path("/games/{id}").Name(RouteGame)
	r.Path("/publishers/{name}").Name(RoutePublisher)
	r.Path("/categories/{name}").Name(RouteCategory)

	return &Router{mux: r}
}

// Resolve matches a target. Unknown or malformed paths redirect to Home and
// drop the navigation state.
func (r *Router) Resolve(t Target) Match {
	req, err := http.NewRequest(http.MethodGet, t.Path, nil)
	if err != nil {
		return home(true)
	}

	var rm mux.RouteMatch
	if !r.mux.Match(req, &rm) || rm.Route == nil {
		return home(true)
	}

	params := make(map[string]string, len(rm.Vars))
	for k, v := range rm.Vars {
		decoded, err := url.PathUnescape(v)
		if err != nil {
			return home(true)
		}
		params[k] = decoded
	}

	return Match{
		Name:   rm.Route.GetName(),
		Path:   req.URL.EscapedPath(),
		Params: params,
		State:  t.State,
	}
}

func home(redirected bool) Match {
	return Match{
		Name:       RouteCatalog,
		Path:       HomePath,
		Params:     map[string]string{},
		Redirected: redirected,
	}
}

// Home is the target of the catalog
func Home() Target {
	return Target{Path: HomePath}
}

// GamePath builds the path of a game's detail view
func GamePath(id int) string {
	return "/games/" + strconv.Itoa(id)
}

// PublisherPath builds the path of a publisher's view
func PublisherPath(name string) string {
	return "/publishers/" + url.PathEscape(name)
}

// CategoryPath builds the path of a category's view
func CategoryPath(name string) string {
	return "/categories/" + url.PathEscape(name)
}
