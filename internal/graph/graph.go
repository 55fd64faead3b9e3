// Package graph derives the relationship graph of a single game: the game in
// the middle, one node per distinct publisher, genre and tag around it.
package graph

import (
	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/router"
)

// Kind tags a node with the entity it stands for
type Kind string

const (
	KindGame      Kind = "game"
	KindPublisher Kind = "publisher"
	KindGenre     Kind = "genre"
	KindTag       Kind = "tag"
)

// Colors per node kind
var colors = map[Kind]string{
	KindGame:      "#422ad5",
	KindPublisher: "#00d3bb",
	KindGenre:     "#e0e7ff",
	KindTag:       "#f43098",
}

// Color returns the fill color of a node kind
func Color(k Kind) string {
	return colors[k]
}

// Node is one named entity. Names are unique within a graph.
type Node struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"group"`
	Color string `json:"color"`
}

// Edge points from the game node to a related node
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a star: every edge starts at Root
type Graph struct {
	GameID int    `json:"game_id"`
	Root   string `json:"root"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"links"`
}

// Build derives the graph of a game. A name seen more than once keeps the
// kind of its first occurrence, in the order game, publishers, genres, tags.
func Build(game model.GameDetail) *Graph {
	g := &Graph{
		GameID: game.ID,
		Root:   game.Name,
	}
	seen := make(map[string]bool)

	add := func(name string, kind Kind) {
		if seen[name] {
			return
		}
		seen[name] = true
		g.Nodes = append(g.Nodes, Node{ID: name, Kind: kind, Color: colors[kind]})
		if kind != KindGame {
			g.Edges = append(g.Edges, Edge{Source: g.Root, Target: name})
		}
	}

	add(game.Name, KindGame)
	for _, p := range game.Publishers {
		add(p, KindPublisher)
	}
	for _, genre := range game.Genres {
		add(genre, KindGenre)
	}
	for _, t := range game.Tags {
		add(t, KindTag)
	}

	return g
}

// Node looks a node up by name
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Click returns where clicking a node leads. Game and genre nodes lead nowhere.
func Click(n Node) (router.Target, bool) {
	switch n.Kind {
	case KindPublisher:
		return router.Target{Path: router.PublisherPath(n.ID)}, true
	case KindTag:
		return router.Target{Path: router.CategoryPath(n.ID)}, true
	default:
		return router.Target{}, false
	}
}
