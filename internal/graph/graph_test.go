package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/router"
)

func detail(name string, publishers, genres, tags []string) model.GameDetail {
	return model.GameDetail{
		GameSummary: model.GameSummary{ID: 70, Name: name},
		Publishers:  publishers,
		Genres:      genres,
		Tags:        tags,
	}
}

func TestBuildCollapsesDuplicateNames(t *testing.T) {
	g := Build(detail("Half-Life", []string{"A", "A"}, []string{"G"}, []string{}))

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, []string{"Half-Life", "A", "G"}, nodeIDs(g))

	require.Len(t, g.Edges, 2)
	for _, e := range g.Edges {
		assert.Equal(t, "Half-Life", e.Source)
	}
}

func TestBuildStarTopology(t *testing.T) {
	g := Build(detail("Portal", []string{"Valve"}, []string{"Puzzle", "Action"}, []string{"FPS", "Puzzle"}))

	assert.Equal(t, "Portal", g.Root)
	assert.Len(t, g.Nodes, 5)
	assert.Len(t, g.Edges, len(g.Nodes)-1)

	targets := map[string]bool{}
	for _, e := range g.Edges {
		assert.Equal(t, g.Root, e.Source)
		assert.False(t, targets[e.Target], "duplicate edge to %s", e.Target)
		targets[e.Target] = true
	}

	// Puzzle appears as genre first and keeps that kind
	n, ok := g.Node("Puzzle")
	require.True(t, ok)
	assert.Equal(t, KindGenre, n.Kind)
}

func TestBuildEntityNamedLikeGame(t *testing.T) {
	g := Build(detail("Valve", []string{"Valve"}, nil, nil))

	require.Len(t, g.Nodes, 1)
	assert.Equal(t, KindGame, g.Nodes[0].Kind)
	assert.Empty(t, g.Edges)
}

func TestBuildColors(t *testing.T) {
	g := Build(detail("X", []string{"P"}, []string{"G"}, []string{"T"}))

	want := map[string]string{"X": "#422ad5", "P": "#00d3bb", "G": "#e0e7ff", "T": "#f43098"}
	for _, n := range g.Nodes {
		assert.Equal(t, want[n.ID], n.Color, n.ID)
	}
}

func TestBuildIsFreshPerCall(t *testing.T) {
	d := detail("X", []string{"P"}, nil, nil)
	first := Build(d)

	d.Publishers = []string{"Q", "R"}
	second := Build(d)

	assert.Len(t, first.Nodes, 2)
	assert.Len(t, second.Nodes, 3)
}

func TestClick(t *testing.T) {
	target, ok := Click(Node{ID: "AC/DC", Kind: KindPublisher})
	require.True(t, ok)
	assert.Equal(t, router.PublisherPath("AC/DC"), target.Path)

	target, ok = Click(Node{ID: "Co-op", Kind: KindTag})
	require.True(t, ok)
	assert.Equal(t, "/categories/Co-op", target.Path)

	_, ok = Click(Node{ID: "Action", Kind: KindGenre})
	assert.False(t, ok)

	_, ok = Click(Node{ID: "Game", Kind: KindGame})
	assert.False(t, ok)
}

func TestCanvasHover(t *testing.T) {
	g := Build(detail("X", []string{"P"}, nil, nil))
	before := len(g.Nodes)
	c := NewCanvas(g)

	assert.InDelta(t, BaseRadius, c.Radius("P"), 0.0001)

	c.Hover("P")
	assert.Equal(t, "P", c.Hovered())
	assert.InDelta(t, BaseRadius*HoverFactor, c.Radius("P"), 0.0001)
	assert.InDelta(t, BaseRadius, c.Radius("X"), 0.0001)
	assert.Len(t, g.Nodes, before)

	c.Hover("missing")
	assert.Empty(t, c.Hovered())
	assert.InDelta(t, BaseRadius, c.Radius("P"), 0.0001)
}

func nodeIDs(g *Graph) []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}
