// Package graphhtml exports a relationship graph as a standalone HTML page
// with an SVG star layout. Publisher and tag nodes link to their views.
package graphhtml

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/a-h/templ"

	"github.com/mcoot/steamgames/internal/graph"
)

// Drawing area
const (
	Width  = 640
	Height = 480
	orbit  = 180.0
)

// Point is a node position
type Point struct {
	X, Y float64
}

// Layout places the root in the middle and every other node on a circle
// around it, in graph order.
func Layout(g *graph.Graph) map[string]Point {
	pos := make(map[string]Point, len(g.Nodes))
	center := Point{X: Width / 2, Y: Height / 2}

	var others []graph.Node
	for _, n := range g.Nodes {
		if n.ID == g.Root && n.Kind == graph.KindGame {
			pos[n.ID] = center
			continue
		}
		others = append(others, n)
	}

	for i, n := range others {
		angle := 2*math.Pi*float64(i)/float64(len(others)) - math.Pi/2
		pos[n.ID] = Point{
			X: center.X + orbit*math.Cos(angle),
			Y: center.Y + orbit*math.Sin(angle),
		}
	}
	return pos
}

// Page is the full HTML document of a graph
func Page(c *graph.Canvas) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		g := c.Graph()
		title := templ.EscapeString(g.Root)
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body>", title); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h1>%s</h1>", title); err != nil {
			return err
		}
		if err := SVG(c).Render(ctx, w); err != nil {
			return err
		}
		if err := Legend().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// SVG draws the edges first, then the nodes on top
func SVG(c *graph.Canvas) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		g := c.Graph()
		pos := Layout(g)

		if _, err := fmt.Fprintf(w, `<svg class="graph" xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
			Width, Height, Width, Height); err != nil {
			return err
		}
		for _, e := range g.Edges {
			from, to := pos[e.Source], pos[e.Target]
			if _, err := fmt.Fprintf(w, `<line class="link" data-source="%s" data-target="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#999"/>`,
				templ.EscapeString(e.Source), templ.EscapeString(e.Target), from.X, from.Y, to.X, to.Y); err != nil {
				return err
			}
		}
		for _, n := range g.Nodes {
			if err := node(w, c, n, pos[n.ID]); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</svg>")
		return err
	})
}

func node(w io.Writer, c *graph.Canvas, n graph.Node, p Point) error {
	target, clickable := graph.Click(n)
	if clickable {
		href := templ.URL(target.Path)
		if _, err := fmt.Fprintf(w, `<a href="%s">`, templ.EscapeString(string(href))); err != nil {
			return err
		}
	}

	class := "node"
	if c.Hovered() == n.ID {
		class += " hovered"
	}
	id := templ.EscapeString(n.ID)
	if _, err := fmt.Fprintf(w, `<g class="%s" data-id="%s" data-kind="%s"><circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/><text x="%.1f" y="%.1f">%s</text></g>`,
		class, id, n.Kind, p.X, p.Y, c.Radius(n.ID), n.Color, p.X+c.Radius(n.ID)+2, p.Y+4, id); err != nil {
		return err
	}

	if clickable {
		if _, err := io.WriteString(w, "</a>"); err != nil {
			return err
		}
	}
	return nil
}

// Legend lists the node colors
func Legend() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<ul class="legend">`); err != nil {
			return err
		}
		for _, k := range []graph.Kind{graph.KindGame, graph.KindPublisher, graph.KindGenre, graph.KindTag} {
			if _, err := fmt.Fprintf(w, `<li data-kind="%s"><span style="color:%s">&#9679;</span> %s</li>`, k, graph.Color(k), k); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>")
		return err
	})
}

// Render renders a component to a string
func Render(ctx context.Context, component templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("render graph: %w", err)
	}
	return buf.String(), nil
}
