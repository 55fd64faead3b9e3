package graph

// Node radii used when drawing
const (
	BaseRadius  = 6.0
	HoverFactor = 1.6
)

// Canvas holds drawing state over a graph. Hovering never changes the graph.
type Canvas struct {
	graph   *Graph
	hovered string
}

// NewCanvas creates a canvas with nothing hovered
func NewCanvas(g *Graph) *Canvas {
	return &Canvas{graph: g}
}

// Graph returns the graph being drawn
func (c *Canvas) Graph() *Graph {
	return c.graph
}

// Hover marks a node as hovered; an unknown name clears the hover
func (c *Canvas) Hover(id string) {
	if _, ok := c.graph.Node(id); !ok {
		c.hovered = ""
		return
	}
	c.hovered = id
}

// Hovered returns the hovered node name, or ""
func (c *Canvas) Hovered() string {
	return c.hovered
}

// Radius returns the drawn radius of a node
func (c *Canvas) Radius(id string) float64 {
	if id != "" && id == c.hovered {
		return BaseRadius * HoverFactor
	}
	return BaseRadius
}
