package world

// GridMap is the read-only view of a map the renderer consumes.
type GridMap interface {
	Width() int
	Height() int
	// Node returns the node at (x, y), or false outside the grid.
	Node(x, y int) (*GridNode, bool)
}

// Grid is a dense row-major GridMap.
type Grid struct {
	width  int
	height int
	nodes  []GridNode
}

// NewGrid creates a width x height grid of empty nodes.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid{
		width:  width,
		height: height,
		nodes:  make([]GridNode, width*height),
	}
	for i := range g.nodes {
		g.nodes[i] = EmptyNode()
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a valid cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) Node(x, y int) (*GridNode, bool) {
	if !g.InBounds(x, y) {
		return nil, false
	}
	return &g.nodes[y*g.width+x], true
}

// Set replaces the node at (x, y). Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, n GridNode) {
	if g.InBounds(x, y) {
		g.nodes[y*g.width+x] = n
	}
}

// Fill sets every node to n.
func (g *Grid) Fill(n GridNode) {
	for i := range g.nodes {
		g.nodes[i] = n
	}
}
