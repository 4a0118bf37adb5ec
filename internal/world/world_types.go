package world

// NoTexture marks an absent texture slot on a GridNode.
const NoTexture = -1

// Plane layers. The inner floor sits at z=0 and the inner ceiling at z=1;
// the outer floor sits one unit lower and the outer ceiling (roof) one unit
// higher, so a cell without an inner plane shows the outer one.
const (
	LayerInner = 0
	LayerOuter = 1
	LayerCount = 2
)

// Face is a bitmask of cardinal wall faces. North is -Y, east is +X.
type Face uint8

const (
	FaceNorth Face = 1 << iota
	FaceEast
	FaceSouth
	FaceWest

	// FaceAll is equivalent to a zero mask: every face renders.
	FaceAll = FaceNorth | FaceEast | FaceSouth | FaceWest
)

// GridNode is one cell of the map. Texture ids index the tile texture set.
type GridNode struct {
	Floor      [LayerCount]int // inner, outer
	Ceiling    [LayerCount]int // inner, outer (roof)
	Wall       int
	WallUp     int  // dedicated texture for strips above the core segment
	WallDown   int  // dedicated texture for strips below the core segment
	ExtendUp   int  // unit wall strips stacked above the core segment
	ExtendDown int  // unit wall strips stacked below the core segment
	DrawFlags  Face // faces that render; zero means all
}

// EmptyNode returns a node with every texture slot absent.
func EmptyNode() GridNode {
	return GridNode{
		Floor:    [LayerCount]int{NoTexture, NoTexture},
		Ceiling:  [LayerCount]int{NoTexture, NoTexture},
		Wall:     NoTexture,
		WallUp:   NoTexture,
		WallDown: NoTexture,
	}
}

// HasWall reports whether the node carries a wall texture.
func (n *GridNode) HasWall() bool {
	return n.Wall != NoTexture
}

// HasFloor reports whether any floor layer is textured.
func (n *GridNode) HasFloor() bool {
	return n.Floor[LayerInner] != NoTexture || n.Floor[LayerOuter] != NoTexture
}

// HasCeiling reports whether any ceiling layer is textured.
func (n *GridNode) HasCeiling() bool {
	return n.Ceiling[LayerInner] != NoTexture || n.Ceiling[LayerOuter] != NoTexture
}

// Solid reports whether a ray stops at this node: it has a wall texture, or
// an upward extension with a ceiling texture, or a downward extension with a
// floor texture.
func (n *GridNode) Solid() bool {
	return n.HasWall() ||
		(n.ExtendUp > 0 && n.HasCeiling()) ||
		(n.ExtendDown > 0 && n.HasFloor())
}

// FaceVisible reports whether face f renders under the node's draw flags.
func (n *GridNode) FaceVisible(f Face) bool {
	return n.DrawFlags == 0 || n.DrawFlags&f != 0
}

// UpTexture returns the texture for strips above the core segment: the
// dedicated WallUp texture, else the inner ceiling, else the outer ceiling,
// else the wall.
func (n *GridNode) UpTexture() int {
	return firstTexture(n.WallUp, n.Ceiling[LayerInner], n.Ceiling[LayerOuter], n.Wall)
}

// DownTexture returns the texture for strips below the core segment, in the
// same order using the floor layers.
func (n *GridNode) DownTexture() int {
	return firstTexture(n.WallDown, n.Floor[LayerInner], n.Floor[LayerOuter], n.Wall)
}

// StripTexture returns the texture of the unit strip spanning [k, k+1]:
// k == 0 is the core segment, negative k the downward extensions and
// positive k the upward ones.
func (n *GridNode) StripTexture(k int) int {
	switch {
	case k == 0:
		return n.Wall
	case k < 0:
		return n.DownTexture()
	default:
		return n.UpTexture()
	}
}

func firstTexture(ids ...int) int {
	for _, id := range ids {
		if id != NoTexture {
			return id
		}
	}
	return NoTexture
}
