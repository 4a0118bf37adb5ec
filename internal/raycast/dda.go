package raycast

import (
	"math"

	"gridcaster/internal/config"
	"gridcaster/internal/mathutil"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// directionEpsilon replaces zero direction components so step sizes stay finite.
const directionEpsilon = 1e-9

// Side tells which kind of grid line a ray crossed to reach a cell.
type Side uint8

const (
	SideVertical   Side = iota // crossed an x = const line
	SideHorizontal             // crossed a y = const line
)

// Hit is one cell entered by a traced ray.
type Hit struct {
	X, Y     int
	Side     Side
	Pos      mgl64.Vec2 // exact crossing point
	Distance float64    // along the normalized ray direction
	Face     world.Face // face of the cell the ray entered through
	// Boundary marks the cell just outside the grid; the ray ends there.
	Boundary bool
}

func entryFace(side Side, stepX, stepY int) world.Face {
	if side == SideVertical {
		if stepX > 0 {
			return world.FaceWest
		}
		return world.FaceEast
	}
	if stepY > 0 {
		return world.FaceNorth
	}
	return world.FaceSouth
}

// HitFunc decides whether a node stops the ray.
type HitFunc func(x, y int, node *world.GridNode) bool

// SolidHit stops at nodes that occlude.
func SolidHit(_, _ int, node *world.GridNode) bool {
	return node.Solid()
}

// Tracer walks a ray across a grid one cell at a time. It is a value type
// with no shared state; each column owns its own.
type Tracer struct {
	grid    world.GridMap
	origin  mgl64.Vec2
	dir     mgl64.Vec2
	maxDist float64

	cellX, cellY   int
	stepX, stepY   int
	deltaX, deltaY float64
	sideX, sideY   float64

	entered bool
	done    bool
}

// NewTracer prepares a DDA walk from origin along dir. dir need not be
// normalized. maxDist bounds the travelled distance; a non-positive or
// infinite value falls back to the largest supported far clip.
func NewTracer(grid world.GridMap, origin, dir mgl64.Vec2, maxDist float64) Tracer {
	if l := dir.Len(); l > 0 && !math.IsInf(l, 0) {
		dir = dir.Mul(1 / l)
	} else {
		dir = mgl64.Vec2{1, 0}
	}
	dx := mathutil.NonZero(dir.X(), directionEpsilon)
	dy := mathutil.NonZero(dir.Y(), directionEpsilon)
	dir = mgl64.Vec2{dx, dy}

	if !(maxDist > 0) || math.IsInf(maxDist, 1) {
		maxDist = config.MaxFarClip
	}

	t := Tracer{
		grid:    grid,
		origin:  origin,
		dir:     dir,
		maxDist: maxDist,
		cellX:   int(math.Floor(origin.X())),
		cellY:   int(math.Floor(origin.Y())),
		deltaX:  math.Sqrt(1 + (dy*dy)/(dx*dx)),
		deltaY:  math.Sqrt(1 + (dx*dx)/(dy*dy)),
	}

	if dx < 0 {
		t.stepX = -1
		t.sideX = (origin.X() - float64(t.cellX)) * t.deltaX
	} else {
		t.stepX = 1
		t.sideX = (float64(t.cellX) + 1 - origin.X()) * t.deltaX
	}
	if dy < 0 {
		t.stepY = -1
		t.sideY = (origin.Y() - float64(t.cellY)) * t.deltaY
	} else {
		t.stepY = 1
		t.sideY = (float64(t.cellY) + 1 - origin.Y()) * t.deltaY
	}

	t.entered = inBounds(grid, t.cellX, t.cellY)
	return t
}

// Direction returns the guarded, normalized direction being traced.
func (t *Tracer) Direction() mgl64.Vec2 {
	return t.dir
}

// Next advances to the next cell accepted by hit, the grid exit, or the
// distance limit. It returns false once the ray is exhausted; after a
// boundary hit every further call returns false.
func (t *Tracer) Next(hit HitFunc) (Hit, bool) {
	for !t.done {
		var dist float64
		var side Side
		if t.sideX < t.sideY {
			dist = t.sideX
			t.sideX += t.deltaX
			t.cellX += t.stepX
			side = SideVertical
		} else {
			dist = t.sideY
			t.sideY += t.deltaY
			t.cellY += t.stepY
			side = SideHorizontal
		}

		if dist > t.maxDist {
			t.done = true
			return Hit{}, false
		}

		h := Hit{
			X:        t.cellX,
			Y:        t.cellY,
			Side:     side,
			Pos:      t.origin.Add(t.dir.Mul(dist)),
			Distance: dist,
			Face:     entryFace(side, t.stepX, t.stepY),
		}

		node, ok := t.grid.Node(t.cellX, t.cellY)
		if !ok {
			if t.entered {
				t.done = true
				h.Boundary = true
				return h, true
			}
			// Origin outside the grid: keep walking until we enter or run out.
			continue
		}
		t.entered = true

		if hit(t.cellX, t.cellY, node) {
			return h, true
		}
	}
	return Hit{}, false
}

// Trace runs a one-shot DDA walk and returns the first accepted hit or the
// grid exit.
func Trace(grid world.GridMap, origin, dir mgl64.Vec2, maxDist float64, hit HitFunc) (Hit, bool) {
	t := NewTracer(grid, origin, dir, maxDist)
	return t.Next(hit)
}

func inBounds(grid world.GridMap, x, y int) bool {
	return x >= 0 && y >= 0 && x < grid.Width() && y < grid.Height()
}
