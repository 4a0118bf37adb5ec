package raycast

import (
	"math"

	"gridcaster/internal/graphics"
	"gridcaster/internal/mathutil"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// seamRows bounds how far seam correction reaches from a strip boundary.
	seamRows = 2
	// minWallDepth keeps projections finite when the camera touches a wall.
	minWallDepth = 1e-4
)

// SeamHighlightColor marks corrected pixels when highlighting is enabled.
var SeamHighlightColor = graphics.PackRGBA(0x00, 0xff, 0x00, 0xff)

// RasterizeWallColumns traces and draws columns [x0, x1). Planes must already
// be in the buffer. Columns are independent; disjoint ranges may run
// concurrently.
func RasterizeWallColumns(job *Job, x0, x1 int) {
	for x := max(x0, 0); x < min(x1, job.Frame.Width); x++ {
		rasterizeColumn(job, x)
	}
}

func rasterizeColumn(job *Job, x int) {
	f := &job.Frame
	ray := f.ColumnRay(x)
	dir := ray.Normalize()
	// Column rays have a forward component of 1, so depth = distance * cos.
	cosine := dir.Dot(f.Forward)
	tracer := NewTracer(job.Grid, f.Camera.Pos, dir, f.FarClip/cosine)
	dir = tracer.Direction()

	for n := 0; n < job.Config.RayEncounterLimit; n++ {
		hit, ok := tracer.Next(SolidHit)
		if !ok {
			return
		}
		depth := math.Max(f.Depth(hit.Pos), minWallDepth)
		if hit.Boundary || depth > f.FarClip {
			return
		}

		node, _ := job.Grid.Node(hit.X, hit.Y)
		if !node.FaceVisible(hit.Face) {
			continue
		}
		if columnOccluded(job.Buffer, x, depth) {
			return
		}
		drawWallHit(job, x, hit, node, depth, dir)
	}
}

// FirstHit traces the ray of column x to the first solid cell or the grid
// exit and returns the hit with its view depth. It reports false when the
// far clip is reached first.
func FirstHit(job *Job, x int) (Hit, float64, bool) {
	f := &job.Frame
	dir := f.ColumnRay(x).Normalize()
	hit, ok := Trace(job.Grid, f.Camera.Pos, dir, f.FarClip/dir.Dot(f.Forward), SolidHit)
	if !ok {
		return Hit{}, 0, false
	}
	return hit, math.Max(f.Depth(hit.Pos), minWallDepth), true
}

// columnOccluded reports whether every pixel of column x is already at or
// nearer than depth, in which case nothing further along the ray can show.
func columnOccluded(buf *Buffer, x int, depth float64) bool {
	d := float32(depth)
	for i := x; i < len(buf.Depth); i += buf.Width {
		if buf.Depth[i] > d {
			return false
		}
	}
	return true
}

// wallU returns the horizontal texture coordinate of a hit, mirrored so that
// every face reads left to right when seen from outside the cell.
func wallU(hit Hit, dir mgl64.Vec2) float64 {
	if hit.Side == SideVertical {
		u := mathutil.Frac(hit.Pos.Y())
		if dir.X() > 0 {
			u = 1 - u
		}
		return u
	}
	u := mathutil.Frac(hit.Pos.X())
	if dir.Y() < 0 {
		u = 1 - u
	}
	return u
}

// drawWallHit draws the stacked strips of one hit, bottom to top, and runs
// seam correction on boundaries between strips of different textures.
func drawWallHit(job *Job, x int, hit Hit, node *world.GridNode, depth float64, dir mgl64.Vec2) {
	u := wallU(hit, dir)
	lo, hi := visibleStrips(&job.Frame, node, depth)
	prev := world.NoTexture
	if lo > -node.ExtendDown {
		prev = node.StripTexture(lo - 1)
	}
	for k := lo; k <= hi; k++ {
		tex := node.StripTexture(k)
		if tex != world.NoTexture {
			drawStrip(job, x, k, tex, u, depth)
		}
		if k > -node.ExtendDown && tex != world.NoTexture && prev != world.NoTexture && tex != prev {
			correctSeam(job, x, float64(k), depth)
		}
		prev = tex
	}
}

// visibleStrips returns the strips of node, [lo, hi], that can reach the
// screen at depth, with one strip of slack below and above. Strips outside
// it are never visited, so huge extension counts cost nothing.
func visibleStrips(f *FrameParams, node *world.GridNode, depth float64) (lo, hi int) {
	// Heights projecting to the bottom and top screen edges.
	zBottom := EyeHeight - (float64(f.Height)-f.Horizon)*depth/f.ViewHeightPx
	zTop := EyeHeight + f.Horizon*depth/f.ViewHeightPx
	lo = int(math.Max(math.Floor(zBottom)-1, float64(-node.ExtendDown)))
	hi = int(math.Min(math.Ceil(zTop), float64(node.ExtendUp)))
	return lo, hi
}

// stripRows returns the screen rows [top, bottom) whose pixel centres fall
// inside the unit strip [k, k+1] at depth, plus the strip's fractional
// screen extent.
func stripRows(f *FrameParams, k int, depth float64) (top, bottom int, yTop, yBot float64) {
	yTop = f.ScreenY(float64(k)+1, depth)
	yBot = f.ScreenY(float64(k), depth)
	top = mathutil.IntClamp(int(math.Ceil(yTop-0.5)), 0, f.Height)
	bottom = mathutil.IntClamp(int(math.Ceil(yBot-0.5)), 0, f.Height)
	return top, bottom, yTop, yBot
}

func drawStrip(job *Job, x, k, tex int, u, depth float64) {
	f := &job.Frame
	top, bottom, yTop, yBot := stripRows(f, k, depth)
	if top >= bottom {
		return
	}

	s := job.texture(tex)
	tx := mathutil.IntMin(int(u*float64(s.Width)), s.Width-1)
	span := yBot - yTop
	d := float32(depth)
	buf := job.Buffer

	for y := top; y < bottom; y++ {
		v := (float64(y) + 0.5 - yTop) / span
		ty := mathutil.IntClamp(int(v*float64(s.Height)), 0, s.Height-1)
		c := s.At(tx, ty)
		if graphics.Alpha(c) == 0 {
			continue
		}
		buf.Write(buf.Index(x, y), Shade(c, depth, job.Config), d)
	}
}

// correctSeam fills short gaps around the boundary at height z. A row in the
// window counts as a gap when it is farther than depth+tolerance. A gap of at
// most seamRows rows is filled only when rows written at this hit's depth lie
// directly above and below it, which separates seams from the wall ending.
func correctSeam(job *Job, x int, z, depth float64) {
	f := &job.Frame
	buf := job.Buffer
	tol := float32(job.Config.SeamTolerance)
	d := float32(depth)

	boundary := int(math.Round(f.ScreenY(z, depth)))
	lo := max(boundary-seamRows-1, 0)
	hi := min(boundary+seamRows+1, f.Height)
	if hi-lo < 3 {
		return
	}

	atDepth := func(y int) bool {
		return float32(math.Abs(float64(buf.Depth[buf.Index(x, y)]-d))) <= tol
	}

	for y := lo + 1; y < hi-1; y++ {
		i := buf.Index(x, y)
		if buf.Depth[i] <= d+tol {
			continue
		}

		above, below := -1, -1
		for a := y - 1; a >= lo; a-- {
			if atDepth(a) {
				above = a
				break
			}
		}
		for b := y + 1; b < hi; b++ {
			if atDepth(b) {
				below = b
				break
			}
		}
		if above < 0 || below < 0 || below-above-1 > seamRows {
			continue
		}

		c := SeamHighlightColor
		if !job.Config.HighlightSeams {
			src := above
			if below-y < y-above {
				src = below
			}
			c = buf.Color[buf.Index(x, src)]
		}
		buf.Color[i] = c
		buf.Depth[i] = d
	}
}
