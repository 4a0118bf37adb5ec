package raycast

import (
	"math"

	"gridcaster/internal/graphics"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// RasterizePlaneRows draws floors (below the horizon) and ceilings (above it)
// for rows [y0, y1). Each pixel tries the inner layer first and stops at the
// first opaque texel, so nearer tiers win without a depth comparison between
// layers. Rows are independent; disjoint ranges may run concurrently.
func RasterizePlaneRows(job *Job, y0, y1 int) {
	f := &job.Frame
	buf := job.Buffer
	heights := [world.LayerCount]float64{f.InnerPlaneHeight, f.OuterPlaneHeight}

	var pos, step [world.LayerCount]mgl64.Vec2
	var depth [world.LayerCount]float64
	var active [world.LayerCount]bool

	for y := max(y0, 0); y < min(y1, f.Height); y++ {
		rowPitch := float64(y) + 0.5 - f.Horizon
		if math.Abs(rowPitch) < 1e-9 {
			continue
		}
		floor := rowPitch > 0

		visible := false
		for l := range heights {
			d := heights[l] * f.ViewHeightPx / math.Abs(rowPitch)
			active[l] = d <= f.FarClip
			if !active[l] {
				continue
			}
			visible = true
			depth[l] = d
			// World position of the first pixel centre, then a fixed step per pixel.
			pos[l] = f.Camera.Pos.Add(f.LeftEdge.Add(f.RaySpacing.Mul(0.5)).Mul(d))
			step[l] = f.RaySpacing.Mul(d)
		}
		if !visible {
			continue
		}

		row := y * f.Width
		for x := 0; x < f.Width; x++ {
			for l := range heights {
				if !active[l] {
					continue
				}
				if c, ok := samplePlane(job, pos[l], l, floor); ok {
					buf.Write(row+x, Shade(c, depth[l], job.Config), float32(depth[l]))
					break
				}
			}
			for l := range pos {
				pos[l] = pos[l].Add(step[l])
			}
		}
	}
}

// samplePlane returns the opaque plane texel at world position p for layer l.
func samplePlane(job *Job, p mgl64.Vec2, l int, floor bool) (uint32, bool) {
	cx, cy := int(math.Floor(p.X())), int(math.Floor(p.Y()))
	node, ok := job.Grid.Node(cx, cy)
	if !ok {
		return 0, false
	}
	id := node.Ceiling[l]
	if floor {
		id = node.Floor[l]
	}
	if id == world.NoTexture {
		return 0, false
	}
	c := job.texture(id).Sample(p.X(), p.Y())
	if graphics.Alpha(c) == 0 {
		return 0, false
	}
	return c, true
}
