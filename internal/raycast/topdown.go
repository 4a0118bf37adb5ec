package raycast

import (
	"math"

	"gridcaster/internal/graphics"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// Top-down debug view colours.
var (
	topDownRayColor    = graphics.PackRGBA(0xff, 0xe0, 0x40, 0xff)
	topDownEdgeColor   = graphics.PackRGBA(0xff, 0x80, 0x20, 0xff)
	topDownCameraColor = graphics.PackRGBA(0xff, 0x20, 0x20, 0xff)
)

// topDownRays is roughly how many column rays the debug view draws.
const topDownRays = 48

// RenderTopDownView draws a map overview centred on the camera, scaled by
// Debug2DScale pixels per cell, with a fan of traced view rays. colors maps
// texture ids to their average colour. Every drawn pixel gets depth 0.
func RenderTopDownView(job *Job, colors []uint32) {
	f := &job.Frame
	buf := job.Buffer
	scale := float64(job.Config.Debug2DScale)
	cam := f.Camera.Pos

	toScreen := func(p mgl64.Vec2) (int, int) {
		return int(math.Floor((p.X()-cam.X())*scale + float64(f.Width)/2)),
			int(math.Floor((p.Y()-cam.Y())*scale + float64(f.Height)/2))
	}
	colorOf := func(id int) uint32 {
		if id < 0 || id >= len(colors) {
			return graphics.PlaceholderColor
		}
		return colors[id]
	}

	for py := 0; py < f.Height; py++ {
		wy := cam.Y() + (float64(py)+0.5-float64(f.Height)/2)/scale
		for px := 0; px < f.Width; px++ {
			wx := cam.X() + (float64(px)+0.5-float64(f.Width)/2)/scale
			cx, cy := int(math.Floor(wx)), int(math.Floor(wy))
			node, ok := job.Grid.Node(cx, cy)
			if !ok {
				continue
			}
			c, ok := cellColor(node, colorOf)
			if !ok {
				continue
			}
			// One-pixel darker grid lines once cells are big enough to show them.
			if scale >= 4 && (wx-float64(cx) < 1/scale || wy-float64(cy) < 1/scale) {
				c = dim(c, 0.6)
			}
			plot(buf, px, py, c)
		}
	}

	step := max(1, f.Width/topDownRays)
	x0, y0 := toScreen(cam)
	for x := 0; x < f.Width; x += step {
		end := rayEnd(job, x)
		x1, y1 := toScreen(end)
		drawLine(buf, x0, y0, x1, y1, topDownRayColor)
	}
	for _, edge := range []mgl64.Vec2{f.FOVMin, f.FOVMax} {
		x1, y1 := toScreen(cam.Add(edge.Mul(1.5)))
		drawLine(buf, x0, y0, x1, y1, topDownEdgeColor)
	}

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			plot(buf, x0+dx, y0+dy, topDownCameraColor)
		}
	}
}

// cellColor returns the overview colour of a node: solid cells use their wall
// (or extension) colour, open cells a dimmed floor colour.
func cellColor(node *world.GridNode, colorOf func(int) uint32) (uint32, bool) {
	if node.Solid() {
		id := node.Wall
		if id == world.NoTexture {
			id = node.UpTexture()
		}
		if id == world.NoTexture {
			id = node.DownTexture()
		}
		return colorOf(id), true
	}
	for _, id := range node.Floor {
		if id != world.NoTexture {
			return dim(colorOf(id), 0.4), true
		}
	}
	return 0, false
}

// rayEnd returns where the column ray first stops, or its far clip point.
func rayEnd(job *Job, x int) mgl64.Vec2 {
	if hit, _, ok := FirstHit(job, x); ok {
		return hit.Pos
	}
	f := &job.Frame
	dir := f.ColumnRay(x).Normalize()
	return f.Camera.Pos.Add(dir.Mul(f.FarClip / dir.Dot(f.Forward)))
}

func plot(buf *Buffer, x, y int, c uint32) {
	if x < 0 || y < 0 || x >= buf.Width || y >= buf.Height {
		return
	}
	i := buf.Index(x, y)
	buf.Color[i] = c
	buf.Depth[i] = 0
}

func dim(c uint32, k float64) uint32 {
	r, g, b, a := graphics.UnpackRGBA(c)
	return graphics.PackRGBA(uint8(float64(r)*k), uint8(float64(g)*k), uint8(float64(b)*k), a)
}

// drawLine plots a line segment using Bresenham's integer algorithm.
func drawLine(buf *Buffer, x0, y0, x1, y1 int, c uint32) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(buf, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
