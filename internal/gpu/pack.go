// Package gpu holds the compute backend: the map, textures and frame
// parameters flattened into device buffers, and an OpenCL implementation of
// the plane and wall passes built with the opencl tag.
package gpu

import (
	"gridcaster/internal/config"
	"gridcaster/internal/graphics"
	"gridcaster/internal/raycast"
	"gridcaster/internal/world"
)

// Node layout in the packed grid, NodeStride int32 per cell.
const (
	nodeFloorInner = iota
	nodeFloorOuter
	nodeCeilingInner
	nodeCeilingOuter
	nodeWall
	nodeWallUp
	nodeWallDown
	nodeExtendUp
	nodeExtendDown
	nodeDrawFlags
	NodeStride
)

// Frame parameter layout, one float32 each.
const (
	paramCamX = iota
	paramCamY
	paramForwardX
	paramForwardY
	paramLeftX
	paramLeftY
	paramSpacingX
	paramSpacingY
	paramHorizon
	paramViewHeight
	paramFarClip
	paramInnerHeight
	paramOuterHeight
	paramSeamTolerance
	paramFogMin
	paramFogEnabled
	paramHighlightSeams
	ParamCount
)

// TexInfoStride is the number of int32 per texture in the info table:
// texel offset, width, height.
const TexInfoStride = 3

// PackGrid flattens a map row by row.
func PackGrid(grid world.GridMap) []int32 {
	w, h := grid.Width(), grid.Height()
	out := make([]int32, w*h*NodeStride)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n, ok := grid.Node(x, y)
			if !ok {
				continue
			}
			packNode(out[(y*w+x)*NodeStride:], n)
		}
	}
	return out
}

func packNode(dst []int32, n *world.GridNode) {
	dst[nodeFloorInner] = int32(n.Floor[world.LayerInner])
	dst[nodeFloorOuter] = int32(n.Floor[world.LayerOuter])
	dst[nodeCeilingInner] = int32(n.Ceiling[world.LayerInner])
	dst[nodeCeilingOuter] = int32(n.Ceiling[world.LayerOuter])
	dst[nodeWall] = int32(n.Wall)
	dst[nodeWallUp] = int32(n.WallUp)
	dst[nodeWallDown] = int32(n.WallDown)
	dst[nodeExtendUp] = int32(n.ExtendUp)
	dst[nodeExtendDown] = int32(n.ExtendDown)
	dst[nodeDrawFlags] = int32(n.DrawFlags)
}

// PackedTextures is a texture set as one texel array plus an offset table.
// Slot Count holds the placeholder; unknown ids resolve to it.
type PackedTextures struct {
	Texels []uint32
	Info   []int32
	Count  int
}

// PackTextures resolves every id of p (invalid surfaces become the
// placeholder) and appends the placeholder as the last slot.
func PackTextures(p graphics.SurfaceProvider) PackedTextures {
	n := 0
	if p != nil {
		n = p.Len()
	}
	surfaces := make([]graphics.Surface, 0, n+1)
	total := 0
	for id := 0; id < n; id++ {
		s := graphics.Resolve(p, id)
		surfaces = append(surfaces, s)
		total += s.Width * s.Height
	}
	ph := graphics.Placeholder()
	surfaces = append(surfaces, ph)
	total += ph.Width * ph.Height

	pt := PackedTextures{
		Texels: make([]uint32, 0, total),
		Info:   make([]int32, 0, len(surfaces)*TexInfoStride),
		Count:  n,
	}
	for _, s := range surfaces {
		pt.Info = append(pt.Info, int32(len(pt.Texels)), int32(s.Width), int32(s.Height))
		for y := 0; y < s.Height; y++ {
			for x := 0; x < s.Width; x++ {
				pt.Texels = append(pt.Texels, s.At(x, y))
			}
		}
	}
	return pt
}

// PackParams writes the frame parameters the kernels read into dst, which
// must hold ParamCount values.
func PackParams(dst []float32, f *raycast.FrameParams, cfg config.RaycastConfig) {
	dst[paramCamX] = float32(f.Camera.Pos.X())
	dst[paramCamY] = float32(f.Camera.Pos.Y())
	dst[paramForwardX] = float32(f.Forward.X())
	dst[paramForwardY] = float32(f.Forward.Y())
	dst[paramLeftX] = float32(f.LeftEdge.X())
	dst[paramLeftY] = float32(f.LeftEdge.Y())
	dst[paramSpacingX] = float32(f.RaySpacing.X())
	dst[paramSpacingY] = float32(f.RaySpacing.Y())
	dst[paramHorizon] = float32(f.Horizon)
	dst[paramViewHeight] = float32(f.ViewHeightPx)
	dst[paramFarClip] = float32(f.FarClip)
	dst[paramInnerHeight] = float32(f.InnerPlaneHeight)
	dst[paramOuterHeight] = float32(f.OuterPlaneHeight)
	dst[paramSeamTolerance] = float32(cfg.SeamTolerance)
	dst[paramFogMin] = float32(cfg.Fog.BrightnessMin)
	dst[paramFogEnabled] = boolParam(cfg.Fog.Enabled)
	dst[paramHighlightSeams] = boolParam(cfg.HighlightSeams)
}

func boolParam(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
