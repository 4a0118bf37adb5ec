package raycast

import (
	"gridcaster/internal/config"
	"gridcaster/internal/graphics"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// Texture ids used by the tests.
const (
	texRed = iota
	texGreen
	texBlue
	texClear
)

var (
	red   = graphics.PackRGBA(0xff, 0, 0, 0xff)
	green = graphics.PackRGBA(0, 0xff, 0, 0xff)
	blue  = graphics.PackRGBA(0, 0, 0xff, 0xff)
)

func testTextures() *graphics.TextureSet {
	return graphics.NewTextureSet(
		graphics.Solid(4, red),
		graphics.Solid(4, green),
		graphics.Solid(4, blue),
		graphics.Solid(4, 0),
	)
}

// testConfig is a small, fog-free, single-threaded configuration with an odd
// width so the centre column looks straight ahead.
func testConfig() config.RaycastConfig {
	cfg := config.DefaultRaycastConfig()
	cfg.XResolution = 17
	cfg.YResolution = 32
	cfg.FieldOfView = 90
	cfg.FarClip = 10
	cfg.ThreadCount = 1
	cfg.Fog.Enabled = false
	return cfg.Clamp()
}

func openGrid(w, h int) *world.Grid {
	return world.NewGrid(w, h)
}

func wallNode(tex int) world.GridNode {
	n := world.EmptyNode()
	n.Wall = tex
	return n
}

func floorNode(inner, outer int) world.GridNode {
	n := world.EmptyNode()
	n.Floor = [world.LayerCount]int{inner, outer}
	return n
}

func newTestJob(grid world.GridMap, cfg config.RaycastConfig, cam Camera) *Job {
	return &Job{
		Frame:  BuildFrame(cam, cfg),
		Config: cfg,
		Grid:   grid,
		Tiles:  testTextures(),
		Buffer: NewBuffer(cfg.XResolution, cfg.YResolution),
	}
}

func cameraAt(x, y, yaw float64) Camera {
	return Camera{Pos: mgl64.Vec2{x, y}, Yaw: yaw}
}
