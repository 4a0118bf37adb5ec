package raycast

import (
	"gridcaster/internal/config"
	"gridcaster/internal/graphics"
	"gridcaster/internal/world"
)

// Job is everything one first-person frame needs. A backend reads it and
// writes only Buffer.
type Job struct {
	Frame  FrameParams
	Config config.RaycastConfig
	Grid   world.GridMap
	Tiles  graphics.SurfaceProvider
	Buffer *Buffer
}

// RenderBackend rasterizes the plane and wall passes of a Job into its
// buffer. Planes must be complete before walls depth-test against them.
type RenderBackend interface {
	Name() string
	Render(job *Job) error
	Close()
}

// texture resolves a tile texture, substituting the placeholder.
func (j *Job) texture(id int) graphics.Surface {
	return graphics.Resolve(j.Tiles, id)
}

// Shade applies linear depth fog to a packed colour. Alpha is kept.
func Shade(c uint32, depth float64, cfg config.RaycastConfig) uint32 {
	if !cfg.Fog.Enabled {
		return c
	}
	brightness := 1 - depth/cfg.FarClip
	if brightness < cfg.Fog.BrightnessMin {
		brightness = cfg.Fog.BrightnessMin
	}
	if brightness >= 1 {
		return c
	}
	r, g, b, a := graphics.UnpackRGBA(c)
	return graphics.PackRGBA(
		uint8(float64(r)*brightness),
		uint8(float64(g)*brightness),
		uint8(float64(b)*brightness),
		a,
	)
}
