//go:build !opencl

package gpu

import (
	"errors"

	"gridcaster/internal/config"
	"gridcaster/internal/graphics"
	"gridcaster/internal/raycast"
	"gridcaster/internal/world"
)

// Available reports whether this build carries the OpenCL backend.
const Available = false

// ErrUnavailable is returned by NewComputeBackend in builds without OpenCL.
var ErrUnavailable = errors.New("OpenCL support is not enabled; rebuild with -tags opencl")

// NewComputeBackend always fails in this build, so the engine stays on the
// software backend.
func NewComputeBackend(config.RaycastConfig, world.GridMap, graphics.SurfaceProvider) (raycast.RenderBackend, error) {
	return nil, ErrUnavailable
}
