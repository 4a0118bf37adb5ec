package config

import (
	"runtime"
	"strings"

	"gridcaster/internal/mathutil"
)

// Backend selects which implementation renders walls and planes.
type Backend string

const (
	BackendSoftware Backend = "software"
	BackendCompute  Backend = "compute"
)

// Limits applied by RaycastConfig.Clamp.
const (
	MinFOV           = 35.0
	MaxFOV           = 120.0
	MinResolution    = 16
	MaxResolution    = 4096
	MinFarClip       = 1.0
	MaxFarClip       = 1024.0
	MaxEncounters    = 64
	MaxDebugScale    = 64
	MaxSeamTolerance = 1.0
	MaxSpriteLimit   = 1 << 16
)

// RaycastConfig is the per-frame renderer configuration. The engine takes a
// copy when it is set, so a frame never observes a half-applied change.
type RaycastConfig struct {
	FieldOfView       float64   `yaml:"field_of_view"` // degrees
	FarClip           float64   `yaml:"far_clip"`      // grid units
	XResolution       int       `yaml:"x_resolution"`
	YResolution       int       `yaml:"y_resolution"`
	ThreadCount       int       `yaml:"thread_count"`
	RayEncounterLimit int       `yaml:"ray_encounter_limit"` // stacked wall hits per ray
	Debug2DScale      int       `yaml:"debug_2d_scale"`      // pixels per cell in the top-down view
	SeamTolerance     float64   `yaml:"seam_tolerance"`      // depth tolerance for seam correction
	HighlightSeams    bool      `yaml:"highlight_corrective_pixels"`
	Backend           Backend   `yaml:"backend"`
	MaxSprites        int       `yaml:"max_sprites"`
	Fog               FogConfig `yaml:"fog"`
}

// FogConfig controls linear depth fog.
type FogConfig struct {
	Enabled       bool    `yaml:"enabled"`
	BrightnessMin float64 `yaml:"brightness_min"`
}

// DefaultRaycastConfig returns sane defaults: 75° FOV at 640x360.
func DefaultRaycastConfig() RaycastConfig {
	return RaycastConfig{
		FieldOfView:       75,
		FarClip:           24,
		XResolution:       640,
		YResolution:       360,
		ThreadCount:       runtime.NumCPU(),
		RayEncounterLimit: 8,
		Debug2DScale:      12,
		SeamTolerance:     0.02,
		Backend:           BackendSoftware,
		MaxSprites:        256,
		Fog: FogConfig{
			Enabled:       true,
			BrightnessMin: 0.25,
		},
	}
}

// Clamp returns a copy with every knob forced into its supported range.
// Out-of-range values are never rejected.
func (c RaycastConfig) Clamp() RaycastConfig {
	c.FieldOfView = mathutil.Clamp(c.FieldOfView, MinFOV, MaxFOV)
	if c.FarClip != c.FarClip { // NaN
		c.FarClip = MinFarClip
	}
	c.FarClip = mathutil.Clamp(c.FarClip, MinFarClip, MaxFarClip)
	c.XResolution = mathutil.IntClamp(c.XResolution, MinResolution, MaxResolution)
	c.YResolution = mathutil.IntClamp(c.YResolution, MinResolution, MaxResolution)
	c.ThreadCount = mathutil.IntClamp(c.ThreadCount, 1, mathutil.IntMax(1, runtime.NumCPU()))
	c.RayEncounterLimit = mathutil.IntClamp(c.RayEncounterLimit, 1, MaxEncounters)
	c.Debug2DScale = mathutil.IntClamp(c.Debug2DScale, 1, MaxDebugScale)
	c.SeamTolerance = mathutil.Clamp(c.SeamTolerance, 0, MaxSeamTolerance)
	c.MaxSprites = mathutil.IntClamp(c.MaxSprites, 1, MaxSpriteLimit)
	c.Fog.BrightnessMin = mathutil.Clamp(c.Fog.BrightnessMin, 0, 1)

	switch Backend(strings.ToLower(string(c.Backend))) {
	case BackendCompute:
		c.Backend = BackendCompute
	default:
		c.Backend = BackendSoftware
	}
	return c
}

// PixelCount returns XResolution * YResolution.
func (c RaycastConfig) PixelCount() int {
	return c.XResolution * c.YResolution
}
