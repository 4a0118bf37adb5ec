package raycast

import (
	"math"

	"gridcaster/internal/config"
	"gridcaster/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertical layout in grid units. The eye sits halfway between the inner
// floor and inner ceiling; the outer tier is one unit further out each way.
const (
	EyeHeight        = 0.5
	InnerPlaneHeight = 0.5 // eye to inner floor / inner ceiling
	OuterPlaneHeight = 1.5 // eye to outer floor / roof
)

// Camera is a first-person pose. Yaw is in radians, 0 facing +X and
// increasing towards +Y. Pitch is normalized to [-1, 1]; positive looks up.
type Camera struct {
	Pos   mgl64.Vec2
	Yaw   float64
	Pitch float64
}

// FrameParams are derived once per frame and shared read-only by every pass
// and both backends.
type FrameParams struct {
	Camera Camera

	Width   int
	Height  int
	FarClip float64

	Forward mgl64.Vec2
	Right   mgl64.Vec2

	// Screen plane at unit distance along Forward. Column rays are
	// LeftEdge + RaySpacing*(x+0.5); their forward component is always 1.
	LeftEdge         mgl64.Vec2
	RightEdge        mgl64.Vec2
	RaySpacing       mgl64.Vec2
	RaySpacingLength float64
	FOVMin           mgl64.Vec2 // normalized left edge direction
	FOVMax           mgl64.Vec2 // normalized right edge direction
	TanHalfFOV       float64

	PitchPx          float64
	Horizon          float64
	WallMultiplier   float64
	ViewHeightPx     float64
	InnerPlaneHeight float64
	OuterPlaneHeight float64
}

// fovTable maps field of view in degrees to the wall height multiplier that
// keeps wall projection in step with the floor and ceiling.
var fovTable = [...]struct{ fov, mult float64 }{
	{35, 1.19},
	{45, 1.16},
	{50, 1.13},
	{55, 1.11},
	{62.5, 1.07},
	{75, 1.0},
	{90, 0.888},
	{105, 0.777},
	{120, 0.63},
}

// WallHeightMultiplier interpolates the FOV lookup table linearly, clamping
// outside its range.
func WallHeightMultiplier(fovDeg float64) float64 {
	if fovDeg <= fovTable[0].fov || math.IsNaN(fovDeg) {
		return fovTable[0].mult
	}
	last := fovTable[len(fovTable)-1]
	if fovDeg >= last.fov {
		return last.mult
	}
	for i := 1; i < len(fovTable); i++ {
		hi := fovTable[i]
		if fovDeg <= hi.fov {
			lo := fovTable[i-1]
			t := (fovDeg - lo.fov) / (hi.fov - lo.fov)
			return mathutil.Lerp(lo.mult, hi.mult, t)
		}
	}
	return last.mult
}

// BuildFrame derives the frame parameters for a camera pose. cfg is expected
// to be clamped already.
func BuildFrame(cam Camera, cfg config.RaycastConfig) FrameParams {
	cam.Pitch = mathutil.Clamp(cam.Pitch, -1, 1)

	forward := mgl64.Vec2{math.Cos(cam.Yaw), math.Sin(cam.Yaw)}
	right := mgl64.Vec2{math.Cos(cam.Yaw + math.Pi/2), math.Sin(cam.Yaw + math.Pi/2)}
	tanHalf := math.Tan(cfg.FieldOfView * math.Pi / 360)

	left := forward.Sub(right.Mul(tanHalf))
	rightEdge := forward.Add(right.Mul(tanHalf))
	spacing := rightEdge.Sub(left).Mul(1 / float64(cfg.XResolution))

	mult := WallHeightMultiplier(cfg.FieldOfView)
	pitchPx := cam.Pitch * float64(cfg.YResolution)

	return FrameParams{
		Camera:           cam,
		Width:            cfg.XResolution,
		Height:           cfg.YResolution,
		FarClip:          cfg.FarClip,
		Forward:          forward,
		Right:            right,
		LeftEdge:         left,
		RightEdge:        rightEdge,
		RaySpacing:       spacing,
		RaySpacingLength: spacing.Len(),
		FOVMin:           left.Normalize(),
		FOVMax:           rightEdge.Normalize(),
		TanHalfFOV:       tanHalf,
		PitchPx:          pitchPx,
		Horizon:          float64(cfg.YResolution)/2 + pitchPx,
		WallMultiplier:   mult,
		ViewHeightPx:     float64(cfg.YResolution) * mult,
		InnerPlaneHeight: InnerPlaneHeight,
		OuterPlaneHeight: OuterPlaneHeight,
	}
}

// ColumnRay returns the un-normalized ray through the centre of column x.
func (f *FrameParams) ColumnRay(x int) mgl64.Vec2 {
	return f.LeftEdge.Add(f.RaySpacing.Mul(float64(x) + 0.5))
}

// ScreenY projects height z (grid units, floor at 0) at depth d to a
// fractional screen row.
func (f *FrameParams) ScreenY(z, depth float64) float64 {
	return f.Horizon - (z-EyeHeight)*f.ViewHeightPx/depth
}

// Depth returns the distance of p along the view direction.
func (f *FrameParams) Depth(p mgl64.Vec2) float64 {
	return p.Sub(f.Camera.Pos).Dot(f.Forward)
}
