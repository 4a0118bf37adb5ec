package game

import (
	"math"

	"gridcaster/internal/mathutil"
	"gridcaster/internal/raycast"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// FirstPersonCamera is the viewer's pose. Angle 0 faces +X and grows towards
// +Y; Pitch is normalized to [-1, 1].
type FirstPersonCamera struct {
	Pos   mgl64.Vec2
	Angle float64
	Pitch float64
}

// NewCamera places a camera at a map's spawn point.
func NewCamera(spawn world.SpawnPoint) *FirstPersonCamera {
	return &FirstPersonCamera{
		Pos:   mgl64.Vec2{spawn.X, spawn.Y},
		Angle: spawn.Yaw,
		Pitch: mathutil.Clamp(spawn.Pitch, -1, 1),
	}
}

// Forward returns the unit view direction.
func (c *FirstPersonCamera) Forward() mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(c.Angle), math.Sin(c.Angle)}
}

// Right returns the unit direction to the viewer's right.
func (c *FirstPersonCamera) Right() mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(c.Angle + math.Pi/2), math.Sin(c.Angle + math.Pi/2)}
}

// Move walks forward and strafes right by the given distances.
func (c *FirstPersonCamera) Move(forward, strafe float64) {
	c.Pos = c.Pos.Add(c.Forward().Mul(forward)).Add(c.Right().Mul(strafe))
}

// Rotate turns the camera; positive angles turn right.
func (c *FirstPersonCamera) Rotate(angle float64) {
	c.Angle = math.Mod(c.Angle+angle, 2*math.Pi)
}

// AddPitch tilts the view, clamped to [-1, 1].
func (c *FirstPersonCamera) AddPitch(d float64) {
	c.Pitch = mathutil.Clamp(c.Pitch+d, -1, 1)
}

// View returns the pose in the renderer's terms.
func (c *FirstPersonCamera) View() raycast.Camera {
	return raycast.Camera{Pos: c.Pos, Yaw: c.Angle, Pitch: c.Pitch}
}
