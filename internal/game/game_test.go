package game

import (
	"math"
	"testing"
	"time"

	"gridcaster/internal/config"
	"gridcaster/internal/graphics"
	"gridcaster/internal/raycast"
	"gridcaster/internal/threading"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func newTestGame(t *testing.T) (*Game, map[ebiten.Key]bool) {
	t.Helper()
	cfg := config.Default()
	cfg.Raycast.XResolution = 32
	cfg.Raycast.YResolution = 24
	cfg.Raycast.ThreadCount = 1
	cfg.Raycast = cfg.Raycast.Clamp()

	tc := threading.NewThreadingComponents()
	grid := world.NewGrid(8, 8)
	engine, err := raycast.NewEngine(grid, graphics.NewTextureSet(), nil, cfg.Raycast, raycast.WithMonitor(tc.PerformanceMonitor))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	g := NewGame(cfg, engine, tc, &world.MapData{Name: "test", Grid: grid, Spawn: world.SpawnPoint{X: 4, Y: 4}})
	t.Cleanup(g.Close)

	held := map[ebiten.Key]bool{}
	g.input = NewInputHandler(g, func(k ebiten.Key) bool { return held[k] })
	return g, held
}

func TestCameraMovement(t *testing.T) {
	tests := []struct {
		name            string
		angle           float64
		forward, strafe float64
		want            mgl64.Vec2
	}{
		{"forward facing +x", 0, 1, 0, mgl64.Vec2{1, 0}},
		{"strafe right facing +x", 0, 0, 1, mgl64.Vec2{0, 1}},
		{"forward facing +y", math.Pi / 2, 2, 0, mgl64.Vec2{0, 2}},
		{"backward facing -x", math.Pi, -1, 0, mgl64.Vec2{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &FirstPersonCamera{Angle: tt.angle}
			c.Move(tt.forward, tt.strafe)
			if !near(c.Pos.X(), tt.want.X()) || !near(c.Pos.Y(), tt.want.Y()) {
				t.Errorf("Pos = %v, want %v", c.Pos, tt.want)
			}
		})
	}
}

func TestCameraPitchAndSpawn(t *testing.T) {
	c := NewCamera(world.SpawnPoint{X: 1.5, Y: 2.5, Yaw: 1, Pitch: 3})
	if c.Pitch != 1 || c.Pos != (mgl64.Vec2{1.5, 2.5}) || c.Angle != 1 {
		t.Fatalf("NewCamera = %+v", c)
	}
	c.AddPitch(-5)
	if c.Pitch != -1 {
		t.Errorf("Pitch = %v, want -1", c.Pitch)
	}
	c.Rotate(4 * math.Pi)
	if !near(c.Angle, 1) {
		t.Errorf("Angle = %v, want 1 after full turns", c.Angle)
	}
	if v := c.View(); v.Yaw != c.Angle || v.Pitch != c.Pitch {
		t.Errorf("View = %+v", v)
	}
}

func TestPackedToRGBA(t *testing.T) {
	color := []uint32{
		graphics.PackRGBA(1, 2, 3, 4),
		0,
	}
	got := PackedToRGBA(nil, color)
	want := []byte{1, 2, 3, 0xff, 0, 0, 0, 0xff}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	reused := PackedToRGBA(make([]byte, 0, 64), color[:1])
	if len(reused) != 4 || cap(reused) != 64 {
		t.Errorf("len=%d cap=%d, want 4 and reused capacity", len(reused), cap(reused))
	}
}

func TestInputMovement(t *testing.T) {
	g, held := newTestGame(t)
	start := g.camera.Pos

	held[ebiten.KeyW] = true
	g.input.HandleInput()
	if d := g.camera.Pos.Sub(start).Len(); !near(d, g.config.GetMoveSpeed()) {
		t.Errorf("moved %v, want %v", d, g.config.GetMoveSpeed())
	}

	held[ebiten.KeyW] = false
	held[ebiten.KeyD] = true
	held[ebiten.KeyPageUp] = true
	g.input.HandleInput()
	if !near(g.camera.Angle, g.config.GetRotSpeed()) {
		t.Errorf("Angle = %v, want %v", g.camera.Angle, g.config.GetRotSpeed())
	}
	if !near(g.camera.Pitch, g.config.Camera.PitchSpeed) {
		t.Errorf("Pitch = %v, want %v", g.camera.Pitch, g.config.Camera.PitchSpeed)
	}
}

func TestInputToggles(t *testing.T) {
	g, held := newTestGame(t)
	fov := g.engine.Config().FieldOfView

	held[ebiten.KeyTab] = true
	held[ebiten.KeyB] = true
	held[ebiten.KeyEqual] = true
	g.input.HandleInput()
	g.input.HandleInput() // still held: no second toggle

	if !g.topDown {
		t.Error("Tab did not switch to top down")
	}
	cfg := g.engine.Config()
	if cfg.Backend != config.BackendCompute {
		t.Errorf("Backend = %q, want compute requested", cfg.Backend)
	}
	if g.engine.BackendName() != "software" {
		t.Errorf("engine without compute should stay on software, got %q", g.engine.BackendName())
	}
	if cfg.FieldOfView != fov+fovStep {
		t.Errorf("FieldOfView = %v, want %v", cfg.FieldOfView, fov+fovStep)
	}

	held[ebiten.KeyTab] = false
	g.input.HandleInput()
	held[ebiten.KeyTab] = true
	g.input.HandleInput()
	if g.topDown {
		t.Error("second Tab press did not switch back")
	}
}

func TestCheckPerfDrop(t *testing.T) {
	g, _ := newTestGame(t)
	logged := 0
	g.perfLog = func(float64) { logged++ }

	t0 := time.Unix(1000, 0)
	steps := []struct {
		at   time.Duration
		fps  float64
		want bool
	}{
		{0, 30, false},
		{time.Second, 30, false},
		{3 * time.Second, 30, true},
		{4 * time.Second, 30, false},
		{6 * time.Second, 30, true},
		{7 * time.Second, 60, false},
		{8 * time.Second, 30, false},
	}
	for _, s := range steps {
		if got := g.checkPerfDrop(s.fps, t0.Add(s.at)); got != s.want {
			t.Errorf("at %v fps %.0f: logged=%v, want %v", s.at, s.fps, got, s.want)
		}
	}
	if logged != 2 {
		t.Errorf("snapshots = %d, want 2", logged)
	}
}
