package raycast

import (
	"errors"
	"fmt"
	"log"

	"gridcaster/internal/config"
	"gridcaster/internal/graphics"
	"gridcaster/internal/threading/monitoring"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoGrid is returned by NewEngine when no map is given.
var ErrNoGrid = errors.New("raycast: engine needs a grid")

// Uploader receives the finished frame, typically to copy it into a texture.
type Uploader interface {
	UploadBuffer(color []uint32, depth []float32, width, height int)
}

// ComputeFactory builds a compute backend for the engine's map and textures.
type ComputeFactory func(cfg config.RaycastConfig, grid world.GridMap, tiles graphics.SurfaceProvider) (RenderBackend, error)

// Option configures an Engine.
type Option func(*Engine)

// WithComputeBackend makes the compute backend selectable.
func WithComputeBackend(factory ComputeFactory) Option {
	return func(e *Engine) { e.compute = factory }
}

// WithMonitor records per-pass timings into pm.
func WithMonitor(pm *monitoring.PerformanceMonitor) Option {
	return func(e *Engine) { e.monitor = pm }
}

// Engine owns the frame buffer, the sprite arena and the active backend. It
// borrows the grid and textures and never writes to them. An Engine is not
// safe for concurrent use; the caller's render loop drives it.
type Engine struct {
	grid      world.GridMap
	tiles     graphics.SurfaceProvider
	spriteTex graphics.SurfaceProvider

	cfg     config.RaycastConfig
	frame   FrameParams
	buffer  *Buffer
	sprites *SpriteArena
	scratch []Sprite

	backend RenderBackend
	compute ComputeFactory
	monitor *monitoring.PerformanceMonitor

	tileColors []uint32
}

// NewEngine creates an engine for grid. tiles and sprites may be nil, in
// which case every texture renders as the placeholder.
func NewEngine(grid world.GridMap, tiles, sprites graphics.SurfaceProvider, cfg config.RaycastConfig, opts ...Option) (*Engine, error) {
	if grid == nil {
		return nil, ErrNoGrid
	}

	e := &Engine{
		grid:      grid,
		tiles:     tiles,
		spriteTex: sprites,
		cfg:       clampLogged(cfg),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.monitor == nil {
		e.monitor = monitoring.NewPerformanceMonitor()
	}

	e.buffer = NewBuffer(e.cfg.XResolution, e.cfg.YResolution)
	e.sprites = NewSpriteArena(e.cfg.MaxSprites)
	e.tileColors = averageColors(tiles)
	e.selectBackend()

	log.Printf("[Raycast] Engine ready: map %dx%d, %dx%d px, fov %.1f, backend %s",
		grid.Width(), grid.Height(), e.cfg.XResolution, e.cfg.YResolution, e.cfg.FieldOfView, e.backend.Name())
	return e, nil
}

func clampLogged(cfg config.RaycastConfig) config.RaycastConfig {
	clamped := cfg.Clamp()
	if clamped != cfg {
		log.Printf("[Raycast] Config adjusted into supported range: %+v", clamped)
	}
	return clamped
}

func averageColors(p graphics.SurfaceProvider) []uint32 {
	if p == nil {
		return nil
	}
	colors := make([]uint32, p.Len())
	for id := range colors {
		colors[id] = graphics.AverageColor(graphics.Resolve(p, id))
	}
	return colors
}

// selectBackend replaces the active backend according to cfg, falling back
// to software when compute is unavailable.
func (e *Engine) selectBackend() {
	if e.backend != nil {
		e.backend.Close()
		e.backend = nil
	}

	if e.cfg.Backend == config.BackendCompute {
		if e.compute == nil {
			log.Printf("[Raycast] Compute backend not available in this build, using software")
		} else if b, err := e.compute(e.cfg, e.grid, e.tiles); err != nil {
			log.Printf("[Raycast] Compute backend failed to start, using software: %v", err)
		} else {
			e.backend = b
		}
	}
	if e.backend == nil {
		e.backend = NewSoftwareBackend(e.cfg.ThreadCount, e.monitor)
	}
	if dev := e.BackendDevice(); dev != "" {
		log.Printf("[Raycast] %s backend running on %s", e.backend.Name(), dev)
	}
	e.monitor.SetBackend(e.backend.Name())
}

// SetConfig applies a new configuration from the next frame on. Values are
// clamped. The sprite capacity is fixed at creation and is not changed here.
func (e *Engine) SetConfig(cfg config.RaycastConfig) {
	next := clampLogged(cfg)
	if next.MaxSprites != e.sprites.Cap() {
		log.Printf("[Raycast] max_sprites is fixed at %d for this engine, ignoring %d", e.sprites.Cap(), next.MaxSprites)
		next.MaxSprites = e.sprites.Cap()
	}

	prev := e.cfg
	e.cfg = next

	if next.XResolution != prev.XResolution || next.YResolution != prev.YResolution {
		e.buffer.Resize(next.XResolution, next.YResolution)
	}

	rebuild := next.Backend != prev.Backend ||
		(e.backend.Name() == "software" && next.ThreadCount != prev.ThreadCount)
	if rebuild {
		e.selectBackend()
		log.Printf("[Raycast] Backend now %s", e.backend.Name())
	}
}

// Config returns the active, clamped configuration.
func (e *Engine) Config() config.RaycastConfig {
	return e.cfg
}

// BackendName returns the name of the backend that renders the next frame.
func (e *Engine) BackendName() string {
	return e.backend.Name()
}

// BackendDevice returns the device the active backend runs on, or "" for
// backends that do not name one.
func (e *Engine) BackendDevice() string {
	if d, ok := e.backend.(interface{ DeviceName() string }); ok {
		return d.DeviceName()
	}
	return ""
}

// Frame returns the parameters of the last rendered frame.
func (e *Engine) Frame() FrameParams {
	return e.frame
}

// Buffer returns the engine's colour+depth buffer. It is only stable
// between frames.
func (e *Engine) Buffer() *Buffer {
	return e.buffer
}

// Monitor returns the performance monitor the engine records into.
func (e *Engine) Monitor() *monitoring.PerformanceMonitor {
	return e.monitor
}

func (e *Engine) job() *Job {
	return &Job{
		Frame:  e.frame,
		Config: e.cfg,
		Grid:   e.grid,
		Tiles:  e.tiles,
		Buffer: e.buffer,
	}
}

// RenderFirstPerson renders planes, walls and sprites for a camera pose.
// pitch is normalized to [-1, 1]; angle is the yaw in radians. If the compute
// backend fails mid-session the engine switches to software and retries once.
func (e *Engine) RenderFirstPerson(pos mgl64.Vec2, pitch, angle float64) error {
	ft := e.monitor.StartFrame()
	defer ft.EndFrame()

	e.frame = BuildFrame(Camera{Pos: pos, Yaw: angle, Pitch: pitch}, e.cfg)
	e.buffer.Clear()
	job := e.job()

	if err := e.backend.Render(job); err != nil {
		if e.backend.Name() == "software" {
			return fmt.Errorf("render first person: %w", err)
		}
		log.Printf("[Raycast] %s backend failed, switching to software: %v", e.backend.Name(), err)
		e.cfg.Backend = config.BackendSoftware
		e.selectBackend()
		e.buffer.Clear()
		if err := e.backend.Render(job); err != nil {
			return fmt.Errorf("render first person: %w", err)
		}
	}

	t := e.monitor.StartPass(monitoring.PassSprites)
	e.scratch = e.sprites.AppendActive(e.scratch[:0])
	drawn := CompositeSprites(job, e.spriteTex, e.scratch)
	t.End()
	e.monitor.SetSpritesDrawn(drawn)
	return nil
}

// RenderTopDown draws the overhead debug view for a camera position and yaw.
func (e *Engine) RenderTopDown(pos mgl64.Vec2, angle float64) {
	e.frame = BuildFrame(Camera{Pos: pos, Yaw: angle}, e.cfg)
	e.buffer.Clear()
	RenderTopDownView(e.job(), e.tileColors)
}

// CastColumn traces the ray of screen column x in the last rendered frame.
func (e *Engine) CastColumn(x int) (Hit, float64, bool) {
	return FirstHit(e.job(), x)
}

// Present hands the finished buffer to u.
func (e *Engine) Present(u Uploader) {
	t := e.monitor.StartPass(monitoring.PassUpload)
	u.UploadBuffer(e.buffer.Color, e.buffer.Depth, e.buffer.Width, e.buffer.Height)
	t.End()
}

// CreateSprite adds a sprite with default size at pos. It panics with
// ErrSpriteCapacity when max_sprites sprites already exist.
func (e *Engine) CreateSprite(textureID int, pos mgl64.Vec2) SpriteHandle {
	return e.sprites.Create(Sprite{Texture: textureID, Pos: pos})
}

// AddSprite adds a fully specified sprite. It panics like CreateSprite.
func (e *Engine) AddSprite(s Sprite) SpriteHandle {
	return e.sprites.Create(s)
}

// DestroySprite removes a sprite; stale handles return false.
func (e *Engine) DestroySprite(h SpriteHandle) bool {
	return e.sprites.Destroy(h)
}

// Sprite returns the live sprite behind h for in-place edits.
func (e *Engine) Sprite(h SpriteHandle) (*Sprite, bool) {
	return e.sprites.Get(h)
}

// MoveSprite sets a sprite's position.
func (e *Engine) MoveSprite(h SpriteHandle, pos mgl64.Vec2) bool {
	s, ok := e.sprites.Get(h)
	if ok {
		s.Pos = pos
	}
	return ok
}

// SpriteCount returns the number of live sprites.
func (e *Engine) SpriteCount() int {
	return e.sprites.Len()
}

// Close releases the backend. The engine must not be used afterwards.
func (e *Engine) Close() {
	if e.backend != nil {
		e.backend.Close()
		e.backend = nil
	}
}
