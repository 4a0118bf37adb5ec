package game

import (
	"fmt"
	"log"
	"time"

	"gridcaster/internal/config"
	"gridcaster/internal/raycast"
	"gridcaster/internal/threading"
	"gridcaster/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game is the interactive viewer: it moves a camera through a map and shows
// the engine's frames, either first person or top down.
type Game struct {
	config    *config.Config
	engine    *raycast.Engine
	camera    *FirstPersonCamera
	input     *InputHandler
	uploader  *ImageUploader
	threading *threading.ThreadingComponents

	topDown  bool
	showHUD  bool
	mapName  string
	drawErr  error
	frameNum uint64

	// Performance debug state
	perfDebugEnabled   bool
	perfLowFpsSince    time.Time
	perfLastPerfLog    time.Time
	perfLog            func(fps float64)
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
}

// NewGame creates a viewer for an engine already holding the map. The
// engine must record into tc's monitor for the perf log to see its passes.
func NewGame(cfg *config.Config, engine *raycast.Engine, tc *threading.ThreadingComponents, m *world.MapData) *Game {
	g := &Game{
		config:           cfg,
		engine:           engine,
		camera:           NewCamera(m.Spawn),
		uploader:         &ImageUploader{},
		threading:        tc,
		topDown:          cfg.Debug.StartInTopDown,
		showHUD:          true,
		mapName:          m.Name,
		perfDebugEnabled: cfg.Debug.PerfLog,
	}
	g.input = NewInputHandler(g, nil)
	g.perfLog = g.logPerfSnapshot
	log.Printf("[Game] Viewer started on %q at (%.2f, %.2f)", m.Name, g.camera.Pos.X(), g.camera.Pos.Y())
	return g
}

// Camera returns the viewer camera.
func (g *Game) Camera() *FirstPersonCamera {
	return g.camera
}

// Update handles input for one tick. A render failure from the previous
// Draw ends the game loop.
func (g *Game) Update() error {
	if g.drawErr != nil {
		return g.drawErr
	}
	start := time.Now()
	g.input.HandleInput()
	g.lastUpdateDuration = time.Since(start)
	g.maybeLogPerfDrop()
	return nil
}

// Draw renders the current view into screen.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() { g.lastDrawDuration = time.Since(start) }()

	view := g.camera.View()
	if g.topDown {
		g.engine.RenderTopDown(view.Pos, view.Yaw)
	} else if err := g.engine.RenderFirstPerson(view.Pos, view.Pitch, view.Yaw); err != nil {
		g.drawErr = fmt.Errorf("render frame %d: %w", g.frameNum, err)
		return
	}
	g.frameNum++

	g.engine.Present(g.uploader)
	if img := g.uploader.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
	if g.showHUD {
		ebitenutil.DebugPrint(screen, g.hudText())
	}
}

func (g *Game) hudText() string {
	mode := "first person"
	if g.topDown {
		mode = "top down"
	}
	cfg := g.engine.Config()
	backend := g.engine.BackendName()
	if dev := g.engine.BackendDevice(); dev != "" {
		backend += " (" + dev + ")"
	}
	return fmt.Sprintf("%s | %s | %s | fov %.0f | %.0f fps\npos %.2f,%.2f yaw %.2f pitch %.2f",
		g.mapName, mode, backend, cfg.FieldOfView, ebiten.ActualFPS(),
		g.camera.Pos.X(), g.camera.Pos.Y(), g.camera.Angle, g.camera.Pitch)
}

// Layout renders at the engine's resolution; ebiten scales to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	cfg := g.engine.Config()
	return cfg.XResolution, cfg.YResolution
}

// Close releases the engine.
func (g *Game) Close() {
	g.engine.Close()
	if g.threading != nil {
		g.threading.Shutdown()
	}
}
