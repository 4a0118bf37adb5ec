package game

import (
	"log"

	"gridcaster/internal/config"
	"gridcaster/internal/game/keytracker"

	"github.com/hajimehoshi/ebiten/v2"
)

const fovStep = 5.0

// InputHandler maps keys to camera moves and renderer toggles.
type InputHandler struct {
	game *Game
	keys *keytracker.Tracker
}

// NewInputHandler creates an input handler. pressed overrides the keyboard
// source; nil reads the live keyboard.
func NewInputHandler(game *Game, pressed keytracker.PressedFunc) *InputHandler {
	return &InputHandler{game: game, keys: keytracker.New(pressed)}
}

// HandleInput processes all input for the current tick
func (ih *InputHandler) HandleInput() {
	ih.handleMovementInput()
	ih.handleViewInput()
	ih.handleRendererInput()
}

// handleMovementInput processes movement and camera controls
func (ih *InputHandler) handleMovementInput() {
	cam := ih.game.camera
	move := ih.game.config.GetMoveSpeed()
	rot := ih.game.config.GetRotSpeed()

	// Rotation
	if ih.keys.IsKeyPressed(ebiten.KeyLeft) || ih.keys.IsKeyPressed(ebiten.KeyA) {
		cam.Rotate(-rot)
	}
	if ih.keys.IsKeyPressed(ebiten.KeyRight) || ih.keys.IsKeyPressed(ebiten.KeyD) {
		cam.Rotate(rot)
	}

	// Forward/backward movement
	if ih.keys.IsKeyPressed(ebiten.KeyUp) || ih.keys.IsKeyPressed(ebiten.KeyW) {
		cam.Move(move, 0)
	}
	if ih.keys.IsKeyPressed(ebiten.KeyDown) || ih.keys.IsKeyPressed(ebiten.KeyS) {
		cam.Move(-move, 0)
	}

	// Strafe left/right
	if ih.keys.IsKeyPressed(ebiten.KeyQ) {
		cam.Move(0, -move)
	}
	if ih.keys.IsKeyPressed(ebiten.KeyE) {
		cam.Move(0, move)
	}

	// Look up/down
	if ih.keys.IsKeyPressed(ebiten.KeyPageUp) {
		cam.AddPitch(ih.game.config.Camera.PitchSpeed)
	}
	if ih.keys.IsKeyPressed(ebiten.KeyPageDown) {
		cam.AddPitch(-ih.game.config.Camera.PitchSpeed)
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyHome) {
		cam.Pitch = 0
	}
}

// handleViewInput toggles viewer-only state
func (ih *InputHandler) handleViewInput() {
	if ih.keys.IsKeyJustPressed(ebiten.KeyTab) {
		ih.game.topDown = !ih.game.topDown
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeySlash) {
		ih.game.showHUD = !ih.game.showHUD
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyP) {
		ih.game.perfDebugEnabled = !ih.game.perfDebugEnabled
		log.Printf("[Game] Perf log %s", onOff(ih.game.perfDebugEnabled))
	}
}

// handleRendererInput edits the engine configuration; it applies from the
// next frame.
func (ih *InputHandler) handleRendererInput() {
	cfg := ih.game.engine.Config()
	changed := false

	if ih.keys.IsKeyJustPressed(ebiten.KeyB) {
		if cfg.Backend == config.BackendCompute {
			cfg.Backend = config.BackendSoftware
		} else {
			cfg.Backend = config.BackendCompute
		}
		changed = true
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyG) {
		cfg.Fog.Enabled = !cfg.Fog.Enabled
		changed = true
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyH) {
		cfg.HighlightSeams = !cfg.HighlightSeams
		changed = true
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyEqual) {
		cfg.FieldOfView += fovStep
		changed = true
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyMinus) {
		cfg.FieldOfView -= fovStep
		changed = true
	}

	if changed {
		ih.game.engine.SetConfig(cfg)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
