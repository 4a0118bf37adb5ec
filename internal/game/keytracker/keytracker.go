// Package keytracker provides edge-triggered key presses for Ebiten v2.8.8.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PressedFunc reports whether a key is held this tick.
type PressedFunc func(ebiten.Key) bool

// Tracker remembers the previous state of every key it has been asked about.
type Tracker struct {
	pressed PressedFunc
	prev    map[ebiten.Key]bool
}

// New creates a tracker reading from pressed; nil reads the live keyboard.
func New(pressed PressedFunc) *Tracker {
	if pressed == nil {
		pressed = ebiten.IsKeyPressed
	}
	return &Tracker{
		pressed: pressed,
		prev:    make(map[ebiten.Key]bool),
	}
}

// IsKeyJustPressed returns true if the key was not pressed last tick but is
// pressed now. Call it once per key per tick.
func (t *Tracker) IsKeyJustPressed(key ebiten.Key) bool {
	pressed := t.pressed(key)
	justPressed := pressed && !t.prev[key]
	t.prev[key] = pressed
	return justPressed
}

// IsKeyPressed reports the held state without edge tracking.
func (t *Tracker) IsKeyPressed(key ebiten.Key) bool {
	return t.pressed(key)
}
