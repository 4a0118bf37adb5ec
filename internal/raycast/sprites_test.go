package raycast

import (
	"errors"
	"testing"

	"gridcaster/internal/graphics"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	spriteSolid = iota
	spriteDisc
)

func spriteTextures() *graphics.TextureSet {
	return graphics.NewTextureSet(graphics.Solid(4, red), graphics.Disc(8, blue))
}

func TestSpriteArenaLifecycle(t *testing.T) {
	a := NewSpriteArena(2)
	if a.Cap() != 2 || a.Len() != 0 {
		t.Fatalf("new arena cap=%d len=%d", a.Cap(), a.Len())
	}

	h1 := a.Create(Sprite{Texture: 1})
	h2 := a.Create(Sprite{Texture: 2})
	if h1 == h2 || h1.IsZero() || h2.IsZero() {
		t.Fatalf("handles not distinct: %+v %+v", h1, h2)
	}
	if s, ok := a.Get(h2); !ok || s.Texture != 2 {
		t.Fatalf("Get(h2) = %+v, %v", s, ok)
	}

	if !a.Destroy(h1) {
		t.Fatal("Destroy(h1) failed")
	}
	if a.Destroy(h1) {
		t.Error("second Destroy(h1) succeeded")
	}
	if _, ok := a.Get(h1); ok {
		t.Error("Get on a destroyed handle succeeded")
	}

	h3 := a.Create(Sprite{Texture: 3})
	if h3 == h1 {
		t.Error("reused slot returned the stale handle")
	}
	if _, ok := a.Get(h1); ok {
		t.Error("stale handle reaches the slot's new owner")
	}
	if got := a.AppendActive(nil); len(got) != 2 {
		t.Errorf("AppendActive returned %d sprites, want 2", len(got))
	}
	if _, ok := a.Get(SpriteHandle{}); ok {
		t.Error("zero handle resolved")
	}
}

func TestSpriteArenaCapacityPanics(t *testing.T) {
	a := NewSpriteArena(1)
	a.Create(Sprite{})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrSpriteCapacity) {
			t.Fatalf("recovered %v, want ErrSpriteCapacity", r)
		}
	}()
	a.Create(Sprite{})
	t.Fatal("Create on a full arena did not panic")
}

func TestCompositeSprites(t *testing.T) {
	centre := mgl64.Vec2{4.5, 1.5} // depth 3 straight ahead

	tests := []struct {
		name      string
		sprite    Sprite
		prefill   float32 // depth already at the centre pixel, 0 for none
		wantDrawn int
		wantColor uint32
		wantDepth float32
	}{
		{"visible", Sprite{Texture: spriteSolid, Pos: centre}, 0, 1, red, 3},
		{"behind nearer wall", Sprite{Texture: spriteSolid, Pos: centre}, 2, 1, green, 2},
		{"in front of farther wall", Sprite{Texture: spriteSolid, Pos: centre}, 5, 1, red, 3},
		{"behind camera", Sprite{Texture: spriteSolid, Pos: mgl64.Vec2{0.5, 1.5}}, 0, 0, 0, FarDepth},
		{"outside fov", Sprite{Texture: spriteSolid, Pos: mgl64.Vec2{2.5, 5.5}}, 0, 0, 0, FarDepth},
		{"beyond far clip", Sprite{Texture: spriteSolid, Pos: mgl64.Vec2{12.5, 1.5}}, 0, 0, 0, FarDepth},
		{"disc centre", Sprite{Texture: spriteDisc, Pos: centre}, 0, 1, blue, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := newTestJob(openGrid(16, 3), testConfig(), cameraAt(1.5, 1.5, 0))
			if tt.prefill > 0 {
				job.Buffer.WriteAt(centreX, 16, green, tt.prefill)
			}
			drawn := CompositeSprites(job, spriteTextures(), []Sprite{tt.sprite})
			if drawn != tt.wantDrawn {
				t.Errorf("drawn = %d, want %d", drawn, tt.wantDrawn)
			}
			c, d := pixel(job, centreX, 16)
			if c != tt.wantColor || d != tt.wantDepth {
				t.Errorf("centre = %#x @ %v, want %#x @ %v", c, d, tt.wantColor, tt.wantDepth)
			}
		})
	}
}

func TestCompositeSpritePartlyVisible(t *testing.T) {
	job := newTestJob(openGrid(16, 16), testConfig(), cameraAt(1.5, 1.5, 0))
	// Centre just past the right FOV edge; the left half still shows.
	drawn := CompositeSprites(job, spriteTextures(), []Sprite{{Texture: spriteSolid, Pos: mgl64.Vec2{3.5, 3.6}}})
	if drawn != 1 {
		t.Fatalf("drawn = %d, want 1", drawn)
	}
	if _, d := pixel(job, job.Frame.Width-1, 16); d == FarDepth {
		t.Error("right edge column not covered")
	}
	if _, d := pixel(job, 0, 16); d != FarDepth {
		t.Error("left edge column covered")
	}
}

func TestCompositeSpriteTransparentTexels(t *testing.T) {
	job := newTestJob(openGrid(16, 3), testConfig(), cameraAt(1.5, 1.5, 0))
	CompositeSprites(job, spriteTextures(), []Sprite{{Texture: spriteDisc, Pos: mgl64.Vec2{4.5, 1.5}}})

	// Top-left pixel of the sprite rectangle samples the disc's clear corner.
	if _, d := pixel(job, 4, 11); d != FarDepth {
		t.Errorf("transparent corner wrote depth %v", d)
	}
	if c, _ := pixel(job, centreX, 16); c != blue {
		t.Errorf("disc centre = %#x, want blue", c)
	}
}

func TestCompositeSpriteHeightOffset(t *testing.T) {
	topRow := func(offset float64) int {
		job := newTestJob(openGrid(16, 3), testConfig(), cameraAt(1.5, 1.5, 0))
		CompositeSprites(job, spriteTextures(), []Sprite{{Texture: spriteSolid, Pos: mgl64.Vec2{4.5, 1.5}, HeightOffset: offset}})
		for y := 0; y < job.Frame.Height; y++ {
			if _, d := pixel(job, centreX, y); d != FarDepth {
				return y
			}
		}
		return -1
	}

	base, raised := topRow(0), topRow(12)
	if base < 0 || raised < 0 {
		t.Fatalf("sprite not drawn: base=%d raised=%d", base, raised)
	}
	if raised >= base {
		t.Errorf("raised sprite top row %d, want above %d", raised, base)
	}
}
