package raycast

import (
	"errors"
	"math"

	"gridcaster/internal/graphics"
	"gridcaster/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrSpriteCapacity is the panic value when more sprites are created than
// the arena holds. Running out is a programming error, not a runtime state.
var ErrSpriteCapacity = errors.New("raycast: sprite capacity exceeded")

// minSpriteDepth rejects sprites that sit on the camera.
const minSpriteDepth = 1e-3

// Sprite is a camera-facing billboard. Size is the on-screen height in
// pixels at depth 1 and HeightOffset raises the centre above the horizon in
// the same units; zero Size means one grid unit tall.
type Sprite struct {
	Texture      int
	Pos          mgl64.Vec2
	Size         float64
	HeightOffset float64
}

// SpriteHandle refers to a sprite in an arena. The zero handle is never valid.
type SpriteHandle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero handle.
func (h SpriteHandle) IsZero() bool {
	return h.generation == 0
}

type spriteSlot struct {
	sprite     Sprite
	generation uint32
	alive      bool
}

// SpriteArena is a fixed-capacity sprite store with generation-checked
// handles, so a destroyed sprite's handle cannot reach its slot's new owner.
type SpriteArena struct {
	slots  []spriteSlot
	free   []uint32
	active int
}

// NewSpriteArena creates an arena with room for capacity sprites.
func NewSpriteArena(capacity int) *SpriteArena {
	if capacity < 1 {
		capacity = 1
	}
	a := &SpriteArena{
		slots: make([]spriteSlot, capacity),
		free:  make([]uint32, capacity),
	}
	for i := range a.free {
		// Pop from the end so slot 0 is handed out first.
		a.free[i] = uint32(capacity - 1 - i)
	}
	return a
}

// Create stores s and returns its handle. It panics with ErrSpriteCapacity
// when the arena is full.
func (a *SpriteArena) Create(s Sprite) SpriteHandle {
	if len(a.free) == 0 {
		panic(ErrSpriteCapacity)
	}
	idx := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]

	slot := &a.slots[idx]
	slot.generation++
	if slot.generation == 0 {
		slot.generation = 1
	}
	slot.sprite = s
	slot.alive = true
	a.active++
	return SpriteHandle{index: idx, generation: slot.generation}
}

func (a *SpriteArena) slot(h SpriteHandle) *spriteSlot {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if !s.alive || s.generation != h.generation {
		return nil
	}
	return s
}

// Destroy removes the sprite behind h. Stale or zero handles return false.
func (a *SpriteArena) Destroy(h SpriteHandle) bool {
	s := a.slot(h)
	if s == nil {
		return false
	}
	s.alive = false
	s.sprite = Sprite{}
	a.free = append(a.free, h.index)
	a.active--
	return true
}

// Get returns the live sprite behind h for in-place edits.
func (a *SpriteArena) Get(h SpriteHandle) (*Sprite, bool) {
	s := a.slot(h)
	if s == nil {
		return nil, false
	}
	return &s.sprite, true
}

// Len returns the number of live sprites.
func (a *SpriteArena) Len() int { return a.active }

// Cap returns the fixed capacity.
func (a *SpriteArena) Cap() int { return len(a.slots) }

// AppendActive appends every live sprite to dst in slot order.
func (a *SpriteArena) AppendActive(dst []Sprite) []Sprite {
	for i := range a.slots {
		if a.slots[i].alive {
			dst = append(dst, a.slots[i].sprite)
		}
	}
	return dst
}

// CompositeSprites depth-tests every sprite pixel against the buffer and
// returns how many sprites survived culling. It reads the sprite textures
// from textures and never reorders sprites; nearest wins per pixel.
func CompositeSprites(job *Job, textures graphics.SurfaceProvider, sprites []Sprite) int {
	f := &job.Frame
	buf := job.Buffer
	drawn := 0

	for _, s := range sprites {
		rel := s.Pos.Sub(f.Camera.Pos)
		depth := rel.Dot(f.Forward)
		if depth <= minSpriteDepth || depth > f.FarClip {
			continue
		}

		tex := graphics.Resolve(textures, s.Texture)
		size := s.Size
		if size <= 0 {
			size = f.ViewHeightPx
		}
		h := size / depth
		w := h * float64(tex.Width) / float64(tex.Height)

		// Normalized screen x in [-1, 1] across the FOV; widen the accepted
		// range by the sprite's own half width so partly visible sprites draw.
		ndc := rel.Dot(f.Right) / (depth * f.TanHalfFOV)
		if math.Abs(ndc) > 1+w/float64(f.Width) {
			continue
		}

		cx := float64(f.Width) / 2 * (1 + ndc)
		cy := f.Horizon - s.HeightOffset/depth
		x0, y0 := cx-w/2, cy-h/2

		left := mathutil.IntClamp(int(math.Ceil(x0-0.5)), 0, f.Width)
		right := mathutil.IntClamp(int(math.Ceil(x0+w-0.5)), 0, f.Width)
		top := mathutil.IntClamp(int(math.Ceil(y0-0.5)), 0, f.Height)
		bottom := mathutil.IntClamp(int(math.Ceil(y0+h-0.5)), 0, f.Height)
		if left >= right || top >= bottom {
			continue
		}
		drawn++

		d := float32(depth)
		for y := top; y < bottom; y++ {
			v := (float64(y) + 0.5 - y0) / h
			ty := mathutil.IntClamp(int(v*float64(tex.Height)), 0, tex.Height-1)
			row := y * f.Width
			for x := left; x < right; x++ {
				u := (float64(x) + 0.5 - x0) / w
				tx := mathutil.IntClamp(int(u*float64(tex.Width)), 0, tex.Width-1)
				c := tex.At(tx, ty)
				if graphics.Alpha(c) == 0 {
					continue
				}
				buf.Write(row+x, Shade(c, depth, job.Config), d)
			}
		}
	}
	return drawn
}
