package raycast

import "math"

// FarDepth is the depth of a pixel nothing has been written to.
const FarDepth = math.MaxFloat32

// Buffer is the colour+depth target shared by every pass. Colours are packed
// R | G<<8 | B<<16 | A<<24; depth is linear distance along the view direction.
type Buffer struct {
	Width  int
	Height int
	Color  []uint32
	Depth  []float32
}

// NewBuffer allocates a cleared buffer.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize reallocates when the size changes and clears the buffer.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	if cap(b.Color) < n {
		b.Color = make([]uint32, n)
		b.Depth = make([]float32, n)
	}
	b.Color = b.Color[:n]
	b.Depth = b.Depth[:n]
	b.Width, b.Height = width, height
	b.Clear()
}

// Clear resets every pixel to transparent black at FarDepth.
func (b *Buffer) Clear() {
	for i := range b.Color {
		b.Color[i] = 0
		b.Depth[i] = FarDepth
	}
}

// Index returns the slice index of (x, y).
func (b *Buffer) Index(x, y int) int {
	return y*b.Width + x
}

// Write stores c at pixel i iff d is nearer than what is there.
func (b *Buffer) Write(i int, c uint32, d float32) bool {
	if d < b.Depth[i] {
		b.Color[i] = c
		b.Depth[i] = d
		return true
	}
	return false
}

// WriteAt is Write addressed by coordinates; out-of-range pixels are ignored.
func (b *Buffer) WriteAt(x, y int, c uint32, d float32) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Write(b.Index(x, y), c, d)
}

// Covered reports whether pixel i holds a valid colour.
func (b *Buffer) Covered(i int) bool {
	return b.Depth[i] < FarDepth
}
