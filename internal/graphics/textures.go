package graphics

// TextureSet is a fixed array of surfaces indexed by texture id.
type TextureSet struct {
	surfaces []Surface
}

// NewTextureSet creates a set from surfaces; id i maps to surfaces[i].
func NewTextureSet(surfaces ...Surface) *TextureSet {
	ts := &TextureSet{
		surfaces: make([]Surface, len(surfaces)),
	}
	copy(ts.surfaces, surfaces)
	return ts
}

// Surface returns the surface for id. Unknown ids and invalid surfaces
// report false so callers can substitute the placeholder.
func (ts *TextureSet) Surface(id int) (Surface, bool) {
	if ts == nil || id < 0 || id >= len(ts.surfaces) {
		return Surface{}, false
	}
	s := ts.surfaces[id]
	if !s.Valid() {
		return Surface{}, false
	}
	return s, true
}

// Len returns the number of texture slots.
func (ts *TextureSet) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.surfaces)
}

// Resolve returns the surface for id or the placeholder.
func Resolve(p SurfaceProvider, id int) Surface {
	if p != nil {
		if s, ok := p.Surface(id); ok {
			return s
		}
	}
	return Placeholder()
}

// AverageColor returns the mean opaque colour of a surface, used by the
// top-down debug view.
func AverageColor(s Surface) uint32 {
	if !s.Valid() {
		return PlaceholderColor
	}
	var r, g, b, n uint64
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := s.At(x, y)
			if Alpha(c) == 0 {
				continue
			}
			cr, cg, cb, _ := UnpackRGBA(c)
			r += uint64(cr)
			g += uint64(cg)
			b += uint64(cb)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return PackRGBA(uint8(r/n), uint8(g/n), uint8(b/n), 0xff)
}
