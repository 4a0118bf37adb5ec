package graphics

// newSurface allocates an opaque-black size x size RGBA surface.
func newSurface(size int) Surface {
	if size < 1 {
		size = 1
	}
	return Surface{
		Pix:           make([]byte, size*size*4),
		Width:         size,
		Height:        size,
		Pitch:         size * 4,
		BytesPerPixel: 4,
	}
}

func (s Surface) set(x, y int, c uint32) {
	i := y*s.Pitch + x*4
	r, g, b, a := UnpackRGBA(c)
	s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3] = r, g, b, a
}

// Solid returns a single-colour texture.
func Solid(size int, c uint32) Surface {
	s := newSurface(size)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			s.set(x, y, c)
		}
	}
	return s
}

// Checker returns a two-colour checkerboard with square cells of cell texels.
func Checker(size, cell int, a, b uint32) Surface {
	if cell < 1 {
		cell = 1
	}
	s := newSurface(size)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			s.set(x, y, c)
		}
	}
	return s
}

// Bricks returns a running-bond brick pattern with mortar lines.
func Bricks(size int, brick, mortar uint32) Surface {
	s := newSurface(size)
	rowH := max(2, size/4)
	brickW := max(2, size/2)
	for y := 0; y < s.Height; y++ {
		row := y / rowH
		offset := 0
		if row%2 == 1 {
			offset = brickW / 2
		}
		for x := 0; x < s.Width; x++ {
			c := brick
			if y%rowH == 0 || (x+offset)%brickW == 0 {
				c = mortar
			}
			s.set(x, y, c)
		}
	}
	return s
}

// Bars returns vertical bars on a fully transparent background, for cutout
// fences and grates.
func Bars(size, spacing int, bar uint32) Surface {
	if spacing < 2 {
		spacing = 2
	}
	s := newSurface(size)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := uint32(0)
			if x%spacing == 0 || y == 0 || y == s.Height-1 {
				c = bar
			}
			s.set(x, y, c)
		}
	}
	return s
}

// Disc returns an opaque disc on a transparent background, for sprites.
func Disc(size int, c uint32) Surface {
	s := newSurface(size)
	r := float64(size) / 2
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				s.set(x, y, c)
			}
		}
	}
	return s
}
