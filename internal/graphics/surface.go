package graphics

import (
	"image"
	"image/color"

	"gridcaster/internal/mathutil"

	"golang.org/x/image/draw"
)

// Surface is an SDL-style pixel block: rows of Pitch bytes, BytesPerPixel
// bytes per texel in R, G, B[, A] order. Pix is never written by the renderer.
type Surface struct {
	Pix           []byte
	Width         int
	Height        int
	Pitch         int
	BytesPerPixel int
}

// SurfaceProvider resolves texture ids to surfaces.
type SurfaceProvider interface {
	// Surface returns the surface for id, or false when the id is unknown.
	Surface(id int) (Surface, bool)
	// Len returns the number of ids, which are dense in [0, Len).
	Len() int
}

// PackRGBA packs a colour as R | G<<8 | B<<16 | A<<24, matching RGBA byte order
// in memory on little-endian hosts.
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// UnpackRGBA splits a packed colour.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// Alpha returns the alpha channel of a packed colour.
func Alpha(c uint32) uint8 {
	return uint8(c >> 24)
}

// Valid reports whether the surface has a usable layout.
func (s Surface) Valid() bool {
	if s.Width <= 0 || s.Height <= 0 || (s.BytesPerPixel != 3 && s.BytesPerPixel != 4) {
		return false
	}
	if s.Pitch < s.Width*s.BytesPerPixel {
		return false
	}
	return len(s.Pix) >= (s.Height-1)*s.Pitch+s.Width*s.BytesPerPixel
}

// At returns the packed texel at (x, y). Coordinates wrap, so any integer is
// safe; an invalid surface reads as the placeholder colour.
func (s Surface) At(x, y int) uint32 {
	if !s.Valid() {
		return PlaceholderColor
	}
	x = mathutil.IntWrap(x, s.Width)
	y = mathutil.IntWrap(y, s.Height)
	i := y*s.Pitch + x*s.BytesPerPixel
	if s.BytesPerPixel == 3 {
		return PackRGBA(s.Pix[i], s.Pix[i+1], s.Pix[i+2], 0xff)
	}
	return PackRGBA(s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3])
}

// Sample returns the nearest texel for normalized coordinates. u and v wrap
// into [0, 1).
func (s Surface) Sample(u, v float64) uint32 {
	if !s.Valid() {
		return PlaceholderColor
	}
	tx := int(mathutil.Frac(u) * float64(s.Width))
	ty := int(mathutil.Frac(v) * float64(s.Height))
	return s.At(mathutil.IntMin(tx, s.Width-1), mathutil.IntMin(ty, s.Height-1))
}

// SurfaceFromImage converts any image into a 4-byte-per-pixel surface.
// Colours are stored non-premultiplied.
func SurfaceFromImage(img image.Image) Surface {
	n := toNRGBA(img)
	return Surface{
		Pix:           n.Pix,
		Width:         n.Rect.Dx(),
		Height:        n.Rect.Dy(),
		Pitch:         n.Stride,
		BytesPerPixel: 4,
	}
}

// Image wraps the surface as an image for encoding and debugging.
func (s Surface) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			r, g, b, a := UnpackRGBA(s.At(x, y))
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return img
}

// toNRGBA converts any image to NRGBA format anchored at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst
}

// resizeNearest scales src to size x size with nearest-neighbour filtering,
// keeping texel edges hard.
func resizeNearest(src image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
