package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// ImageUploader copies finished frames into an ebiten image.
type ImageUploader struct {
	img    *ebiten.Image
	pixels []byte
}

// UploadBuffer implements raycast.Uploader. The image is reallocated when
// the frame size changes.
func (u *ImageUploader) UploadBuffer(color []uint32, _ []float32, width, height int) {
	if u.img == nil || u.img.Bounds().Dx() != width || u.img.Bounds().Dy() != height {
		if u.img != nil {
			u.img.Deallocate()
		}
		u.img = ebiten.NewImage(width, height)
	}
	u.pixels = PackedToRGBA(u.pixels, color)
	u.img.WritePixels(u.pixels)
}

// Image returns the last uploaded frame, or nil before the first upload.
func (u *ImageUploader) Image() *ebiten.Image {
	return u.img
}

// PackedToRGBA expands packed colours into opaque RGBA bytes, reusing dst
// when it is large enough. The frame is already composited, so texel alpha
// is dropped and uncovered pixels come out black.
func PackedToRGBA(dst []byte, color []uint32) []byte {
	n := len(color) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, c := range color {
		j := i * 4
		dst[j] = byte(c)
		dst[j+1] = byte(c >> 8)
		dst[j+2] = byte(c >> 16)
		dst[j+3] = 0xff
	}
	return dst
}
