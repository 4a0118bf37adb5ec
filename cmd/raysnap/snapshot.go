package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gridcaster/internal/raycast"

	"github.com/HugoSmits86/nativewebp"
)

// bufferImage copies the finished frame into an opaque image.
func bufferImage(buf *raycast.Buffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for i, c := range buf.Color {
		j := i * 4
		img.Pix[j] = byte(c)
		img.Pix[j+1] = byte(c >> 8)
		img.Pix[j+2] = byte(c >> 16)
		img.Pix[j+3] = 0xff
	}
	return img
}

// encodeImage writes img as PNG when path ends in .png and as lossless
// WebP otherwise.
func encodeImage(w io.Writer, path string, img image.Image) error {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return png.Encode(w, img)
	}
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	return nil
}

func saveImage(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeImage(f, path, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
