package main

import (
	"bytes"
	"errors"
	"image"
	"io/fs"
	"image/png"
	"path/filepath"
	"testing"

	"gridcaster/internal/graphics"
	"gridcaster/internal/raycast"

	"golang.org/x/image/webp"
)

func TestBufferImage(t *testing.T) {
	buf := raycast.NewBuffer(2, 1)
	buf.WriteAt(0, 0, graphics.PackRGBA(10, 20, 30, 40), 1)

	img := bufferImage(buf)
	if got := img.Bounds(); got != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v", got)
	}
	if got := img.Pix[:4]; !bytes.Equal(got, []byte{10, 20, 30, 0xff}) {
		t.Errorf("covered pixel = %v", got)
	}
	if got := img.Pix[4:8]; !bytes.Equal(got, []byte{0, 0, 0, 0xff}) {
		t.Errorf("uncovered pixel = %v, want opaque black", got)
	}
}

func TestEncodeImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	tests := []struct {
		name   string
		path   string
		decode func(*bytes.Reader) (image.Image, error)
	}{
		{"png by extension", "frame.PNG", func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) }},
		{"webp by default", "frame.webp", func(r *bytes.Reader) (image.Image, error) { return webp.Decode(r) }},
		{"unknown extension is webp", "frame.out", func(r *bytes.Reader) (image.Image, error) { return webp.Decode(r) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := encodeImage(&out, tt.path, img); err != nil {
				t.Fatalf("encodeImage: %v", err)
			}
			decoded, err := tt.decode(bytes.NewReader(out.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if decoded.Bounds() != img.Bounds() {
				t.Errorf("bounds = %v, want %v", decoded.Bounds(), img.Bounds())
			}
		})
	}
}

func TestSaveImageCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shot.png")
	if err := saveImage(path, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("saveImage: %v", err)
	}
	if _, err := graphics.DecodeImageFile(path); err != nil {
		t.Errorf("saved file does not decode: %v", err)
	}
}

func TestRun(t *testing.T) {
	config := filepath.Join("..", "..", "config.yaml")

	t.Run("missing config", func(t *testing.T) {
		err := run([]string{"-config", filepath.Join(t.TempDir(), "none.yaml")})
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("err = %v, want not-exist", err)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		if err := run([]string{"-zoom", "2"}); err == nil {
			t.Error("expected a flag error")
		}
	})

	t.Run("renders and saves", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "shot.png")
		if err := run([]string{"-config", config, "-out", out, "-backend", "software"}); err != nil {
			t.Fatalf("run: %v", err)
		}
		img, err := graphics.DecodeImageFile(out)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 360 {
			t.Errorf("bounds = %v, want 640x360", img.Bounds())
		}
	})
}
