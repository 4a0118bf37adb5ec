package graphics

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// TextureEntry is one slot in a texture manifest. Exactly one of File or
// Procedural is expected; an entry with neither becomes the placeholder.
type TextureEntry struct {
	Name       string          `yaml:"name"`
	File       string          `yaml:"file"`
	Resize     int             `yaml:"resize"` // square size, 0 keeps the source size
	Procedural *ProceduralSpec `yaml:"procedural"`
}

// ProceduralSpec describes a generated texture.
type ProceduralSpec struct {
	Kind    string   `yaml:"kind"` // solid, checker, bricks, bars, disc
	Size    int      `yaml:"size"`
	Cell    int      `yaml:"cell"`
	Colors  []string `yaml:"colors"` // "#rrggbb" or "#rrggbbaa"
	Spacing int      `yaml:"spacing"`
}

// TextureManifest lists textures in id order.
type TextureManifest struct {
	Textures []TextureEntry `yaml:"textures"`
}

// LoadTextureSet reads a manifest and decodes its textures in parallel.
// Files are resolved relative to the manifest. A texture that fails to load
// is logged and replaced with the placeholder so one bad file never stops
// the viewer; only manifest errors are returned.
func LoadTextureSet(manifestPath string) (*TextureSet, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read texture manifest %s: %w", manifestPath, err)
	}
	var manifest TextureManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse texture manifest %s: %w", manifestPath, err)
	}
	ts, err := BuildTextureSet(manifest, filepath.Dir(manifestPath))
	if err != nil {
		log.Printf("[Textures] WARNING: %s: %v", manifestPath, err)
	}
	fmt.Printf("[Textures] Loaded %d textures from %s\n", ts.Len(), manifestPath)
	return ts, nil
}

// BuildTextureSet materialises every manifest entry, decoding at most one
// file per CPU at a time. baseDir prefixes relative file paths. Entries that
// fail become the placeholder; the set is always complete and the error
// joins every failure.
func BuildTextureSet(manifest TextureManifest, baseDir string) (*TextureSet, error) {
	ts := &TextureSet{
		surfaces: make([]Surface, len(manifest.Textures)),
	}
	failures := make([]error, len(manifest.Textures))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, entry := range manifest.Textures {
		i, entry := i, entry
		g.Go(func() error {
			s, err := loadEntry(entry, baseDir)
			if err != nil {
				ts.surfaces[i] = Placeholder()
				failures[i] = fmt.Errorf("texture %d (%s): %w", i, entry.Name, err)
				return failures[i]
			}
			ts.surfaces[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ts, errors.Join(failures...)
	}
	return ts, nil
}

func loadEntry(entry TextureEntry, baseDir string) (Surface, error) {
	switch {
	case entry.Procedural != nil:
		return entry.Procedural.Generate()
	case entry.File != "":
		path := entry.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		img, err := DecodeImageFile(path)
		if err != nil {
			return Surface{}, err
		}
		if entry.Resize > 0 {
			img = resizeNearest(img, entry.Resize)
		}
		return SurfaceFromImage(img), nil
	default:
		return Surface{}, fmt.Errorf("no file or procedural source")
	}
}

// DecodeImageFile decodes a PNG, JPEG, BMP, WebP or TGA file.
func DecodeImageFile(path string) (image.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// Generate builds the surface described by p.
func (p ProceduralSpec) Generate() (Surface, error) {
	size := p.Size
	if size <= 0 {
		size = 32
	}
	colors := make([]uint32, 0, len(p.Colors))
	for _, s := range p.Colors {
		c, err := ParseColor(s)
		if err != nil {
			return Surface{}, err
		}
		colors = append(colors, c)
	}
	color := func(i int, def uint32) uint32 {
		if i < len(colors) {
			return colors[i]
		}
		return def
	}
	white := PackRGBA(0xff, 0xff, 0xff, 0xff)
	grey := PackRGBA(0x40, 0x40, 0x40, 0xff)

	switch strings.ToLower(p.Kind) {
	case "solid":
		return Solid(size, color(0, white)), nil
	case "checker":
		cell := p.Cell
		if cell <= 0 {
			cell = size / 4
		}
		return Checker(size, cell, color(0, white), color(1, grey)), nil
	case "bricks":
		return Bricks(size, color(0, PackRGBA(0x9a, 0x3b, 0x2a, 0xff)), color(1, PackRGBA(0xb0, 0xa8, 0x98, 0xff))), nil
	case "bars":
		return Bars(size, p.Spacing, color(0, grey)), nil
	case "disc":
		return Disc(size, color(0, white)), nil
	default:
		return Surface{}, fmt.Errorf("unknown procedural kind %q", p.Kind)
	}
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (uint32, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return 0, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return PackRGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
