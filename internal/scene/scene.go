// Package scene loads everything a render needs from the asset paths in the
// configuration and hands it to an engine.
package scene

import (
	"fmt"
	"log"
	"path/filepath"

	"gridcaster/internal/config"
	"gridcaster/internal/graphics"
	"gridcaster/internal/raycast"
	"gridcaster/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// Scene is a loaded map with its tile and sprite textures.
type Scene struct {
	Map     *world.MapData
	Tiles   *graphics.TextureSet
	Sprites *graphics.TextureSet
}

// Load reads the legend, map and texture manifests named in assets. Paths
// are relative to baseDir. A missing shared legend is only a warning; a
// missing map or manifest is an error.
func Load(assets config.AssetsConfig, baseDir string) (*Scene, error) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	legend := world.NewTileManager()
	if assets.Tiles != "" {
		if err := legend.LoadTileConfig(resolve(assets.Tiles)); err != nil {
			log.Printf("[Scene] Warning: failed to load tile legend: %v", err)
		}
	}

	if assets.Map == "" {
		return nil, fmt.Errorf("no map configured")
	}
	m, err := world.NewMapLoader(legend).LoadMap(resolve(assets.Map))
	if err != nil {
		return nil, err
	}

	tiles, err := graphics.LoadTextureSet(resolve(assets.TileTextures))
	if err != nil {
		return nil, fmt.Errorf("tile textures: %w", err)
	}
	sprites := graphics.NewTextureSet()
	if assets.SpriteTextures != "" {
		if sprites, err = graphics.LoadTextureSet(resolve(assets.SpriteTextures)); err != nil {
			return nil, fmt.Errorf("sprite textures: %w", err)
		}
	}

	return &Scene{Map: m, Tiles: tiles, Sprites: sprites}, nil
}

// NewEngine creates an engine for the scene and places the map's sprites.
// Placements beyond the configured sprite capacity are dropped with a log
// line instead of panicking.
func (s *Scene) NewEngine(cfg config.RaycastConfig, opts ...raycast.Option) (*raycast.Engine, error) {
	engine, err := raycast.NewEngine(s.Map.Grid, s.Tiles, s.Sprites, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	limit := engine.Config().MaxSprites
	for i, p := range s.Map.Sprites {
		if i >= limit {
			log.Printf("[Scene] Map has %d sprites, max_sprites is %d; dropping the rest", len(s.Map.Sprites), limit)
			break
		}
		engine.AddSprite(raycast.Sprite{
			Texture:      p.Texture,
			Pos:          mgl64.Vec2{p.X, p.Y},
			Size:         p.Size,
			HeightOffset: p.HeightOffset,
		})
	}
	return engine, nil
}
