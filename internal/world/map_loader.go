package world

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// SpawnPoint is the initial camera pose stored with a map.
type SpawnPoint struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Yaw   float64 `yaml:"yaw"`   // radians
	Pitch float64 `yaml:"pitch"` // normalized -1..1
}

// SpritePlacement is a billboard placed in the map file.
type SpritePlacement struct {
	Texture      int     `yaml:"texture"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Size         float64 `yaml:"size"`
	HeightOffset float64 `yaml:"height"`
}

// MapFile is the YAML layout of a map.
type MapFile struct {
	Name    string             `yaml:"name"`
	Legend  map[string]TileDef `yaml:"legend"`
	Rows    []string           `yaml:"rows"`
	Spawn   SpawnPoint         `yaml:"spawn"`
	Sprites []SpritePlacement  `yaml:"sprites"`
}

// MapData contains the loaded map information
type MapData struct {
	Name    string
	Grid    *Grid
	Spawn   SpawnPoint
	Sprites []SpritePlacement
}

// MapLoader handles loading world maps from files
type MapLoader struct {
	tiles *TileManager
}

// NewMapLoader creates a map loader. Shared legend entries come from tiles,
// which may be nil; a map's own legend overrides them.
func NewMapLoader(tiles *TileManager) *MapLoader {
	if tiles == nil {
		tiles = NewTileManager()
	}
	return &MapLoader{tiles: tiles}
}

// LoadMap loads a map from the specified file path
func (ml *MapLoader) LoadMap(mapPath string) (*MapData, error) {
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	mapData, err := ml.ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}
	fmt.Printf("[MapLoader] Loaded %q: %dx%d, %d sprites\n",
		mapData.Name, mapData.Grid.Width(), mapData.Grid.Height(), len(mapData.Sprites))
	return mapData, nil
}

// ParseMap builds a grid from YAML map data.
func (ml *MapLoader) ParseMap(data []byte) (*MapData, error) {
	var file MapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}

	tiles := NewTileManager()
	for letter, node := range ml.tiles.letterToNode {
		tiles.letterToNode[letter] = node
	}
	if err := tiles.Register(file.Legend); err != nil {
		return nil, err
	}

	// Skip empty rows and comment rows (rows starting with //)
	var lines []string
	for _, row := range file.Rows {
		if row == "" || strings.HasPrefix(row, "//") {
			continue
		}
		lines = append(lines, row)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("map file contains no valid map data")
	}

	// Validate all lines have the same width
	width := utf8.RuneCountInString(lines[0])
	for i, line := range lines {
		if n := utf8.RuneCountInString(line); n != width {
			return nil, fmt.Errorf("line %d has inconsistent width: expected %d, got %d", i+1, width, n)
		}
	}

	grid := NewGrid(width, len(lines))
	for y, line := range lines {
		x := 0
		for _, r := range line {
			node, ok := tiles.NodeForLetter(string(r))
			if !ok {
				return nil, fmt.Errorf("line %d column %d: unknown tile letter %q", y+1, x+1, r)
			}
			grid.Set(x, y, node)
			x++
		}
	}

	return &MapData{
		Name:    file.Name,
		Grid:    grid,
		Spawn:   file.Spawn,
		Sprites: file.Sprites,
	}, nil
}
