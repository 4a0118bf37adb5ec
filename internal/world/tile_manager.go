package world

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TileDef is the YAML form of a legend entry. Missing texture slots are
// absent; list entries beyond the first two are ignored.
type TileDef struct {
	Name       string   `yaml:"name"`
	Wall       *int     `yaml:"wall,omitempty"`
	WallUp     *int     `yaml:"wall_up,omitempty"`
	WallDown   *int     `yaml:"wall_down,omitempty"`
	Floor      []int    `yaml:"floor,omitempty"`
	Ceiling    []int    `yaml:"ceiling,omitempty"`
	ExtendUp   int      `yaml:"extend_up,omitempty"`
	ExtendDown int      `yaml:"extend_down,omitempty"`
	Faces      []string `yaml:"faces,omitempty"` // north, east, south, west
}

// TileConfig is the root of a legend file.
type TileConfig struct {
	Tiles map[string]TileDef `yaml:"tiles"`
}

// TileManager maps single-character map letters to node templates.
type TileManager struct {
	letterToNode map[string]GridNode
	letterToName map[string]string
}

// NewTileManager creates an empty tile manager
func NewTileManager() *TileManager {
	return &TileManager{
		letterToNode: make(map[string]GridNode),
		letterToName: make(map[string]string),
	}
}

// LoadTileConfig loads a legend from a YAML file and merges it into the manager.
func (tm *TileManager) LoadTileConfig(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read tile config file: %w", err)
	}

	var tileConfig TileConfig
	if err := yaml.Unmarshal(data, &tileConfig); err != nil {
		return fmt.Errorf("failed to parse tile config: %w", err)
	}
	return tm.Register(tileConfig.Tiles)
}

// Register adds or replaces legend entries keyed by letter.
func (tm *TileManager) Register(defs map[string]TileDef) error {
	for letter, def := range defs {
		if len([]rune(letter)) != 1 {
			return fmt.Errorf("tile letter %q must be a single character", letter)
		}
		node, err := def.Node()
		if err != nil {
			return fmt.Errorf("tile %q: %w", letter, err)
		}
		tm.letterToNode[letter] = node
		tm.letterToName[letter] = def.Name
	}
	return nil
}

// NodeForLetter returns the node template for a map letter.
func (tm *TileManager) NodeForLetter(letter string) (GridNode, bool) {
	n, ok := tm.letterToNode[letter]
	return n, ok
}

// GetName returns the display name of a letter, or "" if unnamed.
func (tm *TileManager) GetName(letter string) string {
	return tm.letterToName[letter]
}

// Letters returns the registered letters in sorted order.
func (tm *TileManager) Letters() []string {
	letters := make([]string, 0, len(tm.letterToNode))
	for l := range tm.letterToNode {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// Node converts the definition into a GridNode.
func (d TileDef) Node() (GridNode, error) {
	n := EmptyNode()
	if d.Wall != nil {
		n.Wall = *d.Wall
	}
	if d.WallUp != nil {
		n.WallUp = *d.WallUp
	}
	if d.WallDown != nil {
		n.WallDown = *d.WallDown
	}
	for i := 0; i < LayerCount && i < len(d.Floor); i++ {
		n.Floor[i] = d.Floor[i]
	}
	for i := 0; i < LayerCount && i < len(d.Ceiling); i++ {
		n.Ceiling[i] = d.Ceiling[i]
	}
	if d.ExtendUp < 0 || d.ExtendDown < 0 {
		return n, fmt.Errorf("negative extension (up=%d, down=%d)", d.ExtendUp, d.ExtendDown)
	}
	n.ExtendUp = d.ExtendUp
	n.ExtendDown = d.ExtendDown

	for _, f := range d.Faces {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "north", "n":
			n.DrawFlags |= FaceNorth
		case "east", "e":
			n.DrawFlags |= FaceEast
		case "south", "s":
			n.DrawFlags |= FaceSouth
		case "west", "w":
			n.DrawFlags |= FaceWest
		default:
			return n, fmt.Errorf("unknown face %q", f)
		}
	}
	return n, nil
}
