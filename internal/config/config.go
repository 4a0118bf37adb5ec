package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all viewer and renderer configuration values
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Raycast RaycastConfig `yaml:"raycast"`
	Camera  CameraConfig  `yaml:"camera"`
	Assets  AssetsConfig  `yaml:"assets"`
	Debug   DebugConfig   `yaml:"debug"`
}

type DisplayConfig struct {
	WindowTitle string `yaml:"window_title"`
	Scale       int    `yaml:"scale"` // window pixels per render pixel
	Resizable   bool   `yaml:"resizable"`
}

type CameraConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`     // grid cells per tick
	RotationSpeed float64 `yaml:"rotation_speed"` // radians per tick
	PitchSpeed    float64 `yaml:"pitch_speed"`    // normalized pitch per tick
}

type AssetsConfig struct {
	Tiles          string `yaml:"tiles"` // shared legend, optional
	Map            string `yaml:"map"`
	TileTextures   string `yaml:"tile_textures"`
	SpriteTextures string `yaml:"sprite_textures"`
}

type DebugConfig struct {
	PerfLog        bool `yaml:"perf_log"`
	StartInTopDown bool `yaml:"start_in_top_down"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			WindowTitle: "gridcaster",
			Scale:       2,
			Resizable:   true,
		},
		Raycast: DefaultRaycastConfig(),
		Camera: CameraConfig{
			MoveSpeed:     0.06,
			RotationSpeed: 0.04,
			PitchSpeed:    0.02,
		},
	}
}

// LoadConfig loads the configuration from a YAML file. Values missing from
// the file keep their defaults; raycast values are clamped into range.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	config.Raycast = config.Raycast.Clamp()
	if config.Display.Scale < 1 {
		config.Display.Scale = 1
	}

	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Raycast.XResolution * c.Display.Scale
}

func (c *Config) GetScreenHeight() int {
	return c.Raycast.YResolution * c.Display.Scale
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Camera.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Camera.RotationSpeed
}
