package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRaycastConfigClamp(t *testing.T) {
	tests := []struct {
		name  string
		in    RaycastConfig
		check func(t *testing.T, c RaycastConfig)
	}{
		{
			name: "fov below range",
			in:   RaycastConfig{FieldOfView: 10},
			check: func(t *testing.T, c RaycastConfig) {
				if c.FieldOfView != MinFOV {
					t.Errorf("FieldOfView = %v, want %v", c.FieldOfView, MinFOV)
				}
			},
		},
		{
			name: "fov above range",
			in:   RaycastConfig{FieldOfView: 170},
			check: func(t *testing.T, c RaycastConfig) {
				if c.FieldOfView != MaxFOV {
					t.Errorf("FieldOfView = %v, want %v", c.FieldOfView, MaxFOV)
				}
			},
		},
		{
			name: "zero values are raised to minimums",
			in:   RaycastConfig{},
			check: func(t *testing.T, c RaycastConfig) {
				if c.XResolution != MinResolution || c.YResolution != MinResolution {
					t.Errorf("resolution = %dx%d", c.XResolution, c.YResolution)
				}
				if c.ThreadCount != 1 {
					t.Errorf("ThreadCount = %d, want 1", c.ThreadCount)
				}
				if c.RayEncounterLimit != 1 {
					t.Errorf("RayEncounterLimit = %d, want 1", c.RayEncounterLimit)
				}
				if c.Backend != BackendSoftware {
					t.Errorf("Backend = %q", c.Backend)
				}
			},
		},
		{
			name: "thread count bounded by cpu count",
			in:   RaycastConfig{ThreadCount: 100000},
			check: func(t *testing.T, c RaycastConfig) {
				if c.ThreadCount != runtime.NumCPU() {
					t.Errorf("ThreadCount = %d, want %d", c.ThreadCount, runtime.NumCPU())
				}
			},
		},
		{
			name: "backend name is case insensitive",
			in:   RaycastConfig{Backend: "Compute"},
			check: func(t *testing.T, c RaycastConfig) {
				if c.Backend != BackendCompute {
					t.Errorf("Backend = %q", c.Backend)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.in.Clamp())
		})
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "raycast:\n  field_of_view: 200\n  x_resolution: 320\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Raycast.FieldOfView != MaxFOV {
		t.Errorf("FieldOfView = %v, want clamped %v", cfg.Raycast.FieldOfView, MaxFOV)
	}
	if cfg.Raycast.XResolution != 320 {
		t.Errorf("XResolution = %d, want 320", cfg.Raycast.XResolution)
	}
	if cfg.Raycast.YResolution != DefaultRaycastConfig().YResolution {
		t.Errorf("YResolution = %d, want default", cfg.Raycast.YResolution)
	}
	if cfg.Display.WindowTitle != "gridcaster" {
		t.Errorf("WindowTitle = %q", cfg.Display.WindowTitle)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
