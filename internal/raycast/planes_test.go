package raycast

import (
	"math"
	"slices"
	"testing"

	"gridcaster/internal/graphics"
	"gridcaster/internal/world"
)

func filledGrid(w, h int, n world.GridNode) *world.Grid {
	g := world.NewGrid(w, h)
	g.Fill(n)
	return g
}

func TestPlaneRowsFloorAndCeiling(t *testing.T) {
	n := floorNode(texRed, world.NoTexture)
	n.Ceiling[world.LayerInner] = texBlue
	cfg := testConfig()
	job := newTestJob(filledGrid(9, 9, n), cfg, cameraAt(4.5, 4.5, 0))

	RasterizePlaneRows(job, 0, cfg.YResolution)

	buf := job.Buffer
	f := job.Frame
	bottom := buf.Index(8, cfg.YResolution-1)
	top := buf.Index(8, 0)
	if buf.Color[bottom] != red {
		t.Errorf("bottom row = %#x, want floor red", buf.Color[bottom])
	}
	if buf.Color[top] != blue {
		t.Errorf("top row = %#x, want ceiling blue", buf.Color[top])
	}

	rowPitch := float64(cfg.YResolution) - 0.5 - f.Horizon
	want := InnerPlaneHeight * f.ViewHeightPx / rowPitch
	if got := float64(buf.Depth[bottom]); math.Abs(got-want) > 1e-4 {
		t.Errorf("bottom depth = %v, want %v", got, want)
	}
	if buf.Depth[bottom] != buf.Depth[top] {
		t.Errorf("mirrored rows should share depth: %v vs %v", buf.Depth[bottom], buf.Depth[top])
	}
}

func TestPlaneRowsOuterLayer(t *testing.T) {
	tests := []struct {
		name  string
		inner int
	}{
		{"no inner floor", world.NoTexture},
		{"transparent inner floor", texClear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			job := newTestJob(filledGrid(9, 9, floorNode(tt.inner, texGreen)), cfg, cameraAt(4.5, 4.5, 0))
			RasterizePlaneRows(job, 0, cfg.YResolution)

			f := job.Frame
			i := job.Buffer.Index(8, cfg.YResolution-1)
			if job.Buffer.Color[i] != green {
				t.Errorf("color = %#x, want outer green", job.Buffer.Color[i])
			}
			rowPitch := float64(cfg.YResolution) - 0.5 - f.Horizon
			want := OuterPlaneHeight * f.ViewHeightPx / rowPitch
			if got := float64(job.Buffer.Depth[i]); math.Abs(got-want) > 1e-4 {
				t.Errorf("depth = %v, want %v", got, want)
			}
		})
	}
}

func TestPlaneRowsSkipHorizon(t *testing.T) {
	cfg := testConfig()
	cam := cameraAt(4.5, 4.5, 0)
	cam.Pitch = 0.5 / float64(cfg.YResolution) // horizon through a pixel centre
	n := floorNode(texRed, texGreen)
	n.Ceiling = [world.LayerCount]int{texBlue, texBlue}
	job := newTestJob(filledGrid(9, 9, n), cfg, cam)

	RasterizePlaneRows(job, 0, cfg.YResolution)

	row := int(job.Frame.Horizon)
	for x := 0; x < cfg.XResolution; x++ {
		if job.Buffer.Covered(job.Buffer.Index(x, row)) {
			t.Fatalf("horizon row pixel %d written", x)
		}
	}
}

func TestPlaneRowsBeyondFarClip(t *testing.T) {
	cfg := testConfig()
	cfg.FarClip = 1
	job := newTestJob(filledGrid(9, 9, floorNode(texRed, texGreen)), cfg, cameraAt(4.5, 4.5, 0))
	RasterizePlaneRows(job, 0, cfg.YResolution)

	f := job.Frame
	for y := 0; y < cfg.YResolution; y++ {
		i := job.Buffer.Index(8, y)
		if job.Buffer.Covered(i) && float64(job.Buffer.Depth[i]) > f.FarClip {
			t.Fatalf("row %d written beyond far clip at %v", y, job.Buffer.Depth[i])
		}
	}
}

func TestPlaneRowsIdempotent(t *testing.T) {
	n := floorNode(texRed, texGreen)
	n.Ceiling[world.LayerOuter] = texBlue
	cfg := testConfig()
	job := newTestJob(filledGrid(9, 9, n), cfg, cameraAt(4.2, 3.7, 0.6))

	RasterizePlaneRows(job, 0, cfg.YResolution)
	color := slices.Clone(job.Buffer.Color)
	depth := slices.Clone(job.Buffer.Depth)

	RasterizePlaneRows(job, 0, cfg.YResolution)
	if !slices.Equal(color, job.Buffer.Color) || !slices.Equal(depth, job.Buffer.Depth) {
		t.Error("second plane pass changed the buffer")
	}
}

func TestPlaneRowsChunkingMatchesSinglePass(t *testing.T) {
	n := floorNode(texRed, texGreen)
	n.Ceiling[world.LayerInner] = texBlue
	cfg := testConfig()
	cam := cameraAt(4.2, 3.7, 1.1)

	whole := newTestJob(filledGrid(9, 9, n), cfg, cam)
	RasterizePlaneRows(whole, 0, cfg.YResolution)

	chunked := newTestJob(filledGrid(9, 9, n), cfg, cam)
	for y := 0; y < cfg.YResolution; y += 5 {
		RasterizePlaneRows(chunked, y, y+5)
	}

	if !slices.Equal(whole.Buffer.Color, chunked.Buffer.Color) {
		t.Error("chunked plane pass differs from a single pass")
	}
}

func TestShade(t *testing.T) {
	cfg := testConfig()
	cfg.Fog.Enabled = true
	cfg.Fog.BrightnessMin = 0.25
	c := graphics.PackRGBA(200, 100, 40, 0x80)

	tests := []struct {
		name    string
		enabled bool
		depth   float64
		want    uint32
	}{
		{"disabled", false, 9, c},
		{"at camera", true, 0, c},
		{"half way", true, cfg.FarClip / 2, graphics.PackRGBA(100, 50, 20, 0x80)},
		{"floored at minimum", true, cfg.FarClip, graphics.PackRGBA(50, 25, 10, 0x80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cfg
			cfg.Fog.Enabled = tt.enabled
			if got := Shade(c, tt.depth, cfg); got != tt.want {
				t.Errorf("Shade = %#x, want %#x", got, tt.want)
			}
		})
	}
}
