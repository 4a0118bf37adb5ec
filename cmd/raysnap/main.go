// Command raysnap renders one frame of a map without opening a window and
// saves it as WebP or PNG.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gridcaster/internal/config"
	"gridcaster/internal/gpu"
	"gridcaster/internal/raycast"
	"gridcaster/internal/scene"
	"gridcaster/internal/threading"

	"github.com/go-gl/mathgl/mgl64"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("raysnap", flag.ContinueOnError)
	configFile := fs.String("config", "config.yaml", "Path to config.yaml")
	out := fs.String("out", "snapshot.webp", "Output image (.webp or .png)")
	x := fs.Float64("x", math.NaN(), "Camera X (default: map spawn)")
	y := fs.Float64("y", math.NaN(), "Camera Y (default: map spawn)")
	yaw := fs.Float64("yaw", math.NaN(), "Camera yaw in radians (default: map spawn)")
	pitch := fs.Float64("pitch", 0, "Normalized pitch -1..1")
	topDown := fs.Bool("topdown", false, "Render the top-down debug view")
	backend := fs.String("backend", "", "Override the backend: software or compute")
	frames := fs.Int("frames", 1, "Frames to render before saving (for timing)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *backend != "" {
		cfg.Raycast.Backend = config.Backend(*backend)
		cfg.Raycast = cfg.Raycast.Clamp()
	}

	sc, err := scene.Load(cfg.Assets, filepath.Dir(*configFile))
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}

	tc := threading.NewThreadingComponents()
	engine, err := sc.NewEngine(cfg.Raycast,
		raycast.WithComputeBackend(gpu.NewComputeBackend),
		raycast.WithMonitor(tc.PerformanceMonitor),
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	spawn := sc.Map.Spawn
	pos := mgl64.Vec2{orDefault(*x, spawn.X), orDefault(*y, spawn.Y)}
	angle := orDefault(*yaw, spawn.Yaw)

	n := max(*frames, 1)
	start := time.Now()
	for i := 0; i < n; i++ {
		if *topDown {
			engine.RenderTopDown(pos, angle)
			continue
		}
		if err := engine.RenderFirstPerson(pos, *pitch, angle); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
	}
	elapsed := time.Since(start)

	if err := saveImage(*out, bufferImage(engine.Buffer())); err != nil {
		return fmt.Errorf("saving %s: %w", *out, err)
	}

	fc := engine.Config()
	fmt.Printf("%s: %dx%d, backend %s, %d frame(s) in %s\n",
		*out, fc.XResolution, fc.YResolution, engine.BackendName(), n, elapsed.Round(time.Microsecond))
	printStats(tc.GetDetailedPerformanceStats())
	return nil
}

func orDefault(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}

func printStats(stats map[string]interface{}) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-24s %v\n", k, stats[k])
	}
}
