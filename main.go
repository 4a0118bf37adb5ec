package main

import (
	"flag"
	"log"
	"path/filepath"

	"gridcaster/internal/config"
	"gridcaster/internal/game"
	"gridcaster/internal/gpu"
	"gridcaster/internal/raycast"
	"gridcaster/internal/scene"
	"gridcaster/internal/threading"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// Load configuration
	cfg := config.MustLoadConfig(*configPath)

	// Asset paths are relative to the config file
	sc, err := scene.Load(cfg.Assets, filepath.Dir(*configPath))
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	if !gpu.Available && cfg.Raycast.Backend == config.BackendCompute {
		log.Printf("[Main] Compute backend not built in (build with -tags opencl); using software")
	}

	tc := threading.NewThreadingComponents()
	engine, err := sc.NewEngine(cfg.Raycast,
		raycast.WithComputeBackend(gpu.NewComputeBackend),
		raycast.WithMonitor(tc.PerformanceMonitor),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := game.NewGame(cfg, engine, tc, sc.Map)
	defer g.Close()
	if err := ebiten.RunGame(g); err != nil {
		log.Printf("[Main] %v", err)
	}
}
