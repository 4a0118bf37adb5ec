package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	perfLowFpsThreshold = 50.0
	perfLowFpsDuration  = 3 * time.Second
	perfLogInterval     = 3 * time.Second
)

func (g *Game) maybeLogPerfDrop() {
	if !g.perfDebugEnabled {
		return
	}
	g.checkPerfDrop(ebiten.ActualFPS(), time.Now())
}

// checkPerfDrop logs a snapshot once fps has stayed below the threshold for
// perfLowFpsDuration, then at most every perfLogInterval. It reports whether
// a snapshot was written.
func (g *Game) checkPerfDrop(fps float64, now time.Time) bool {
	if fps >= perfLowFpsThreshold {
		g.perfLowFpsSince = time.Time{}
		g.perfLastPerfLog = time.Time{}
		return false
	}

	if g.perfLowFpsSince.IsZero() {
		g.perfLowFpsSince = now
		return false
	}

	if now.Sub(g.perfLowFpsSince) < perfLowFpsDuration {
		return false
	}

	if !g.perfLastPerfLog.IsZero() && now.Sub(g.perfLastPerfLog) < perfLogInterval {
		return false
	}

	g.perfLastPerfLog = now
	g.perfLog(fps)
	return true
}

func (g *Game) logPerfSnapshot(fps float64) {
	tps := ebiten.ActualTPS()
	stats := g.threading.GetDetailedPerformanceStats()
	cfg := g.engine.Config()

	causes := make([]string, 0, 4)
	if px := cfg.PixelCount(); px > 640*360 {
		causes = append(causes, fmt.Sprintf("resolution %dx%d", cfg.XResolution, cfg.YResolution))
	}
	if cfg.RayEncounterLimit > 16 {
		causes = append(causes, fmt.Sprintf("encounter limit %d", cfg.RayEncounterLimit))
	}
	if n := g.engine.SpriteCount(); n > 500 {
		causes = append(causes, fmt.Sprintf("sprites (%d)", n))
	}
	for _, alert := range g.threading.CheckPerformanceAlerts() {
		if strings.HasPrefix(alert.Type, "slow_") {
			causes = append(causes, fmt.Sprintf("%s %.1fms", strings.TrimPrefix(alert.Type, "slow_"), alert.Value))
		}
	}

	causeText := "none obvious"
	if len(causes) > 0 {
		causeText = strings.Join(causes, ", ")
	}

	fmt.Printf(
		"[PERF] FPS<%.0f for >=%s | fps=%.1f tps=%.1f backend=%s threads=%d causes=%s\n",
		perfLowFpsThreshold,
		perfLowFpsDuration,
		fps,
		tps,
		g.engine.BackendName(),
		cfg.ThreadCount,
		causeText,
	)
	fmt.Printf(
		"[PERF] update=%.2fms draw=%.2fms frame=%.2fms planes=%.2fms walls=%.2fms sprites=%.2fms upload=%.2fms drawn_sprites=%d goroutines=%d vsync=%v\n",
		float64(g.lastUpdateDuration.Microseconds())/1000.0,
		float64(g.lastDrawDuration.Microseconds())/1000.0,
		getPerfFloat(stats, "last_frame_time_ms"),
		getPerfFloat(stats, "last_planes_time_ms"),
		getPerfFloat(stats, "last_walls_time_ms"),
		getPerfFloat(stats, "last_sprites_time_ms"),
		getPerfFloat(stats, "last_upload_time_ms"),
		getPerfInt(stats, "sprites_drawn"),
		getPerfInt(stats, "goroutines"),
		ebiten.IsVsyncEnabled(),
	)
	fmt.Printf(
		"[PERF] mem_alloc=%dMB mem_sys=%dMB gc_cycles=%d\n",
		getPerfUint(stats, "memory_alloc_mb"),
		getPerfUint(stats, "memory_sys_mb"),
		getPerfUint(stats, "gc_cycles"),
	)
}

func getPerfFloat(stats map[string]interface{}, key string) float64 {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int32:
			return float64(v)
		case int64:
			return float64(v)
		case uint64:
			return float64(v)
		}
	}
	return 0
}

func getPerfInt(stats map[string]interface{}, key string) int {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case uint64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

func getPerfUint(stats map[string]interface{}, key string) uint64 {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case uint64:
			return v
		case uint32:
			return uint64(v)
		case int64:
			return uint64(v)
		case int:
			return uint64(v)
		case float64:
			return uint64(v)
		}
	}
	return 0
}
