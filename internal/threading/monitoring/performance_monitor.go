package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Pass identifies one stage of a first-person frame.
type Pass int

const (
	PassPlanes Pass = iota
	PassWalls
	PassSprites
	PassUpload
	passCount
)

var passNames = [passCount]string{"planes", "walls", "sprites", "upload"}

// String returns the pass name used in stats keys and logs.
func (p Pass) String() string {
	if p < 0 || p >= passCount {
		return "unknown"
	}
	return passNames[p]
}

// PerformanceMonitor tracks frame and per-pass timings. Timers may be ended
// from any goroutine.
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds, last frame
	frameTotal atomic.Uint64 // nanoseconds, all frames

	// Pass metrics
	passTime  [passCount]atomic.Uint64
	passTotal [passCount]atomic.Uint64

	// Scene metrics
	spritesDrawn atomic.Int32
	backend      atomic.Value // string

	// Statistics
	mutex     sync.RWMutex
	startTime time.Time
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		startTime: time.Now(),
	}
	pm.backend.Store("")
	return pm
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	if ft == nil || ft.monitor == nil {
		return
	}
	ns := uint64(time.Since(ft.startTime).Nanoseconds())
	ft.monitor.frameTime.Store(ns)
	ft.monitor.frameTotal.Add(ns)
	ft.monitor.frameCount.Add(1)
}

// PassTimer measures one pass
type PassTimer struct {
	monitor   *PerformanceMonitor
	pass      Pass
	startTime time.Time
}

// StartPass begins timing a pass. A nil monitor yields a no-op timer.
func (pm *PerformanceMonitor) StartPass(p Pass) *PassTimer {
	if pm == nil {
		return nil
	}
	return &PassTimer{
		monitor:   pm,
		pass:      p,
		startTime: time.Now(),
	}
}

// End completes the pass timing
func (pt *PassTimer) End() {
	if pt == nil || pt.pass < 0 || pt.pass >= passCount {
		return
	}
	ns := uint64(time.Since(pt.startTime).Nanoseconds())
	pt.monitor.passTime[pt.pass].Store(ns)
	pt.monitor.passTotal[pt.pass].Add(ns)
}

// SetSpritesDrawn records how many sprites survived culling last frame
func (pm *PerformanceMonitor) SetSpritesDrawn(n int) {
	pm.spritesDrawn.Store(int32(n))
}

// SetBackend records the name of the active render backend
func (pm *PerformanceMonitor) SetBackend(name string) {
	pm.backend.Store(name)
}

// LastPass returns the duration of the most recent run of p
func (pm *PerformanceMonitor) LastPass(p Pass) time.Duration {
	if p < 0 || p >= passCount {
		return 0
	}
	return time.Duration(pm.passTime[p].Load())
}

// FrameMetrics is a snapshot of the latest frame
type FrameMetrics struct {
	Frames          uint64
	FramesPerSecond float64
	FrameTime       time.Duration
	Passes          [passCount]time.Duration
	SpritesDrawn    int
	Backend         string
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = 1000000000.0 / float64(frameTime)
	}

	m := FrameMetrics{
		Frames:          pm.frameCount.Load(),
		FramesPerSecond: fps,
		FrameTime:       time.Duration(frameTime),
		SpritesDrawn:    int(pm.spritesDrawn.Load()),
		Backend:         pm.backend.Load().(string),
	}
	for p := range m.Passes {
		m.Passes[p] = time.Duration(pm.passTime[p].Load())
	}
	return m
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	frames := pm.frameCount.Load()
	stats := map[string]interface{}{
		"uptime_seconds":     time.Since(pm.startTime).Seconds(),
		"frame_count":        frames,
		"last_frame_time_ms": float64(pm.frameTime.Load()) / 1e6,
		"avg_frame_time_ms":  average(pm.frameTotal.Load(), frames),
		"sprites_drawn":      pm.spritesDrawn.Load(),
		"backend":            pm.backend.Load().(string),
		"memory_alloc_mb":    memStats.Alloc / 1024 / 1024,
		"memory_sys_mb":      memStats.Sys / 1024 / 1024,
		"gc_cycles":          memStats.NumGC,
		"cpu_cores":          runtime.NumCPU(),
		"goroutines":         runtime.NumGoroutine(),
	}
	for p := Pass(0); p < passCount; p++ {
		stats["last_"+p.String()+"_time_ms"] = float64(pm.passTime[p].Load()) / 1e6
		stats["avg_"+p.String()+"_time_ms"] = average(pm.passTotal[p].Load(), frames)
	}
	return stats
}

func average(totalNs, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNs) / float64(count) / 1e6
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	frameTime := pm.frameTime.Load()
	if frameTime > 0 {
		fps := 1000000000.0 / float64(frameTime)
		if fps < 30 {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below 30 FPS",
				Value:     fps,
				Threshold: 30,
				Timestamp: currentTime,
			})
		}
	}

	// A single pass eating most of a 60 FPS budget usually means the thread
	// count or resolution is mismatched with the machine.
	for p := Pass(0); p < passCount; p++ {
		ms := float64(pm.passTime[p].Load()) / 1e6
		if ms > 12 {
			alerts = append(alerts, PerformanceAlert{
				Type:      "slow_" + p.String(),
				Message:   "Pass " + p.String() + " exceeds 12ms",
				Value:     ms,
				Threshold: 12,
				Timestamp: currentTime,
			})
		}
	}

	return alerts
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.frameTotal.Store(0)
	for p := range pm.passTime {
		pm.passTime[p].Store(0)
		pm.passTotal[p].Store(0)
	}
	pm.spritesDrawn.Store(0)

	pm.mutex.Lock()
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
