package monitoring

import (
	"sync"
	"testing"
	"time"
)

func TestNewPerformanceMonitor(t *testing.T) {
	pm := NewPerformanceMonitor()

	if pm == nil {
		t.Fatal("NewPerformanceMonitor returned nil")
	}
	if time.Since(pm.startTime) > time.Second {
		t.Error("Start time should be recent")
	}
	if m := pm.GetCurrentMetrics(); m.Frames != 0 || m.Backend != "" {
		t.Errorf("unexpected initial metrics %+v", m)
	}
}

func TestPerformanceMonitorFrameTiming(t *testing.T) {
	pm := NewPerformanceMonitor()

	frameTimer := pm.StartFrame()
	time.Sleep(10 * time.Millisecond)
	frameTimer.EndFrame()

	if pm.frameCount.Load() != 1 {
		t.Errorf("Expected frame count to be 1, got %d", pm.frameCount.Load())
	}

	minExpectedTime := uint64(10 * time.Millisecond)
	if frameTime := pm.frameTime.Load(); frameTime < minExpectedTime {
		t.Errorf("Expected frame time to be at least %d ns, got %d ns", minExpectedTime, frameTime)
	}
}

func TestPassTiming(t *testing.T) {
	pm := NewPerformanceMonitor()

	timer := pm.StartPass(PassWalls)
	time.Sleep(2 * time.Millisecond)
	timer.End()

	if got := pm.LastPass(PassWalls); got < 2*time.Millisecond {
		t.Errorf("walls pass = %v, want >= 2ms", got)
	}
	if got := pm.LastPass(PassPlanes); got != 0 {
		t.Errorf("planes pass = %v, want 0", got)
	}

	stats := pm.GetDetailedStats()
	if _, ok := stats["last_walls_time_ms"]; !ok {
		t.Error("missing last_walls_time_ms in stats")
	}
	if _, ok := stats["avg_sprites_time_ms"]; !ok {
		t.Error("missing avg_sprites_time_ms in stats")
	}
}

func TestNilMonitorTimersAreNoops(t *testing.T) {
	var pm *PerformanceMonitor
	pm.StartPass(PassPlanes).End()
}

func TestPassString(t *testing.T) {
	tests := []struct {
		pass Pass
		want string
	}{
		{PassPlanes, "planes"},
		{PassWalls, "walls"},
		{PassSprites, "sprites"},
		{PassUpload, "upload"},
		{Pass(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.pass.String(); got != tt.want {
			t.Errorf("Pass(%d).String() = %q, want %q", tt.pass, got, tt.want)
		}
	}
}

func TestConcurrentPassTimers(t *testing.T) {
	pm := NewPerformanceMonitor()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(p Pass) {
			defer wg.Done()
			pm.StartPass(p).End()
		}(Pass(i % int(passCount)))
	}
	wg.Wait()
}

func TestReset(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.StartFrame().EndFrame()
	pm.StartPass(PassSprites).End()
	pm.SetSpritesDrawn(7)
	pm.SetBackend("software")

	pm.Reset()

	m := pm.GetCurrentMetrics()
	if m.Frames != 0 || m.SpritesDrawn != 0 || m.Passes[PassSprites] != 0 {
		t.Errorf("metrics not reset: %+v", m)
	}
	if m.Backend != "software" {
		t.Errorf("backend name should survive reset, got %q", m.Backend)
	}
}

func TestSlowPassAlert(t *testing.T) {
	pm := NewPerformanceMonitor()
	pm.passTime[PassWalls].Store(uint64(20 * time.Millisecond))

	alerts := pm.CheckPerformanceAlerts()
	found := false
	for _, a := range alerts {
		if a.Type == "slow_walls" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected slow_walls alert, got %+v", alerts)
	}
}
