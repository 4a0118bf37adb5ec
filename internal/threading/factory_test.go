package threading

import (
	"testing"

	"gridcaster/internal/threading/monitoring"
)

func TestThreadingComponents(t *testing.T) {
	tc := NewThreadingComponents()
	ft := tc.PerformanceMonitor.StartFrame()
	tc.PerformanceMonitor.StartPass(monitoring.PassWalls).End()
	ft.EndFrame()

	if got := tc.GetPerformanceMetrics().Frames; got != 1 {
		t.Errorf("Frames = %d, want 1", got)
	}
	if _, ok := tc.GetDetailedPerformanceStats()["last_walls_time_ms"]; !ok {
		t.Error("detailed stats lack the walls pass")
	}

	tc.Shutdown()
	if got := tc.GetPerformanceMetrics().Frames; got != 0 {
		t.Errorf("Frames after Shutdown = %d, want 0", got)
	}

	var empty ThreadingComponents
	if empty.GetDetailedPerformanceStats() != nil || empty.CheckPerformanceAlerts() != nil {
		t.Error("components without a monitor should report nothing")
	}
}
