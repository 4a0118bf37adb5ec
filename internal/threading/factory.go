package threading

import (
	"gridcaster/internal/threading/monitoring"
)

// ThreadingComponents holds the threading state shared by a viewer or a
// headless run. Render workers belong to the software backend; this keeps
// the monitor that every backend reports into.
type ThreadingComponents struct {
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewThreadingComponents creates and initializes all threading components
func NewThreadingComponents() *ThreadingComponents {
	return &ThreadingComponents{
		PerformanceMonitor: monitoring.NewPerformanceMonitor(),
	}
}

// Shutdown resets the counters so a reused monitor starts clean
func (tc *ThreadingComponents) Shutdown() {
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// GetPerformanceMetrics returns current performance metrics
func (tc *ThreadingComponents) GetPerformanceMetrics() monitoring.FrameMetrics {
	if tc.PerformanceMonitor == nil {
		return monitoring.FrameMetrics{}
	}
	return tc.PerformanceMonitor.GetCurrentMetrics()
}

// GetDetailedPerformanceStats returns detailed performance statistics
func (tc *ThreadingComponents) GetDetailedPerformanceStats() map[string]interface{} {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.GetDetailedStats()
	}
	return nil
}

// CheckPerformanceAlerts returns any performance warnings
func (tc *ThreadingComponents) CheckPerformanceAlerts() []monitoring.PerformanceAlert {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.CheckPerformanceAlerts()
	}
	return nil
}
