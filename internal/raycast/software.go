package raycast

import (
	"gridcaster/internal/threading/monitoring"
	"gridcaster/internal/threading/rendering"
)

// SoftwareBackend rasterizes on the CPU: planes over row chunks, a join, then
// walls over column chunks and another join.
type SoftwareBackend struct {
	renderer *rendering.ParallelRenderer
	monitor  *monitoring.PerformanceMonitor
}

// NewSoftwareBackend starts a pool of threads workers. monitor may be nil.
func NewSoftwareBackend(threads int, monitor *monitoring.PerformanceMonitor) *SoftwareBackend {
	return &SoftwareBackend{
		renderer: rendering.NewParallelRenderer(threads),
		monitor:  monitor,
	}
}

func (b *SoftwareBackend) Name() string { return "software" }

func (b *SoftwareBackend) Render(job *Job) error {
	t := b.monitor.StartPass(monitoring.PassPlanes)
	b.renderer.RenderRange(job.Frame.Height, func(y0, y1 int) {
		RasterizePlaneRows(job, y0, y1)
	})
	t.End()

	t = b.monitor.StartPass(monitoring.PassWalls)
	b.renderer.RenderRange(job.Frame.Width, func(x0, x1 int) {
		RasterizeWallColumns(job, x0, x1)
	})
	t.End()
	return nil
}

func (b *SoftwareBackend) Close() {
	b.renderer.Stop()
}
