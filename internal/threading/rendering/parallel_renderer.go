package rendering

import (
	"gridcaster/internal/threading/core"
)

// inlineThreshold is the item count below which work runs on the caller.
const inlineThreshold = 8

// ParallelRenderer splits screen passes (columns or rows) into contiguous
// chunks and runs them on a fixed worker pool, blocking until all finish.
type ParallelRenderer struct {
	workerPool *core.WorkerPool
}

// NewParallelRenderer creates a renderer backed by a pool of threads workers
func NewParallelRenderer(threads int) *ParallelRenderer {
	if threads < 1 {
		threads = 1
	}
	pool := core.NewWorkerPool(threads)
	pool.Start()
	return &ParallelRenderer{
		workerPool: pool,
	}
}

// Threads returns the number of chunks each pass is split into
func (pr *ParallelRenderer) Threads() int {
	return pr.workerPool.GetNumWorkers()
}

// RenderRange runs fn over [0, n) in Threads() contiguous chunks, the last
// absorbing any remainder. Very small workloads run inline to avoid
// synchronization overhead.
func (pr *ParallelRenderer) RenderRange(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	threads := pr.Threads()
	if threads == 1 || n <= inlineThreshold {
		fn(0, n)
		return
	}

	pr.workerPool.Distribute(core.Chunks(n, threads), func(r core.Range) {
		fn(r.Start, r.End)
	})
}

// Stop shuts down the parallel renderer
func (pr *ParallelRenderer) Stop() {
	pr.workerPool.Stop()
}
