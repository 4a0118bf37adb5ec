package core

import (
	"runtime"
	"sync"
)

// WorkerPool manages a fixed pool of worker goroutines for parallel processing
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	quit       chan bool
	stopOnce   sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// Zero or negative means one worker per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2), // Buffer for better performance
		quit:       make(chan bool),
	}
}

// Start initializes and starts all worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

// worker is the goroutine that processes jobs from the queue
func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
		case <-wp.quit:
			return
		}
	}
}

// Submit adds a job to the worker queue
func (wp *WorkerPool) Submit(job func()) {
	wp.jobQueue <- job
}

// Stop shuts down the worker pool. Safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() { close(wp.quit) })
}

// Distribute runs fn once per range and blocks until every range is done.
// It is a fork-join barrier local to the call, so concurrent Distribute calls
// on the same pool do not wait on each other.
func (wp *WorkerPool) Distribute(ranges []Range, fn func(r Range)) {
	if len(ranges) == 0 {
		return
	}
	if len(ranges) == 1 {
		fn(ranges[0])
		return
	}

	var done sync.WaitGroup
	done.Add(len(ranges))
	for _, r := range ranges {
		r := r
		wp.Submit(func() {
			defer done.Done()
			fn(r)
		})
	}
	done.Wait()
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}
