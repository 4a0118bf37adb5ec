package rendering

import (
	"sync"
	"testing"
)

func TestRenderRangeCoversAllItems(t *testing.T) {
	tests := []struct {
		name    string
		threads int
		n       int
	}{
		{"single thread", 1, 100},
		{"inline small workload", 4, 5},
		{"uneven split", 3, 640},
		{"more threads than items", 16, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := NewParallelRenderer(tt.threads)
			defer pr.Stop()

			seen := make([]int, tt.n)
			var mu sync.Mutex
			pr.RenderRange(tt.n, func(start, end int) {
				mu.Lock()
				defer mu.Unlock()
				for i := start; i < end; i++ {
					seen[i]++
				}
			})
			for i, c := range seen {
				if c != 1 {
					t.Fatalf("item %d rendered %d times", i, c)
				}
			}
		})
	}
}

func TestRenderRangeZero(t *testing.T) {
	pr := NewParallelRenderer(2)
	defer pr.Stop()
	called := false
	pr.RenderRange(0, func(start, end int) { called = true })
	if called {
		t.Error("fn called for empty range")
	}
}

func TestThreadsClampsToOne(t *testing.T) {
	tests := []struct {
		threads int
		want    int
	}{
		{-3, 1},
		{0, 1},
		{6, 6},
	}
	for _, tt := range tests {
		pr := NewParallelRenderer(tt.threads)
		if got := pr.Threads(); got != tt.want {
			t.Errorf("NewParallelRenderer(%d).Threads() = %d, want %d", tt.threads, got, tt.want)
		}
		pr.Stop()
	}
}
