package parallel

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/HelenLiGit/POT/pkg/errors"
)

func TestParallelize_CoversAllIndices(t *testing.T) {
	const items = 1000
	visited := make([]int32, items)

	Parallelize(items, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&visited[i], 1)
		}
	})

	for i, v := range visited {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestParallelize_ZeroItems(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) { called = true })
	if called {
		t.Error("fn called for zero items")
	}
}

func TestParallelizeWithThreshold_SequentialBelowThreshold(t *testing.T) {
	var mu sync.Mutex
	var calls [][2]int
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		mu.Lock()
		calls = append(calls, [2]int{start, end})
		mu.Unlock()
	})

	if len(calls) != 1 {
		t.Fatalf("fn called %d times below threshold, want 1", len(calls))
	}
	if calls[0] != [2]int{0, 10} {
		t.Errorf("fn called with range %v, want [0, 10)", calls[0])
	}
}

func TestForEachChunk_CoversAllIndices(t *testing.T) {
	const items = 500
	visited := make([]int32, items)

	err := ForEachChunk(context.Background(), items, 7, func(start, end int) error {
		for i := start; i < end; i++ {
			atomic.AddInt32(&visited[i], 1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachChunk() error = %v", err)
	}
	for i, v := range visited {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestForEachChunk_PropagatesError(t *testing.T) {
	boom := errors.New("chunk failed")
	err := ForEachChunk(context.Background(), 100, 10, func(start, end int) error {
		if start == 50 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("ForEachChunk() error = %v, want %v", err, boom)
	}
}

func TestForEachChunk_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ForEachChunk(ctx, 100, 1, func(start, end int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ForEachChunk() error = %v, want context.Canceled", err)
	}
}

func TestForEachChunk_ZeroItems(t *testing.T) {
	err := ForEachChunk(context.Background(), 0, 0, func(start, end int) error {
		t.Error("fn called for zero items")
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachChunk() error = %v", err)
	}
}
