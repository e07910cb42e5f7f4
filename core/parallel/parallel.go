package parallel

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Parallelize divides the specified total number (items) according to the
// number of CPU cores, and executes the specified function (fn) in parallel
// for each range (start, end). fn must not fail; use ForEachChunk when
// failures have to propagate.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items // No need for more workers than items
	}

	// Number of items each worker handles (ceiling division).
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of
// items exceeds the threshold. Below it, fn runs sequentially over the whole
// range; goroutine overhead dominates for small inputs.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEachChunk runs fn over [start, end) chunks of the index range [0, items)
// with bounded concurrency, stopping at the first error. chunkSize <= 0
// selects a chunk size that yields one chunk per CPU core.
func ForEachChunk(ctx context.Context, items, chunkSize int, fn func(start, end int) error) error {
	if items == 0 {
		return nil
	}
	if chunkSize <= 0 {
		numWorkers := runtime.NumCPU()
		if numWorkers > items {
			numWorkers = items
		}
		chunkSize = (items + numWorkers - 1) / numWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return fn(start, end)
		})
	}
	return g.Wait()
}
