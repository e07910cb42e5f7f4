// Package pot provides numeric utilities for optimal-transport computations
// in Go: pairwise cost and kernel matrices, a generic parallel map with
// order-preserving result collection, explicit timing helpers, and an
// sklearn-style parameter layer built on explicit structs.
//
// # Features
//
// - Parallel Map: index-tagged worker pool with deterministic shutdown and fail-fast error propagation
// - Cost Matrices: squared-Euclidean, Euclidean, cityblock and cosine pairwise distances over gonum matrices
// - Kernels: Gaussian kernel matrices and cost-matrix normalization
// - Robust Error Handling: structured errors and warnings with stack traces
//
// # Installation
//
//	go get github.com/HelenLiGit/POT
//
// # Quick Start
//
// Apply an expensive function to every element of a slice across all CPU
// cores and get the results back in input order:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/HelenLiGit/POT/core/parallel"
//	)
//
//	func main() {
//	    xs := []float64{1, 2, 3, 4, 5}
//	    squares, err := parallel.Map(context.Background(), func(x float64) (float64, error) {
//	        return x * x, nil
//	    }, xs)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(squares) // [1 4 9 16 25]
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - core/parallel: parallel map worker pool and chunked fan-out helpers
//   - core/model: estimator base and explicit GetParams/SetParams layer
//   - metrics: pairwise distance, kernel and cost-normalization routines
//   - performance: stopwatch timing helpers
//   - plot: coupling-matrix heatmaps and 2D sample-coupling figures
//   - pkg/errors: structured errors and the warning system
//   - pkg/log: slog-based structured logging setup
//
// # Error Handling
//
// Failures inside a parallel map are tagged with the input index and abort
// the whole call; no worker is left running and no partial result escapes:
//
//	_, err := parallel.Map(ctx, decode, frames)
//	var workerErr *errors.WorkerError
//	if errors.As(err, &workerErr) {
//	    log.Printf("frame %d is corrupt: %v", workerErr.Index, workerErr.Err)
//	}
//
// # License
//
// Released under the MIT License.
package pot
