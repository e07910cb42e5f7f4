// Package performance provides timing helpers for benchmarking numeric code.
package performance

import (
	"log/slog"
	"time"
)

// Stopwatch measures elapsed wall-clock time as an explicit value.
// It replaces the MATLAB-style tic/toc pair built on a process-wide clock
// variable: each measurement owns its own start time, so concurrent
// measurements cannot clobber each other.
type Stopwatch struct {
	start time.Time
}

// NewStopwatch returns a stopwatch already started.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{start: time.Now()}
}

// Start restarts the measurement from now.
func (s *Stopwatch) Start() {
	s.start = time.Now()
}

// Elapsed returns the time since the last Start (or creation) without
// logging anything.
func (s *Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Toc logs the elapsed time through slog and returns it.
// An empty message defaults to "Elapsed time".
func (s *Stopwatch) Toc(message string) time.Duration {
	elapsed := s.Elapsed()
	if message == "" {
		message = "Elapsed time"
	}
	slog.Info(message, slog.Float64("seconds", elapsed.Seconds()))
	return elapsed
}
