package parallel

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/HelenLiGit/POT/pkg/errors"
)

// workItem is one tagged unit of work. index is the position of payload in
// the original input slice and is assigned exactly once by the coordinator.
// stop marks a shutdown sentinel; a worker consumes exactly one sentinel and
// terminates without producing a result for it.
type workItem[T any] struct {
	index   int
	payload T
	stop    bool
}

// resultItem carries f's output (or its failure) tagged with the input index
// copied verbatim from the workItem.
type resultItem[R any] struct {
	index int
	value R
	err   error
}

// options configures a single Map invocation.
type options struct {
	workers     int
	inputBuffer int
}

// Option は Map の動作を変更するオプション
type Option func(*options)

// WithWorkers はワーカー数を指定する（デフォルト: runtime.NumCPU()）
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithInputBuffer は入力チャネルの容量を指定する（デフォルト: 1）。
// 容量1では常に高々1件の未取得アイテムしか存在せず、ディスパッチが
// ワーカーの消費速度に同期する（バックプレッシャ）。
// 結果の順序は収集時にインデックスで復元されるため、容量を広げても
// 出力順序の保証は変わらない。
func WithInputBuffer(n int) Option {
	return func(o *options) { o.inputBuffer = n }
}

// Map applies f to every element of xs using a pool of worker goroutines and
// returns the results in input order: out[i] == f(xs[i]) for all i.
//
// The coordinator spawns the workers, feeds each element tagged with its
// index through a bounded input channel, sends one shutdown sentinel per
// worker, collects exactly len(xs) results, restores input order by index,
// and joins every worker before returning. Completion order across workers
// is unconstrained; only the returned slice is ordered.
//
// f must be safe to call concurrently. If f returns an error or panics, the
// first failure wins: remaining workers are signaled to stop, all workers
// are joined, and Map returns a *errors.WorkerError carrying the failing
// input index. No partial results are returned. Canceling ctx aborts the
// call the same way with the context's error.
func Map[T, R any](ctx context.Context, f func(T) (R, error), xs []T, opts ...Option) ([]R, error) {
	if f == nil {
		return nil, errors.NewValidationError("f", "must not be nil", nil)
	}

	o := options{workers: runtime.NumCPU(), inputBuffer: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		return nil, errors.NewValidationError("workers", "must be >= 1", o.workers)
	}
	if o.inputBuffer < 1 {
		return nil, errors.NewValidationError("inputBuffer", "must be >= 1", o.inputBuffer)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan workItem[T], o.inputBuffer)
	// Buffered so that no worker ever blocks on fan-in, even when the
	// coordinator has already stopped draining after a failure.
	out := make(chan resultItem[R], len(xs)+o.workers)

	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runWorker(ctx, cancel, f, in, out)
		}()
	}

	// Feed phase: items in strict index order, then one sentinel per
	// worker. Sends block while the bounded channel is full; a canceled
	// context unblocks them so a failed call never wedges here.
feed:
	for i := range xs {
		select {
		case in <- workItem[T]{index: i, payload: xs[i]}:
		case <-ctx.Done():
			break feed
		}
	}
sentinels:
	for w := 0; w < o.workers; w++ {
		select {
		case in <- workItem[T]{stop: true}:
		case <-ctx.Done():
			// Workers terminate through ctx instead.
			break sentinels
		}
	}

	// Drain phase: exactly len(xs) results on the success path.
	collected := make([]resultItem[R], 0, len(xs))
	var firstErr error
	take := func(res resultItem[R]) {
		if res.err != nil {
			firstErr = res.err
			cancel()
			return
		}
		collected = append(collected, res)
	}
	for len(collected) < len(xs) && firstErr == nil {
		select {
		case res := <-out:
			take(res)
		case <-ctx.Done():
			// A failing worker pushes its tagged error before canceling,
			// so prefer a pending result over the bare cancellation.
			select {
			case res := <-out:
				take(res)
			default:
				firstErr = errors.Wrap(ctx.Err(), "parallel map aborted")
			}
		}
	}

	cancel()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })
	values := make([]R, len(collected))
	for i, res := range collected {
		values[i] = res.value
	}
	return values, nil
}

// runWorker is the consume-transform-produce loop bound to one goroutine.
// It pulls tagged items from in until it sees a sentinel or the context is
// canceled. On the first failure of f it pushes a tagged error, cancels the
// whole call, and exits without completing pending work.
func runWorker[T, R any](ctx context.Context, cancel context.CancelFunc, f func(T) (R, error), in <-chan workItem[T], out chan<- resultItem[R]) {
	for {
		select {
		case item := <-in:
			if item.stop {
				return
			}
			value, err := apply(f, item.payload)
			if err != nil {
				// Push the tagged failure first so the coordinator can
				// observe it before the cancellation it triggers.
				out <- resultItem[R]{index: item.index, err: errors.NewWorkerError(item.index, err)}
				cancel()
				return
			}
			out <- resultItem[R]{index: item.index, value: value}
		case <-ctx.Done():
			return
		}
	}
}

// apply invokes f with panic recovery so that a panicking user function
// surfaces as a tagged error instead of tearing down the process (or, worse,
// silently starving the coordinator of a result).
func apply[T, R any](f func(T) (R, error), x T) (value R, err error) {
	defer errors.Recover(&err, "parallel.Map")
	return f(x)
}
