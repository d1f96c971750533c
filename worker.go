package tally

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// WorkerFunc is the body of a custom worker launched via [Group.Go].
// It receives the group's context and the shared counter. Returning a
// non-nil error (or panicking) marks the worker failed at join time.
type WorkerFunc func(ctx context.Context, c *Counter) error

// WorkerInfo identifies a worker for error attribution and
// observability hooks.
type WorkerInfo struct {
	// ID is assigned at spawn time and unique per worker.
	ID uuid.UUID

	// Name is the caller-supplied label.
	Name string

	// Increments is the number of guarded increments a Spawn worker
	// performs. Zero for workers launched via Go.
	Increments int64
}

// Worker is the handle to a running worker. It is created by
// [Group.Spawn] or [Group.Go] and consumed by [Worker.Join]. A handle
// that is never joined keeps [Counter.Value] failing with
// [ErrOutstandingWorkers]; leaking handles is a defect this design
// surfaces rather than tolerates.
type Worker struct {
	info    WorkerInfo
	counter *Counter

	// err is written at most once before done is closed.
	err  error
	done chan struct{}

	joinOnce sync.Once
}

// Info returns the worker's identity.
func (w *Worker) Info() WorkerInfo {
	return w.info
}

// Done returns a channel that is closed when the worker completes.
// It can be used to select across multiple handles; Join must still be
// called to release the handle and observe the outcome.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Join blocks until the worker has completed all its work, then
// returns its outcome: nil on normal completion, or a [*WorkerError]
// wrapping the failure. A panic in the worker surfaces here as a
// wrapped [*PanicError]; it is never re-raised.
//
// Join blocks indefinitely. It is idempotent; every call returns the
// same result, and the first call releases the handle's hold on
// [Counter.Value].
func (w *Worker) Join() error {
	<-w.done
	w.joinOnce.Do(func() { w.counter.release() })
	return w.err
}
