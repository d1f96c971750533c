package tally

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned (wrapped with detail) when a negative
// start or increment count is supplied. Validation happens
// synchronously, before any worker goroutine starts.
var ErrInvalidArgument = errors.New("tally: invalid argument")

// ErrGroupClosed is returned by [Group.Spawn] and [Group.Go] once
// [Group.Wait] has been called.
var ErrGroupClosed = errors.New("tally: group is closed")

// ErrOutstandingWorkers is returned by [Counter.Value] while worker
// handles spawned against the counter have not all been joined.
// Join-then-read is the only supported sequence.
var ErrOutstandingWorkers = errors.New("tally: counter has unjoined workers")

// WorkerError wraps an error together with the [WorkerInfo] of the
// worker that produced it. Every failure surfaced by [Worker.Join] and
// [Group.Wait] is wrapped in a WorkerError so callers can attribute it
// to a specific worker.
type WorkerError struct {
	Worker WorkerInfo
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %q failed: %v", e.Worker.Name, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// IsPanic reports whether err (or any error in its chain) is a
// [*PanicError], i.e. a worker terminated abnormally. A worker that
// failed only because the counter was poisoned does not test as
// panicked: [*PoisonedError] ends the chain, keeping the two kinds
// mutually exclusive.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

// IsPoisoned reports whether err (or any error in its chain) is a
// [*PoisonedError].
func IsPoisoned(err error) bool {
	var pe *PoisonedError
	return errors.As(err, &pe)
}

// WorkerOf extracts the [WorkerInfo] from the first [*WorkerError] in
// err's chain. Returns false if no WorkerError is found.
func WorkerOf(err error) (WorkerInfo, bool) {
	var we *WorkerError
	if errors.As(err, &we) {
		return we.Worker, true
	}
	return WorkerInfo{}, false
}

// CauseOf unwraps the first [*WorkerError] in err's chain and returns
// its underlying cause. If err is not a WorkerError, it is returned
// as-is. Returns nil if err is nil.
func CauseOf(err error) error {
	if err == nil {
		return nil
	}

	var we *WorkerError
	if errors.As(err, &we) {
		return we.Err
	}
	return err
}

// AllWorkerErrors recursively collects every [*WorkerError] from err's
// chain, including errors combined via [errors.Join]. Returns nil if
// none are found.
func AllWorkerErrors(err error) []*WorkerError {
	if err == nil {
		return nil
	}

	var out []*WorkerError
	collectWorkerErrors(err, &out)
	return out
}

func collectWorkerErrors(err error, out *[]*WorkerError) {
	switch e := err.(type) {
	case *WorkerError:
		*out = append(*out, e)

	case interface{ Unwrap() []error }:
		for _, sub := range e.Unwrap() {
			collectWorkerErrors(sub, out)
		}

	case interface{ Unwrap() error }:
		collectWorkerErrors(e.Unwrap(), out)
	}
}
