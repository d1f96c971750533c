package tally

import (
	"fmt"
	"runtime"
)

// PanicError wraps a value recovered from a panicking worker together
// with the goroutine stack trace captured at the point of the panic.
//
// Panics in worker functions are never re-raised across Join: the
// worker's harness converts them to *PanicError so callers handle
// abnormal termination as an ordinary error value.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the goroutine stack trace at the point of panic.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("tally: worker panicked: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap returns nil. PanicError does not wrap another error.
func (e *PanicError) Unwrap() error { return nil }

// PoisonedError reports that the counter's guarded section cannot be
// safely entered because a previous holder panicked mid-update. It is
// returned by [Counter.Inc], [Counter.Update], and [Counter.Value]
// once the counter is poisoned; it is never recovered internally.
type PoisonedError struct {
	// Cause is the panic that poisoned the counter.
	Cause *PanicError
}

func (e *PoisonedError) Error() string {
	return fmt.Sprintf("tally: counter poisoned by earlier panic: %v", e.Cause.Value)
}

// Unwrap returns nil. Poisoning and the panic that caused it are
// distinct failure kinds: the panic is reported once, at the
// panicking worker's join, and workers that merely find the counter
// poisoned must not test as panicked themselves. The causing panic
// stays available via Cause.
func (e *PoisonedError) Unwrap() error { return nil }

func newPanicError(v any) *PanicError {
	// Traces deeper than 16 KiB get cut off; runtime.Stack simply
	// stops writing when the buffer runs out.
	buf := make([]byte, 16<<10)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}

// asPanicError normalizes a recovered value. A re-raised *PanicError
// keeps its original stack instead of capturing the re-raise site.
func asPanicError(v any) *PanicError {
	if pe, ok := v.(*PanicError); ok {
		return pe
	}
	return newPanicError(v)
}
