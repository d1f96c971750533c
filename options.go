package tally

import "time"

type config struct {
	limit       int
	eventBuffer int
	onStart     func(WorkerInfo)
	onDone      func(WorkerInfo, error, time.Duration)
}

// Option configures a [Group].
type Option func(*config)

func defaultConfig() config {
	return config{}
}

// WithLimit caps the number of workers executing concurrently within
// the group. Workers beyond the limit wait for a slot before running
// their first increment; waiting respects the group's context.
//
// A limit of zero (the default) means unlimited fan-out.
// WithLimit panics if n is negative.
func WithLimit(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("tally: limit must be non-negative")
		}
		c.limit = n
	}
}

// WithEventBuffer enables the group's completion event stream with the
// given channel buffer, readable via [Group.Events]. The consumer must
// drain the stream, or size the buffer to cover every spawned worker;
// otherwise workers block publishing their completion.
//
// WithEventBuffer panics if n <= 0.
func WithEventBuffer(n int) Option {
	return func(c *config) {
		if n <= 0 {
			panic("tally: WithEventBuffer requires n > 0")
		}
		c.eventBuffer = n
	}
}

// WithOnStart registers a hook invoked when each worker begins
// executing. The hook runs inside the worker's goroutine before its
// first increment.
func WithOnStart(fn func(WorkerInfo)) Option {
	return func(c *config) {
		c.onStart = fn
	}
}

// WithOnDone registers a hook invoked when each worker finishes.
// The hook receives the worker's error (nil on success) and wall-clock
// duration, and runs inside the worker's goroutine.
func WithOnDone(fn func(WorkerInfo, error, time.Duration)) Option {
	return func(c *config) {
		c.onDone = fn
	}
}
