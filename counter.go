package tally

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Counter is a mutex-guarded integer shared by concurrently running
// workers. All mutation goes through [Counter.Inc] or [Counter.Update],
// which serialize the read-modify-write cycle so no two workers ever
// observe the same pre-increment value.
//
// A Counter created via [NewCounter] is safe to share by reference with
// any number of workers. Reading the accumulated total with
// [Counter.Value] is only permitted once every worker handle spawned
// against the counter has been joined; until then Value fails with
// [ErrOutstandingWorkers].
type Counter struct {
	mu     sync.Mutex
	value  int64
	poison *PanicError

	// outstanding counts spawned worker handles that have not been
	// joined yet. A handle that is never joined keeps the counter
	// unreadable forever, surfacing the leak instead of hiding it.
	outstanding atomic.Int64
}

// NewCounter constructs a counter seeded with start.
// It fails with [ErrInvalidArgument] if start is negative.
func NewCounter(start int64) (*Counter, error) {
	if start < 0 {
		return nil, fmt.Errorf("tally: start must be non-negative, got %d: %w", start, ErrInvalidArgument)
	}
	return &Counter{value: start}, nil
}

// Inc acquires the lock, adds one, and releases the lock. It blocks
// until the lock is free. If the counter has been poisoned by an
// earlier panic inside the guarded section, Inc returns a
// [*PoisonedError] instead of mutating undefined state.
func (c *Counter) Inc() error {
	return c.Update(func(v int64) int64 { return v + 1 })
}

// Update runs fn inside the guarded section, replacing the counter
// value with fn's result. At most one Update executes at a time.
//
// If fn panics, the counter is marked poisoned before the lock is
// released and the panic is re-raised wrapped in a [*PanicError], so a
// worker harness with panic recovery reports it at join time. Every
// subsequent Inc or Update then fails with [*PoisonedError].
func (c *Counter) Update(fn func(v int64) int64) error {
	c.mu.Lock()
	if c.poison != nil {
		p := c.poison
		c.mu.Unlock()
		return &PoisonedError{Cause: p}
	}

	defer func() {
		if r := recover(); r != nil {
			pe := asPanicError(r)
			c.poison = pe
			c.mu.Unlock()
			panic(pe)
		}
	}()

	c.value = fn(c.value)
	c.mu.Unlock()
	return nil
}

// Value returns the accumulated total. It is valid only after every
// worker handle spawned against the counter has been joined; before
// that it fails with [ErrOutstandingWorkers].
//
// If the counter was poisoned, Value returns the last value written
// before the panic alongside a [*PoisonedError], so undercounting is
// never silent.
func (c *Counter) Value() (int64, error) {
	if n := c.outstanding.Load(); n > 0 {
		return 0, fmt.Errorf("tally: %d worker handle(s) not joined: %w", n, ErrOutstandingWorkers)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poison != nil {
		return c.value, &PoisonedError{Cause: c.poison}
	}
	return c.value, nil
}

// retain registers a spawned worker handle. Paired with release on the
// handle's first Join.
func (c *Counter) retain() { c.outstanding.Add(1) }

func (c *Counter) release() { c.outstanding.Add(-1) }
