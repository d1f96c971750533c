package tally

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Group coordinates worker fan-out and join against a single shared
// [Counter]. Workers are launched with [Group.Spawn] (the standard
// acquire-increment-release loop) or [Group.Go] (a custom body) and
// run on their own goroutines immediately, without blocking the
// caller.
//
// [Group.Wait] joins every spawned worker and aggregates their
// failures; after Wait returns, [Counter.Value] yields the final
// total. Individual handles can also be joined directly, in any order.
type Group struct {
	ctx     context.Context
	counter *Counter
	cfg     config
	sem     *semaphore.Weighted

	// mu guards workers and closed. Spawning registers the handle
	// and increments wg in one critical section, so Wait either
	// joins a worker or refuses it, never loses it.
	mu      sync.Mutex
	workers []*Worker
	closed  bool

	wg sync.WaitGroup

	events chan WorkerEvent

	// Observability counters.
	spawned   atomic.Int64
	active    atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64

	waitOnce sync.Once
	waitErr  error
}

// GroupStats provides a point-in-time snapshot of group activity.
type GroupStats struct {
	Spawned     int64 // workers launched
	Active      int64 // workers currently executing
	Completed   int64 // workers finished (success + failure)
	Panicked    int64 // workers that terminated via panic
	Outstanding int64 // handles spawned but not yet joined
}

// NewGroup creates a group of workers sharing c. The context gates
// semaphore waits when [WithLimit] is set; running increment loops are
// not cancelled and always run to completion.
//
// NewGroup panics if c is nil.
func NewGroup(ctx context.Context, c *Counter, opts ...Option) *Group {
	if c == nil {
		panic("tally: NewGroup requires a non-nil counter")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Group{
		ctx:     ctx,
		counter: c,
		cfg:     cfg,
	}
	if cfg.limit > 0 {
		g.sem = semaphore.NewWeighted(int64(cfg.limit))
	}
	if cfg.eventBuffer > 0 {
		g.events = make(chan WorkerEvent, cfg.eventBuffer)
	}
	return g
}

// Spawn launches a worker that performs increments sequential
// acquire-increment-release cycles on the shared counter, stopping
// early only if the counter is poisoned. It returns the worker's
// handle without blocking.
//
// Spawn fails with [ErrInvalidArgument] if increments is negative,
// before any goroutine starts, and with [ErrGroupClosed] after
// [Group.Wait] has been called.
func (g *Group) Spawn(name string, increments int64) (*Worker, error) {
	if increments < 0 {
		return nil, fmt.Errorf("tally: increments must be non-negative, got %d: %w", increments, ErrInvalidArgument)
	}

	return g.launch(name, increments, func(_ context.Context, c *Counter) error {
		for n := int64(0); n < increments; n++ {
			if err := c.Inc(); err != nil {
				return err
			}
		}
		return nil
	})
}

// Go launches a worker with a custom body. The body receives the
// group's context and the shared counter; fault-injecting workers for
// conformance testing are built this way.
//
// Go panics if fn is nil and fails with [ErrGroupClosed] after
// [Group.Wait] has been called.
func (g *Group) Go(name string, fn WorkerFunc) (*Worker, error) {
	if fn == nil {
		panic("tally: Go requires a non-nil worker func")
	}
	return g.launch(name, 0, fn)
}

func (g *Group) launch(name string, increments int64, fn WorkerFunc) (*Worker, error) {
	w := &Worker{
		info: WorkerInfo{
			ID:         uuid.New(),
			Name:       name,
			Increments: increments,
		},
		counter: g.counter,
		done:    make(chan struct{}),
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil, ErrGroupClosed
	}
	g.counter.retain()
	g.workers = append(g.workers, w)
	g.wg.Add(1)
	g.mu.Unlock()

	g.spawned.Add(1)

	go func() {
		defer g.wg.Done()
		defer close(w.done)

		if g.sem != nil {
			if err := g.sem.Acquire(g.ctx, 1); err != nil {
				// Context cancelled while waiting for a slot; the
				// worker never ran. Recorded, never swallowed.
				w.err = &WorkerError{Worker: w.info, Err: err}
				g.completed.Add(1)
				g.emit(w.info, err, 0)
				return
			}
			defer g.sem.Release(1)
		}

		if g.cfg.onStart != nil {
			g.cfg.onStart(w.info)
		}

		g.active.Add(1)
		start := time.Now()
		err := g.exec(fn)
		elapsed := time.Since(start)
		g.active.Add(-1)
		g.completed.Add(1)

		if err != nil {
			w.err = &WorkerError{Worker: w.info, Err: err}
		}

		if g.cfg.onDone != nil {
			g.cfg.onDone(w.info, err, elapsed)
		}
		g.emit(w.info, err, elapsed)
	}()

	return w, nil
}

// exec runs a worker body with panic recovery.
func (g *Group) exec(fn WorkerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.panicked.Add(1)
			err = asPanicError(r)
		}
	}()
	return fn(g.ctx, g.counter)
}

func (g *Group) emit(info WorkerInfo, err error, d time.Duration) {
	if g.events == nil {
		return
	}
	g.events <- WorkerEvent{
		Kind:    kindOf(err),
		Worker:  info,
		Err:     err,
		Elapsed: d,
	}
}

// Events returns the completion event stream, or nil if
// [WithEventBuffer] was not set. The stream is closed by [Group.Wait]
// after the last worker completes.
func (g *Group) Events() <-chan WorkerEvent {
	return g.events
}

// Wait closes the group to new workers, joins every spawned worker in
// spawn order, and returns their failures combined via [errors.Join]
// (nil if all succeeded). Each failure is a [*WorkerError]; inspect
// with [IsPanic], [IsPoisoned], [WorkerOf], and [AllWorkerErrors].
//
// Wait is idempotent; subsequent calls return the same result. After
// Wait, [Counter.Value] returns the final total.
func (g *Group) Wait() error {
	g.waitOnce.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()
		g.wg.Wait()

		if g.events != nil {
			close(g.events)
		}

		g.mu.Lock()
		workers := g.workers
		g.mu.Unlock()

		var errs []error
		for _, w := range workers {
			if err := w.Join(); err != nil {
				errs = append(errs, err)
			}
		}
		g.waitErr = errors.Join(errs...)
	})

	return g.waitErr
}

// Value reports the shared counter's total. Like [Counter.Value], it
// is valid only after every handle has been joined.
func (g *Group) Value() (int64, error) {
	return g.counter.Value()
}

// Stats returns a point-in-time snapshot of group activity.
// Safe to call concurrently.
func (g *Group) Stats() GroupStats {
	return GroupStats{
		Spawned:     g.spawned.Load(),
		Active:      g.active.Load(),
		Completed:   g.completed.Load(),
		Panicked:    g.panicked.Load(),
		Outstanding: g.counter.outstanding.Load(),
	}
}
