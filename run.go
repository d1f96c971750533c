package tally

import (
	"context"
	"fmt"
)

// Run drives a full fan-out/join cycle in one call: it creates a
// counter seeded with start, launches the given number of workers,
// each performing the given number of guarded increments, joins them
// all, and returns the final total.
//
//	total, err := tally.Run(ctx, 0, 10, 100, tally.WithLimit(4))
//	// total == 1000
//
// Run fails with [ErrInvalidArgument] (wrapped) if start, workers, or
// increments is negative, before any goroutine starts. If any worker
// fails, Run returns the aggregated error from [Group.Wait].
func Run(ctx context.Context, start, workers, increments int64, opts ...Option) (int64, error) {
	if workers < 0 {
		return 0, fmt.Errorf("tally: workers must be non-negative, got %d: %w", workers, ErrInvalidArgument)
	}

	c, err := NewCounter(start)
	if err != nil {
		return 0, err
	}

	g := NewGroup(ctx, c, opts...)
	for i := int64(0); i < workers; i++ {
		if _, err := g.Spawn(fmt.Sprintf("worker-%d", i), increments); err != nil {
			// Join what already started before surfacing the
			// spawn failure.
			_ = g.Wait()
			return 0, err
		}
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return c.Value()
}
