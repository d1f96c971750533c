package tally_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallykit/tally"
)

// A worker that panics mid-increment must surface a PanicError at
// join time, and every later increment must surface a PoisonedError
// instead of undercounting silently.
func TestPoisonPropagation(t *testing.T) {
	c, err := tally.NewCounter(0)
	require.NoError(t, err)

	g := tally.NewGroup(context.Background(), c)

	// The counter is poisoned before the panic unwinds the worker,
	// so closing the release channel in a defer is enough to order
	// the victim's increment after the poisoning.
	release := make(chan struct{})
	poisoner, err := g.Go("poisoner", func(_ context.Context, c *tally.Counter) error {
		defer close(release)
		if err := c.Inc(); err != nil {
			return err
		}
		return c.Update(func(int64) int64 { panic("mid-increment fault") })
	})
	require.NoError(t, err)

	victim, err := g.Go("victim", func(_ context.Context, c *tally.Counter) error {
		<-release
		return c.Inc()
	})
	require.NoError(t, err)

	perr := poisoner.Join()
	require.Error(t, perr)
	assert.True(t, tally.IsPanic(perr), "join on the panicking worker reports the panic")

	var pe *tally.PanicError
	require.True(t, errors.As(perr, &pe))
	assert.Equal(t, "mid-increment fault", pe.Value)

	verr := victim.Join()
	require.Error(t, verr)
	assert.True(t, tally.IsPoisoned(verr), "increment after poison reports poisoning")
	assert.False(t, tally.IsPanic(verr), "the victim did not itself panic")

	werr := g.Wait()
	require.Error(t, werr)
	assert.True(t, tally.IsPanic(werr))
	assert.True(t, tally.IsPoisoned(werr))
	assert.Len(t, tally.AllWorkerErrors(werr), 2)

	// The increment that landed before the fault is preserved, and
	// the read makes the poisoning explicit.
	v, err := c.Value()
	assert.True(t, tally.IsPoisoned(err))
	assert.Equal(t, int64(1), v)
}

func TestPoisonAttribution(t *testing.T) {
	c, err := tally.NewCounter(0)
	require.NoError(t, err)

	g := tally.NewGroup(context.Background(), c)
	_, err = g.Go("faulty", func(_ context.Context, c *tally.Counter) error {
		return c.Update(func(int64) int64 { panic("kaboom") })
	})
	require.NoError(t, err)

	werr := g.Wait()
	require.Error(t, werr)

	info, ok := tally.WorkerOf(werr)
	require.True(t, ok)
	assert.Equal(t, "faulty", info.Name)

	// The poisoned read carries the causing panic without becoming
	// a panic kind itself.
	_, verr := c.Value()
	var poisoned *tally.PoisonedError
	require.True(t, errors.As(verr, &poisoned))
	assert.Equal(t, "kaboom", poisoned.Cause.Value)
	assert.True(t, tally.IsPoisoned(verr))
	assert.False(t, tally.IsPanic(verr), "poisoned and panicked stay distinct kinds")
}

func TestPanicOutsideGuardedSectionDoesNotPoison(t *testing.T) {
	c, err := tally.NewCounter(0)
	require.NoError(t, err)

	g := tally.NewGroup(context.Background(), c)
	w, err := g.Go("panicky", func(_ context.Context, c *tally.Counter) error {
		if err := c.Inc(); err != nil {
			return err
		}
		panic("after the lock was released")
	})
	require.NoError(t, err)

	jerr := w.Join()
	require.Error(t, jerr)
	assert.True(t, tally.IsPanic(jerr))

	require.Error(t, g.Wait())

	// The lock was free when the panic happened; the counter stays
	// healthy.
	v, verr := c.Value()
	require.NoError(t, verr)
	assert.Equal(t, int64(1), v)
}
