// Package tally provides a mutex-protected shared counter under
// concurrent increment, with worker fan-out and join synchronization.
//
// The core contract: N workers each performing K guarded increments
// against a [Counter] seeded with start always leave the counter at
// start + N*K once every worker has been joined, regardless of
// scheduling order. Mutual exclusion around the read-modify-write
// cycle makes the increments linearizable; only the aggregate is
// guaranteed, never the order in which workers land their increments.
//
// # Fan-Out and Join
//
// A [Group] launches workers against a shared counter and joins them:
//
//	c, err := tally.NewCounter(0)
//	g := tally.NewGroup(ctx, c)
//	for i := range 10 {
//	    g.Spawn(fmt.Sprintf("worker-%d", i), 100)
//	}
//	err = g.Wait()
//	total, err := c.Value() // 1000
//
// Handles returned by [Group.Spawn] and [Group.Go] can also be joined
// individually via [Worker.Join], in any order. [Run] wraps the whole
// cycle in a single call.
//
// # Join Before Read
//
// [Counter.Value] fails with [ErrOutstandingWorkers] until every
// spawned handle has been joined. A handle that is never joined is a
// leak, and the counter stays unreadable so the defect surfaces
// instead of racing the read.
//
// # Poisoning
//
// A panic inside the guarded section marks the counter poisoned before
// the lock is released. The panicking worker reports a [*PanicError]
// at join time; every later [Counter.Inc] or [Counter.Update] fails
// with [*PoisonedError] rather than hanging or silently proceeding on
// undefined state. Nothing is recovered internally; remediation is the
// caller's decision.
//
// # Errors
//
// Failures surfaced by [Worker.Join] and [Group.Wait] are wrapped in
// [*WorkerError] for attribution and combined via errors.Join. Inspect
// them with [IsPanic], [IsPoisoned], [WorkerOf], [CauseOf], and
// [AllWorkerErrors]. Invalid arguments (negative start or increment
// counts) are rejected synchronously with [ErrInvalidArgument] before
// any goroutine starts.
//
// # Bounded Fan-Out
//
// [WithLimit] caps the number of workers executing concurrently;
// workers past the limit wait for a semaphore slot, respecting the
// group's context while waiting. Running increment loops are never
// cancelled and always run to completion.
//
// # Observability
//
// [WithOnStart] and [WithOnDone] register per-worker lifecycle hooks.
// [WithEventBuffer] enables a multi-producer completion stream of
// [WorkerEvent] values, read via [Group.Events] and closed by
// [Group.Wait]. [Group.Stats] snapshots spawned, active, completed,
// panicked, and outstanding counters.
package tally
