package tally

import "time"

// EventKind classifies a worker completion event.
type EventKind int

const (
	// EventDone - the worker completed all its increments normally.
	EventDone EventKind = iota

	// EventErrored - the worker returned a non-nil error.
	EventErrored

	// EventPanicked - the worker terminated via panic.
	EventPanicked

	// EventPoisoned - the worker failed because the counter was
	// poisoned by another worker's panic.
	EventPoisoned
)

func (k EventKind) String() string {
	switch k {
	case EventDone:
		return "done"
	case EventErrored:
		return "errored"
	case EventPanicked:
		return "panicked"
	case EventPoisoned:
		return "poisoned"
	default:
		return "unknown"
	}
}

// WorkerEvent describes the completion of a single worker. Events are
// published by every worker onto the group's stream (multi-producer,
// single consumer) when [WithEventBuffer] is set, and the stream is
// closed by [Group.Wait] after the last worker completes.
type WorkerEvent struct {
	Kind    EventKind
	Worker  WorkerInfo
	Err     error
	Elapsed time.Duration
}

func kindOf(err error) EventKind {
	switch {
	case err == nil:
		return EventDone
	case IsPoisoned(err):
		return EventPoisoned
	case IsPanic(err):
		return EventPanicked
	default:
		return EventErrored
	}
}
