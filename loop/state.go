package loop

import (
	"sync/atomic"
)

// Lifecycle bit flags. The zero state is running. Flags are only ever
// added, so the state moves forward through
// running -> shutdown (graceful or immediate) -> terminated
// and never backward.
const (
	stateShutdownRequested uint32 = 1 << iota
	stateShutdownImmediate
	stateTerminated
)

// state is the lock-free lifecycle state machine shared by the worker
// goroutine, shutdown requesters, and termination waiters. All mutation is
// compare-and-swap on a single word, at most two attempts per operation,
// with no retry loops and no locks.
type state struct {
	v atomic.Uint32
}

func (x *state) load() uint32 {
	return x.v.Load()
}

// requestShutdown moves running to graceful shutdown. A failed swap means a
// shutdown variant is already set, possibly immediate, which must not be
// downgraded.
func (x *state) requestShutdown() {
	x.v.CompareAndSwap(0, stateShutdownRequested)
}

// requestShutdownNow moves running directly to immediate shutdown, or
// escalates an exact graceful shutdown. Once the state carries the
// immediate or terminated flag neither swap applies, leaving it unchanged:
// termination supersedes escalation.
func (x *state) requestShutdownNow() {
	if !x.v.CompareAndSwap(0, stateShutdownRequested|stateShutdownImmediate) {
		x.v.CompareAndSwap(stateShutdownRequested, stateShutdownRequested|stateShutdownImmediate)
	}
}

// markTerminated adds the terminated flag to whichever shutdown variant is
// set. Only the worker calls this, once, after both loops have exited, at
// which point a shutdown variant is guaranteed visible (the main loop
// observed it to exit), so exactly one of the two swaps succeeds.
func (x *state) markTerminated() {
	if !x.v.CompareAndSwap(stateShutdownRequested, stateShutdownRequested|stateTerminated) {
		x.v.CompareAndSwap(
			stateShutdownRequested|stateShutdownImmediate,
			stateShutdownRequested|stateShutdownImmediate|stateTerminated,
		)
	}
}

func (x *state) isShutdown() bool {
	return x.load()&stateShutdownRequested != 0
}

func (x *state) isTerminated() bool {
	return x.load()&stateTerminated != 0
}

// isRunning is the main loop continuation predicate.
func (x *state) isRunning() bool {
	return x.load()&stateShutdownRequested == 0
}

// isDraining is the shutdown loop continuation predicate.
func (x *state) isDraining() bool {
	return x.load()&stateShutdownImmediate == 0
}
