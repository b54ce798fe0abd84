package loop

import (
	"runtime"
	"time"
)

type (
	// IdleStrategy is invoked once per main loop iteration with the
	// aggregated work signal for that iteration. Implementations back off
	// when workDone is false, typically escalating across consecutive idle
	// iterations, and reset when it is true.
	//
	// Strategies are driven by a single goroutine and need not be safe for
	// concurrent use.
	IdleStrategy interface {
		Idle(workDone bool)
	}

	// IdleStrategyFunc implements [IdleStrategy] as a function.
	IdleStrategyFunc func(workDone bool)

	// NoOpIdleStrategy never delays. It is the strategy the shutdown loop
	// drains with.
	NoOpIdleStrategy struct{}

	// YieldingIdleStrategy yields the processor when an iteration
	// performed no work.
	YieldingIdleStrategy struct{}

	// SleepingIdleStrategy sleeps for a fixed interval when an iteration
	// performed no work. An Interval less than or equal to zero defaults
	// to 1ms.
	SleepingIdleStrategy struct {
		Interval time.Duration
	}

	// BackoffIdleStrategy yields for the first MaxYields consecutive idle
	// iterations, then sleeps, doubling the duration from MinSleep up to
	// MaxSleep. Work resets the escalation. The zero value is usable,
	// defaulting to 8 yields, 1us, and 1ms.
	BackoffIdleStrategy struct {
		MaxYields int
		MinSleep  time.Duration
		MaxSleep  time.Duration

		yields int
		sleep  time.Duration
	}
)

const (
	defaultSleepInterval = time.Millisecond
	defaultBackoffYields = 8
	defaultBackoffMin    = time.Microsecond
	defaultBackoffMax    = time.Millisecond
)

func (x IdleStrategyFunc) Idle(workDone bool) { x(workDone) }

func (NoOpIdleStrategy) Idle(bool) {}

func (YieldingIdleStrategy) Idle(workDone bool) {
	if !workDone {
		runtime.Gosched()
	}
}

func (x SleepingIdleStrategy) Idle(workDone bool) {
	if workDone {
		return
	}
	interval := x.Interval
	if interval <= 0 {
		interval = defaultSleepInterval
	}
	time.Sleep(interval)
}

func (x *BackoffIdleStrategy) Idle(workDone bool) {
	if workDone {
		x.yields = 0
		x.sleep = 0
		return
	}
	maxYields := x.MaxYields
	if maxYields <= 0 {
		maxYields = defaultBackoffYields
	}
	if x.yields < maxYields {
		x.yields++
		runtime.Gosched()
		return
	}
	minSleep := x.MinSleep
	if minSleep <= 0 {
		minSleep = defaultBackoffMin
	}
	maxSleep := x.MaxSleep
	if maxSleep <= 0 {
		maxSleep = defaultBackoffMax
	}
	if maxSleep < minSleep {
		maxSleep = minSleep
	}
	switch {
	case x.sleep < minSleep:
		x.sleep = minSleep
	case x.sleep < maxSleep:
		x.sleep *= 2
		if x.sleep > maxSleep {
			x.sleep = maxSleep
		}
	}
	time.Sleep(x.sleep)
}
