package loop

import (
	"runtime"
	"time"

	"github.com/joeycumines/logiface"
	"golang.org/x/exp/slices"
)

type (
	// Shutdownable is the cooperative shutdown contract implemented by
	// [Runner].
	Shutdownable interface {
		Shutdown()
		ShutdownNow()
		IsShutdown() bool
		IsTerminated() bool
		AwaitTermination(timeout time.Duration) bool
	}

	// Runner owns a dedicated worker thread that repeatedly performs a
	// fixed, ordered step set. The worker runs the main loop until a
	// shutdown is requested, drains remaining work in the shutdown loop,
	// then publishes termination. All Runner methods are safe for
	// concurrent use by any number of goroutines.
	Runner struct {
		state  state
		thread Thread
		main   *Loop
		drain  *Loop
		clock  NanoClock
		logger *logiface.Logger[logiface.Event]
	}
)

// awaitSleepQuantum bounds each sleep in [Runner.AwaitTermination], which
// bounds the worst case wake up latency after termination.
const awaitSleepQuantum = 100 * time.Nanosecond

var _ Shutdownable = (*Runner)(nil)

// Start creates a runner performing steps in order and starts its worker
// thread. Steps run in both the main and shutdown phases; use
// [StartProviders] to control phase participation.
func Start(steps []Step, options ...Option) (*Runner, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	providers := make([]StepProvider, len(steps))
	for i, step := range steps {
		if step == nil {
			return nil, ErrNilStep
		}
		providers[i] = AlwaysProvide(step)
	}
	return StartProviders(providers, options...)
}

// StartProviders creates a runner from step providers and starts its
// worker thread. The main loop runs the steps provided with forShutdown
// false, the shutdown loop those provided with forShutdown true. Providers
// must return a non-nil step for both phases.
func StartProviders(providers []StepProvider, options ...Option) (*Runner, error) {
	cfg, err := resolveOptions(options)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, ErrNoSteps
	}
	providers = slices.Clone(providers)
	for _, provider := range providers {
		if provider == nil {
			return nil, ErrNilStepProvider
		}
	}
	x := &Runner{
		clock:  cfg.clock,
		logger: cfg.logger,
	}
	x.thread = cfg.factory.NewThread(x.run)
	if x.thread == nil {
		return nil, ErrNilThread
	}
	name := x.thread.Name()
	x.main = MainLoop(name, x.mainLoopAgain, cfg.idle, cfg.handler, providers...)
	x.drain = ShutdownLoop(name+`-shutdown`, x.shutdownLoopAgain, cfg.handler, providers...)
	x.logger.Debug().Str(`thread`, name).Log(`loop runner starting`)
	x.thread.Start()
	return x, nil
}

// run is the worker thread body.
func (x *Runner) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	x.logger.Trace().Stringer(`loop`, x.main).Log(`main loop running`)
	x.main.Run()
	x.logger.Trace().Stringer(`loop`, x.drain).Log(`draining`)
	x.drain.Run()
	x.state.markTerminated()
	x.logger.Debug().Str(`thread`, x.thread.Name()).Log(`terminated`)
}

func (x *Runner) mainLoopAgain(bool) bool {
	return x.state.isRunning()
}

func (x *Runner) shutdownLoopAgain(bool) bool {
	return x.state.isDraining()
}

// Shutdown requests a graceful stop: the main loop exits and the shutdown
// loop drains remaining work. Non-blocking and idempotent; it never
// downgrades an immediate stop.
func (x *Runner) Shutdown() {
	x.state.requestShutdown()
}

// ShutdownNow requests an immediate stop, aborting any drain in progress.
// Non-blocking and idempotent; it escalates a prior [Runner.Shutdown].
// Does not preempt a step already in flight.
func (x *Runner) ShutdownNow() {
	x.state.requestShutdownNow()
}

// IsShutdown reports whether a shutdown has been requested.
func (x *Runner) IsShutdown() bool {
	return x.state.isShutdown()
}

// IsTerminated reports whether the worker has exited both loops.
func (x *Runner) IsTerminated() bool {
	return x.state.isTerminated()
}

// AwaitTermination blocks the caller until the worker terminates or the
// timeout elapses, reporting the terminated status on return. Each sleep
// is bounded by a small fixed quantum, and the remaining time is recomputed
// from the configured clock. A timeout less than or equal to zero polls
// without blocking. Must not be called from the worker thread.
func (x *Runner) AwaitTermination(timeout time.Duration) bool {
	if timeout > 0 {
		start := x.clock()
		wait := int64(timeout)
		for !x.IsTerminated() && wait > 0 {
			time.Sleep(time.Duration(min(int64(awaitSleepQuantum), wait)))
			wait = int64(timeout) - (x.clock() - start)
		}
	}
	return x.IsTerminated()
}

// String returns the worker thread name.
func (x *Runner) String() string {
	return x.thread.Name()
}
