package loop

type (
	// Condition is a loop continuation predicate, consulted at the end of
	// each iteration with that iteration's aggregated work signal.
	Condition func(workDone bool) bool

	// Loop drives an ordered step set under a continuation condition, on
	// the goroutine that calls [Loop.Run]. [MainLoop] and [ShutdownLoop]
	// construct the two phases a [Runner] executes back to back.
	Loop struct {
		name      string
		condition Condition
		idle      IdleStrategy
		handler   ErrorHandler
		steps     []Step
	}
)

// MainLoop returns a loop that performs every step each iteration and
// defers to idle with the aggregated work signal. Steps are taken from
// providers with forShutdown false. Panics on nil arguments, an empty
// provider set, or a nil provided step.
func MainLoop(name string, condition Condition, idle IdleStrategy, handler ErrorHandler, providers ...StepProvider) *Loop {
	if idle == nil {
		panic(`loop: nil idle strategy`)
	}
	return newLoop(name, condition, idle, handler, false, providers)
}

// ShutdownLoop returns a draining loop: it never idles, and continues only
// while the last iteration performed work and condition allows it. Steps
// are taken from providers with forShutdown true. Panics on nil arguments,
// an empty provider set, or a nil provided step.
func ShutdownLoop(name string, condition Condition, handler ErrorHandler, providers ...StepProvider) *Loop {
	if condition == nil {
		panic(`loop: nil condition`)
	}
	drain := func(workDone bool) bool { return workDone && condition(workDone) }
	return newLoop(name, drain, NoOpIdleStrategy{}, handler, true, providers)
}

func newLoop(name string, condition Condition, idle IdleStrategy, handler ErrorHandler, forShutdown bool, providers []StepProvider) *Loop {
	if condition == nil {
		panic(`loop: nil condition`)
	}
	if handler == nil {
		panic(`loop: nil error handler`)
	}
	if len(providers) == 0 {
		panic(`loop: at least one step is required`)
	}
	steps := make([]Step, len(providers))
	for i, provider := range providers {
		if provider == nil {
			panic(`loop: nil step provider`)
		}
		step := provider.Provide(forShutdown)
		if step == nil {
			panic(`loop: nil step`)
		}
		steps[i] = step
	}
	return &Loop{
		name:      name,
		condition: condition,
		idle:      idle,
		handler:   handler,
		steps:     steps,
	}
}

// Run executes the loop on the calling goroutine until the condition ends
// it. Each iteration performs every step in order, then invokes the idle
// strategy with the aggregated signal. The condition is consulted after an
// iteration completes, so every step runs at least once.
func (x *Loop) Run() {
	for {
		workDone := false
		for _, step := range x.steps {
			if x.perform(step) {
				workDone = true
			}
		}
		x.idle.Idle(workDone)
		if !x.condition(workDone) {
			return
		}
	}
}

// String returns the loop name.
func (x *Loop) String() string {
	return x.name
}

// perform recovers a panicking step, reporting no work done.
func (x *Loop) perform(step Step) (workDone bool) {
	defer func() {
		if r := recover(); r != nil {
			x.handler.Handle(x, step, PanicError{Value: r})
		}
	}()
	return step.Perform()
}
