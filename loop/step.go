package loop

type (
	// Step is a unit of work invoked repeatedly by a [Loop]. Perform
	// returns true if at least some work was performed, and false if there
	// was no work to do. A panicking step is recovered by the loop and
	// routed to its [ErrorHandler].
	//
	// Steps are invoked from the single worker goroutine only, never
	// concurrently with themselves or each other.
	Step interface {
		Perform() bool
	}

	// StepFunc implements [Step] as a function.
	StepFunc func() bool

	// StepProvider supplies the step a loop phase runs. The main loop is
	// built with forShutdown false, the shutdown loop with forShutdown
	// true. Providers must return a non-nil step for both phases.
	StepProvider interface {
		Provide(forShutdown bool) Step
	}

	// StepProviderFunc implements [StepProvider] as a function.
	StepProviderFunc func(forShutdown bool) Step
)

// NoOpStep performs nothing and reports no work.
var NoOpStep Step = StepFunc(func() bool { return false })

func (x StepFunc) Perform() bool { return x() }

func (x StepProviderFunc) Provide(forShutdown bool) Step { return x(forShutdown) }

// AlwaysProvide returns a provider that supplies step to both loop phases.
// Panics if step is nil.
func AlwaysProvide(step Step) StepProvider {
	if step == nil {
		panic(`loop: nil step`)
	}
	return StepProviderFunc(func(bool) Step { return step })
}

// SilenceDuringShutdown returns a provider that supplies step to the main
// loop and [NoOpStep] to the shutdown loop, excluding the step from the
// drain. Panics if step is nil.
func SilenceDuringShutdown(step Step) StepProvider {
	if step == nil {
		panic(`loop: nil step`)
	}
	return StepProviderFunc(func(forShutdown bool) Step {
		if forShutdown {
			return NoOpStep
		}
		return step
	})
}
