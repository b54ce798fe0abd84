package loop

import (
	"errors"
)

var (
	// ErrNoSteps is returned by [Start] and [StartProviders] when given an
	// empty step or provider set.
	ErrNoSteps = errors.New(`loop: at least one step is required`)

	// ErrNilStep is returned by [Start] when given a nil step.
	ErrNilStep = errors.New(`loop: nil step`)

	// ErrNilStepProvider is returned by [StartProviders] when given a nil
	// provider.
	ErrNilStepProvider = errors.New(`loop: nil step provider`)

	// ErrNilIdleStrategy is returned when [WithIdleStrategy] is given nil.
	ErrNilIdleStrategy = errors.New(`loop: nil idle strategy`)

	// ErrNilErrorHandler is returned when [WithErrorHandler] is given nil.
	ErrNilErrorHandler = errors.New(`loop: nil error handler`)

	// ErrNilThreadFactory is returned when [WithThreadFactory] is given nil.
	ErrNilThreadFactory = errors.New(`loop: nil thread factory`)

	// ErrNilNanoClock is returned when [WithNanoClock] is given nil.
	ErrNilNanoClock = errors.New(`loop: nil nano clock`)

	// ErrNilThread is returned when a [ThreadFactory] returns a nil thread.
	ErrNilThread = errors.New(`loop: thread factory returned a nil thread`)
)
