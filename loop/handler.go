package loop

import (
	"fmt"
	"log"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

type (
	// ErrorHandler receives failures raised by steps. Handle is invoked on
	// the worker goroutine and must return normally: a panicking handler
	// is fatal to the worker.
	ErrorHandler interface {
		Handle(loop *Loop, step Step, err error)
	}

	// ErrorHandlerFunc implements [ErrorHandler] as a function.
	ErrorHandlerFunc func(loop *Loop, step Step, err error)

	// PanicError wraps a value recovered from a panicking step.
	PanicError struct {
		Value any
	}

	rateLimitedHandler struct {
		limiter *catrate.Limiter
		next    ErrorHandler
	}

	handlerCategory struct {
		Loop string
		Step string
	}
)

func (x ErrorHandlerFunc) Handle(loop *Loop, step Step, err error) { x(loop, step, err) }

func (x PanicError) Error() string {
	return fmt.Sprintf(`loop: step panicked: %v`, x.Value)
}

// Unwrap returns the panic value if it was an error.
func (x PanicError) Unwrap() error {
	if err, ok := x.Value.(error); ok {
		return err
	}
	return nil
}

// LoggingErrorHandler returns a handler that logs failures at the error
// level. A nil logger disables output.
func LoggingErrorHandler(logger *logiface.Logger[logiface.Event]) ErrorHandler {
	return ErrorHandlerFunc(func(loop *Loop, step Step, err error) {
		logger.Err().
			Err(err).
			Stringer(`loop`, loop).
			Str(`step`, stepLabel(step)).
			Log(`step failed`)
	})
}

// RateLimitedErrorHandler returns a handler that delegates to next, rate
// limited per (loop, step) category with the given sliding windows.
// Suppressed failures are dropped. Rates follow [catrate.NewLimiter],
// which panics on invalid configuration. Panics if next is nil.
//
// This bounds the cost of a persistently failing step, which would
// otherwise invoke next on every loop iteration.
func RateLimitedErrorHandler(rates map[time.Duration]int, next ErrorHandler) ErrorHandler {
	if next == nil {
		panic(`loop: nil error handler`)
	}
	return &rateLimitedHandler{
		limiter: catrate.NewLimiter(rates),
		next:    next,
	}
}

func (x *rateLimitedHandler) Handle(loop *Loop, step Step, err error) {
	if _, ok := x.limiter.Allow(handlerCategory{loop.String(), stepLabel(step)}); ok {
		x.next.Handle(loop, step, err)
	}
}

// defaultErrorHandler is used when neither [WithErrorHandler] nor
// [WithLogger] is configured.
var defaultErrorHandler ErrorHandler = ErrorHandlerFunc(func(loop *Loop, step Step, err error) {
	log.Printf(`ERROR: %s: step %s: %v`, loop, stepLabel(step), err)
})

// stepLabel names a step for diagnostics, preferring [fmt.Stringer].
func stepLabel(step Step) string {
	if s, ok := step.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf(`%T`, step)
}
