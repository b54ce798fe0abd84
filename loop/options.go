package loop

import (
	"github.com/joeycumines/logiface"
)

type (
	// Option configures a [Runner].
	Option interface {
		applyRunner(cfg *runnerConfig) error
	}

	optionFunc func(cfg *runnerConfig) error

	runnerConfig struct {
		idle    IdleStrategy
		handler ErrorHandler
		factory ThreadFactory
		clock   NanoClock
		logger  *logiface.Logger[logiface.Event]
	}
)

func (x optionFunc) applyRunner(cfg *runnerConfig) error { return x(cfg) }

// WithIdleStrategy sets the main loop idle strategy. The default is a zero
// value [BackoffIdleStrategy].
func WithIdleStrategy(strategy IdleStrategy) Option {
	return optionFunc(func(cfg *runnerConfig) error {
		if strategy == nil {
			return ErrNilIdleStrategy
		}
		cfg.idle = strategy
		return nil
	})
}

// WithErrorHandler sets the handler for step failures. The default logs
// through the logger configured by [WithLogger], or through the standard
// logger when none is set.
func WithErrorHandler(handler ErrorHandler) Option {
	return optionFunc(func(cfg *runnerConfig) error {
		if handler == nil {
			return ErrNilErrorHandler
		}
		cfg.handler = handler
		return nil
	})
}

// WithThreadFactory sets the factory for the worker thread. The default
// produces goroutine backed threads named loop-N.
func WithThreadFactory(factory ThreadFactory) Option {
	return optionFunc(func(cfg *runnerConfig) error {
		if factory == nil {
			return ErrNilThreadFactory
		}
		cfg.factory = factory
		return nil
	})
}

// WithNanoClock sets the monotonic clock consumed by
// [Runner.AwaitTermination]. The default counts nanoseconds from process
// start.
func WithNanoClock(clock NanoClock) Option {
	return optionFunc(func(cfg *runnerConfig) error {
		if clock == nil {
			return ErrNilNanoClock
		}
		cfg.clock = clock
		return nil
	})
}

// WithLogger sets the logger for worker lifecycle events, and for step
// failures unless [WithErrorHandler] is also given. A nil logger is
// equivalent to the default (no output).
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return optionFunc(func(cfg *runnerConfig) error {
		cfg.logger = logger
		return nil
	})
}

// resolveOptions applies options to the defaults. Nil options are skipped.
func resolveOptions(options []Option) (*runnerConfig, error) {
	cfg := &runnerConfig{}
	for _, o := range options {
		if o == nil {
			continue
		}
		if err := o.applyRunner(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.idle == nil {
		cfg.idle = new(BackoffIdleStrategy)
	}
	if cfg.handler == nil {
		if cfg.logger != nil {
			cfg.handler = LoggingErrorHandler(cfg.logger)
		} else {
			cfg.handler = defaultErrorHandler
		}
	}
	if cfg.factory == nil {
		cfg.factory = defaultThreadFactory
	}
	if cfg.clock == nil {
		cfg.clock = nanotime
	}
	return cfg, nil
}
