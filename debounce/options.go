package debounce

import (
	"github.com/andyhorn/debounce/executor"
	"github.com/andyhorn/debounce/logger"

	"k8s.io/utils/clock"
)

type options struct {
	executor executor.Executor
	clock    clock.WithDelayedExecution
	log      logger.Logger
	name     string
}

// Option configures a Debouncer or Param at construction.
type Option func(*options)

// WithExecutor fixes the execution context the action runs on.
func WithExecutor(ex executor.Executor) Option {
	return func(o *options) {
		o.executor = ex
	}
}

// WithClock replaces the timer facility, which defaults to the wall clock.
func WithClock(c clock.WithDelayedExecution) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger receives state transitions at debug level.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithName tags log lines with a target field.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.clock == nil {
		o.clock = clock.RealClock{}
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	if o.name != "" {
		o.log = o.log.WithPrefix(o.name)
	}
	return o
}

type callOptions struct {
	executor executor.Executor
}

// CallOption configures a single Param.Trigger call.
type CallOption func(*callOptions)

// On runs the action of this trigger's burst on ex.
func On(ex executor.Executor) CallOption {
	return func(c *callOptions) {
		c.executor = ex
	}
}
