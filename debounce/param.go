package debounce

import (
	"context"
	"time"

	"github.com/andyhorn/debounce/executor"
)

// Param debounces an action that takes an argument. Each trigger supplies
// the argument, the delay and optionally the executor; the last trigger of a
// burst decides all three.
type Param[T any] struct {
	m  *machine[T]
	ex executor.Executor
}

// NewParam returns a Param calling fn with the last argument of each burst.
// WithExecutor sets the executor used when neither the call nor its context
// names one.
func NewParam[T any](fn func(T), opts ...Option) (*Param[T], error) {
	if fn == nil {
		return nil, ErrNilAction
	}

	o := buildOptions(opts)
	return &Param[T]{
		m:  newMachine(fn, o),
		ex: o.executor,
	}, nil
}

// Trigger restarts the countdown with delay and records arg for the action.
// The executor is On(ex) if given, else the one carried by ctx, else the
// construction default, else executor.Inline.
func (p *Param[T]) Trigger(ctx context.Context, arg T, delay time.Duration, opts ...CallOption) error {
	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}

	ex := executor.Resolve(ctx, call.executor, p.ex)
	return p.m.arm(delay, ex, arg)
}

// Cancel drops the pending action, if any. It reports whether one was pending.
func (p *Param[T]) Cancel() bool {
	return p.m.cancel()
}

// Close cancels the pending action. Trigger fails with ErrClosed afterwards.
func (p *Param[T]) Close() {
	p.m.close()
}

// Pending reports whether an action is waiting for the delay to elapse.
func (p *Param[T]) Pending() bool {
	return p.m.pending()
}
