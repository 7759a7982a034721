package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/andyhorn/debounce/executor"
)

// Debouncer runs a fixed action once per burst of triggers, a fixed delay
// after the last one.
//
// The zero value is not usable; use New.
type Debouncer struct {
	delay time.Duration
	m     *machine[struct{}]

	exMu sync.Mutex
	ex   executor.Executor
}

// New returns a Debouncer calling fn delay after the last Trigger of a burst.
//
// Without WithExecutor the execution context is taken from the context of
// the first TriggerContext call, falling back to executor.Inline.
func New(delay time.Duration, fn func(), opts ...Option) (*Debouncer, error) {
	if fn == nil {
		return nil, ErrNilAction
	}
	if delay < 0 {
		return nil, ErrNegativeDelay
	}

	o := buildOptions(opts)
	return &Debouncer{
		delay: delay,
		m:     newMachine(func(struct{}) { fn() }, o),
		ex:    o.executor,
	}, nil
}

// Trigger restarts the countdown. It never waits for the action.
func (d *Debouncer) Trigger() error {
	return d.TriggerContext(context.Background())
}

// TriggerContext is Trigger with a context that may carry the caller's
// executor (see executor.NewContext). The executor is resolved once, on the
// first trigger, and kept for the Debouncer's lifetime.
func (d *Debouncer) TriggerContext(ctx context.Context) error {
	return d.m.arm(d.delay, d.resolveExecutor(ctx), struct{}{})
}

func (d *Debouncer) resolveExecutor(ctx context.Context) executor.Executor {
	d.exMu.Lock()
	defer d.exMu.Unlock()

	if d.ex == nil {
		d.ex = executor.Resolve(ctx, nil, executor.Inline)
	}
	return d.ex
}

// Cancel drops the pending action, if any, without arming a new one.
// It reports whether an action was pending.
func (d *Debouncer) Cancel() bool {
	return d.m.cancel()
}

// Close cancels the pending action. Trigger fails with ErrClosed afterwards.
func (d *Debouncer) Close() {
	d.m.close()
}

// Pending reports whether an action is waiting for the delay to elapse.
func (d *Debouncer) Pending() bool {
	return d.m.pending()
}

// Delay returns the quiet period set at construction.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
