// Package executor provides the execution contexts debounced actions run on.
package executor

import (
	"context"

	"github.com/pkg/errors"
)

// ErrClosed is returned by executors that have been shut down.
var ErrClosed = errors.New("executor closed")

// Executor runs closures on some execution context: a goroutine, an event
// loop, a worker pool.
type Executor interface {
	// Post schedules fn. It must not wait for fn to complete.
	Post(fn func()) error
	// Err reports why the executor can no longer accept work, or nil.
	Err() error
}

type inline struct{}

func (inline) Post(fn func()) error {
	fn()
	return nil
}

func (inline) Err() error { return nil }

// Inline runs every closure synchronously on the goroutine that posts it.
// For a debouncer that is the timer goroutine.
var Inline Executor = inline{}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying ex as the caller's current
// executor.
func NewContext(ctx context.Context, ex Executor) context.Context {
	return context.WithValue(ctx, ctxKey{}, ex)
}

// FromContext returns the executor stored in ctx by NewContext.
func FromContext(ctx context.Context) (Executor, bool) {
	if ctx == nil {
		return nil, false
	}
	ex, ok := ctx.Value(ctxKey{}).(Executor)
	return ex, ok && ex != nil
}

// Resolve picks the first non-nil executor in order: explicit, the one in ctx,
// then fallback.
func Resolve(ctx context.Context, explicit Executor, fallback Executor) Executor {
	if explicit != nil {
		return explicit
	}
	if ex, ok := FromContext(ctx); ok {
		return ex
	}
	if fallback != nil {
		return fallback
	}
	return Inline
}
