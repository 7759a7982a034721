package debounce

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyhorn/debounce/executor"

	"k8s.io/utils/clock"
	testingclock "k8s.io/utils/clock/testing"
)

// manualClock hands out timers that never run their callback by themselves.
// Tests call the captured callbacks directly to replay expiries in any order,
// including after the timer was stopped.
type manualClock struct {
	*testingclock.FakeClock

	mu  sync.Mutex
	fns []func()
}

func newManualClock() *manualClock {
	return &manualClock{FakeClock: testingclock.NewFakeClock(time.Unix(0, 0))}
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	c.fns = append(c.fns, f)
	c.mu.Unlock()

	return c.FakeClock.NewTimer(d)
}

func (c *manualClock) expiry(i int) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fns[i]
}

func (c *manualClock) armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.fns)
}

// recordingExecutor runs closures inline and counts them.
type recordingExecutor struct {
	posts atomic.Int32
	err   error
}

func (r *recordingExecutor) Post(fn func()) error {
	if r.err != nil {
		return r.err
	}
	r.posts.Add(1)
	fn()
	return nil
}

func (r *recordingExecutor) Err() error {
	return r.err
}

var _ executor.Executor = (*recordingExecutor)(nil)

// recorder collects action calls together with the time they happened.
type recorder[T any] struct {
	start time.Time

	mu    sync.Mutex
	args  []T
	times []time.Duration
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{start: time.Now()}
}

func (r *recorder[T]) record(arg T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.args = append(r.args, arg)
	r.times = append(r.times, time.Since(r.start))
}

func (r *recorder[T]) calls() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]T(nil), r.args...)
}

func (r *recorder[T]) at() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]time.Duration(nil), r.times...)
}
