package executor

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Priority orders work queued on a Loop. Higher priorities drain first.
type Priority int

const (
	Idle Priority = iota
	Background
	Normal
	High
)

const numPriorities = int(High) + 1

func (p Priority) String() string {
	switch p {
	case Idle:
		return "idle"
	case Background:
		return "background"
	case Normal:
		return "normal"
	case High:
		return "high"
	}
	return "unknown"
}

// ParsePriority maps a config value onto a Priority. An empty string is Idle.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "idle":
		return Idle, nil
	case "background":
		return Background, nil
	case "normal":
		return Normal, nil
	case "high":
		return High, nil
	}
	return Idle, errors.Errorf("unknown priority %q", s)
}

// Loop is a single-goroutine execution context. Everything posted to it runs
// sequentially on the goroutine that calls Run, which makes it the analogue of
// a UI thread.
type Loop struct {
	mu      sync.Mutex
	queues  [numPriorities][]func()
	closed  bool
	running bool
	wake    chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Post queues fn at Normal priority.
func (l *Loop) Post(fn func()) error {
	return l.post(Normal, fn)
}

func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	return nil
}

// WithPriority returns an Executor that queues onto l at p.
func (l *Loop) WithPriority(p Priority) Executor {
	if p < Idle || p > High {
		p = Normal
	}
	return &prioritized{loop: l, priority: p}
}

func (l *Loop) post(p Priority, fn func()) error {
	if fn == nil {
		return errors.New("nil task")
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.queues[p] = append(l.queues[p], fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run executes queued work until ctx is done or Close is called. After Close,
// work queued before the call is drained before Run returns. Panics raised by
// tasks are not recovered.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return errors.New("loop already running")
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	for {
		fn, closed := l.next()
		if fn != nil {
			fn()
			continue
		}
		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting work and wakes Run so it can drain and return.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Len reports how many tasks are queued.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, q := range l.queues {
		n += len(q)
	}
	return n
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for p := numPriorities - 1; p >= 0; p-- {
		q := l.queues[p]
		if len(q) == 0 {
			continue
		}
		fn := q[0]
		q[0] = nil
		l.queues[p] = q[1:]
		return fn, l.closed
	}
	return nil, l.closed
}

type prioritized struct {
	loop     *Loop
	priority Priority
}

func (p *prioritized) Post(fn func()) error {
	return p.loop.post(p.priority, fn)
}

func (p *prioritized) Err() error {
	return p.loop.Err()
}
