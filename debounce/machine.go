package debounce

import (
	"sync"
	"time"

	"github.com/andyhorn/debounce/executor"
	"github.com/andyhorn/debounce/logger"

	"github.com/pkg/errors"
	"k8s.io/utils/clock"
)

// machine is the IDLE/PENDING state machine shared by every variant.
// timer != nil means PENDING. gen identifies the armed timer; an expiry whose
// captured gen no longer matches has been superseded or cancelled.
type machine[T any] struct {
	clock  clock.WithDelayedExecution
	log    logger.Logger
	action func(T)

	mu     sync.Mutex
	gen    uint64
	timer  clock.Timer
	closed bool
}

func newMachine[T any](action func(T), o *options) *machine[T] {
	return &machine[T]{
		clock:  o.clock,
		log:    o.log,
		action: action,
	}
}

func (m *machine[T]) arm(delay time.Duration, ex executor.Executor, arg T) error {
	if delay < 0 {
		return ErrNegativeDelay
	}
	if err := ex.Err(); err != nil {
		return errors.Wrap(err, "debounce: executor unavailable")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.timer != nil {
		m.timer.Stop()
		m.log.Debug("superseded", logger.Uint64("generation", m.gen))
	}

	m.gen++
	gen := m.gen
	m.timer = m.clock.AfterFunc(delay, func() {
		m.expire(gen, ex, arg)
	})

	m.log.Debug("armed", logger.Uint64("generation", gen), logger.Duration("delay", delay))
	return nil
}

// expire runs on the timer goroutine. The generation check happens on the
// executor so a trigger that lands while the callback is queued still wins.
func (m *machine[T]) expire(gen uint64, ex executor.Executor, arg T) {
	err := ex.Post(func() {
		if m.settle(gen) {
			m.action(arg)
		}
	})
	if err == nil {
		return
	}

	m.mu.Lock()
	if m.gen == gen {
		m.timer = nil
	}
	m.mu.Unlock()

	m.log.Warn("dropped burst", logger.Uint64("generation", gen), logger.Err(err))
}

func (m *machine[T]) settle(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen || m.timer == nil {
		m.log.Debug("discarded stale expiry", logger.Uint64("generation", gen))
		return false
	}

	m.timer = nil
	m.log.Debug("settled", logger.Uint64("generation", gen))
	return true
}

func (m *machine[T]) cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cancelLocked()
}

func (m *machine[T]) cancelLocked() bool {
	if m.timer == nil {
		return false
	}

	m.timer.Stop()
	m.timer = nil
	m.gen++

	m.log.Debug("cancelled", logger.Uint64("generation", m.gen-1))
	return true
}

func (m *machine[T]) close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked()
	m.closed = true
}

func (m *machine[T]) pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.timer != nil
}
