package executor

import (
	"sync"
)

// Pool runs posted closures on goroutines, at most maxWorkers at a time.
// Post does not wait for a free worker.
type Pool struct {
	maxWorkers int
	sem        chan struct{}
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewPool(maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Pool{
		maxWorkers: maxWorkers,
		sem:        make(chan struct{}, maxWorkers),
	}
}

func (p *Pool) Post(fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		fn()
	}()
	return nil
}

func (p *Pool) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	return nil
}

// Close rejects further work and waits for posted work to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
}
