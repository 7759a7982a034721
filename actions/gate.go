package actions

import "sync"

// contentGate lets a settled burst through only when the watched content
// differs from what the previous burst let through saw.
type contentGate struct {
	fingerprint func() (string, error)

	mu   sync.Mutex
	last string
}

func newContentGate(fingerprint func() (string, error)) *contentGate {
	return &contentGate{fingerprint: fingerprint}
}

// prime records the starting content.
func (g *contentGate) prime() error {
	sum, err := g.fingerprint()
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.last = sum
	g.mu.Unlock()
	return nil
}

// changed reports whether the content moved since the last call that
// returned true. A failed fingerprint counts as a change.
func (g *contentGate) changed() (bool, error) {
	sum, err := g.fingerprint()
	if err != nil {
		return true, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if sum == g.last {
		return false, nil
	}
	g.last = sum
	return true, nil
}
