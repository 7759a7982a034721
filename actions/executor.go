package actions

import (
	"context"

	"github.com/andyhorn/debounce/config"
	"github.com/andyhorn/debounce/executor"
)

// execContext is a configured execution context with its lifecycle hooks.
// run is nil for executors that need no goroutine of their own.
type execContext struct {
	executor executor.Executor
	run      func(ctx context.Context) error
	close    func()
}

func newExecContext(cfg config.ExecutorConfig) execContext {
	switch cfg.Kind {
	case config.ExecutorInline:
		return execContext{executor: executor.Inline, close: func() {}}
	case config.ExecutorPool:
		pool := executor.NewPool(cfg.Workers)
		return execContext{executor: pool, close: pool.Close}
	default:
		loop := executor.NewLoop()
		return execContext{
			executor: loop.WithPriority(cfg.ParsedPriority()),
			run:      loop.Run,
			close:    loop.Close,
		}
	}
}
