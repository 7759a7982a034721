package actions

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyhorn/debounce/debounce"
	"github.com/andyhorn/debounce/executor"
	"github.com/andyhorn/debounce/logger"
	"github.com/andyhorn/debounce/models"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type line struct {
	seq  int64
	text string
}

// LinesAction copies input to output, keeping only the last line of every
// burst of lines.
type LinesAction struct {
	delay time.Duration
	log   logger.Logger
}

func NewLinesAction(delay time.Duration, log logger.Logger) *LinesAction {
	return &LinesAction{
		delay: delay,
		log:   log,
	}
}

// Execute reads in until EOF or ctx is done. At EOF it waits for the final
// burst to settle before returning.
func (a *LinesAction) Execute(ctx context.Context, in io.Reader, out io.Writer) (*models.Result, error) {
	rec := newRecorder()
	loop := executor.NewLoop()

	var emitted, final atomic.Int64
	final.Store(-1)
	settled := make(chan struct{})
	var settleOnce sync.Once
	var writeErr error

	emit := func(l line) {
		start := time.Now()
		_, err := fmt.Fprintln(out, l.text)
		if err != nil && writeErr == nil {
			writeErr = errors.Wrap(err, "failed to write line")
		}
		rec.run(models.Run{Trigger: l.text, Error: err, Duration: time.Since(start)})

		emitted.Store(l.seq)
		if l.seq == final.Load() {
			settleOnce.Do(func() { close(settled) })
		}
	}

	lines, err := debounce.NewParam(emit,
		debounce.WithExecutor(loop),
		debounce.WithLogger(a.log),
		debounce.WithName("lines"),
	)
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.Go(func() error {
		return loop.Run(context.Background())
	})

	readErr := a.read(ctx, in, func(l line) error {
		rec.trigger()
		return lines.Trigger(ctx, l, a.delay)
	}, &final)

	if readErr == nil && final.Load() > 0 && emitted.Load() != final.Load() {
		select {
		case <-settled:
		case <-ctx.Done():
		}
	}

	lines.Close()
	loop.Close()
	if err = g.Wait(); err != nil {
		return nil, err
	}

	if readErr != nil && !errors.Is(readErr, context.Canceled) {
		return nil, readErr
	}
	if writeErr != nil {
		return nil, writeErr
	}
	return rec.finish(), nil
}

// read feeds lines to trigger until EOF, then stores the last sequence number
// in final. Scanning happens on its own goroutine so ctx can interrupt a
// blocked read.
func (a *LinesAction) read(ctx context.Context, in io.Reader, trigger func(line) error, final *atomic.Int64) error {
	scanned := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case scanned <- scanner.Text():
			case <-ctx.Done():
				scanErr <- ctx.Err()
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	var seq int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text := <-scanned:
			seq++
			if err := trigger(line{seq: seq, text: text}); err != nil {
				return err
			}
		case err := <-scanErr:
			if err != nil {
				return errors.Wrap(err, "failed to read input")
			}
			final.Store(seq)
			a.log.Debug("input closed", logger.Int("lines", int(seq)))
			return nil
		}
	}
}
