package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyhorn/debounce/debounce"
	"github.com/andyhorn/debounce/executor"
	"github.com/andyhorn/debounce/hashing"
	"github.com/andyhorn/debounce/logger"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
}

type Options struct {
	Paths  []string
	Ignore []string
	// Delay is the quiet period before OnChange runs. Zero runs it on the
	// next timer tick.
	Delay time.Duration
	// Executor runs the OnChange callback. Nil runs it on the timer goroutine.
	Executor executor.Executor
	Log      logger.Logger
}

// Watcher reports filesystem changes under a set of roots, once per burst of
// events, with the path of the last event in the burst.
type Watcher struct {
	roots  []string
	ignore []string
	delay  time.Duration
	log    logger.Logger

	fsw     *fsnotify.Watcher
	changes *debounce.Param[string]
	events  atomic.Int64

	mu       sync.Mutex
	onChange func(path string)
}

func NewWatcher(opts Options) (*Watcher, error) {
	if len(opts.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}

	roots := make([]string, 0, len(opts.Paths))
	for _, p := range opts.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		roots = append(roots, abs)
	}

	if opts.Delay < 0 {
		return nil, debounce.ErrNegativeDelay
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	w := &Watcher{
		roots:  roots,
		ignore: opts.Ignore,
		delay:  opts.Delay,
		log:    opts.Log,
		fsw:    fsw,
	}

	w.changes, err = debounce.NewParam(w.emit,
		debounce.WithExecutor(opts.Executor),
		debounce.WithLogger(opts.Log),
	)
	if err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

func (w *Watcher) emit(path string) {
	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()

	if fn != nil {
		fn(path)
	}
}

// Start watches until ctx is done. A change still settling when ctx ends is
// dropped.
func (w *Watcher) Start(ctx context.Context) error {
	for _, root := range w.roots {
		if err := w.addRecursive(root); err != nil {
			return errors.Wrapf(err, "failed to watch path %s", root)
		}
	}
	defer w.changes.Close()

	w.log.Debug("watching", logger.Int("roots", len(w.roots)), logger.Duration("delay", w.delay))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				w.log.Warn("watch error", logger.Err(err))
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			if err = w.addRecursive(event.Name); err != nil {
				w.log.Warn("failed to watch new directory", logger.String("path", event.Name), logger.Err(err))
			}
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.events.Add(1)
	w.log.Debug("change", logger.String("path", event.Name), logger.String("op", event.Op.String()))
	if err := w.changes.Trigger(ctx, event.Name, w.delay); err != nil {
		w.log.Error("failed to schedule change", logger.String("path", event.Name), logger.Err(err))
	}
}

// Events reports how many change events have been debounced so far.
func (w *Watcher) Events() int {
	return int(w.events.Load())
}

// Fingerprint digests the content of the watched tree, skipping what the
// watch itself skips.
func (w *Watcher) Fingerprint() (string, error) {
	return hashing.Tree(w.roots, func(path string, d fs.DirEntry) bool {
		return (d.IsDir() && skipDirs[d.Name()]) || w.shouldIgnore(path)
	})
}

func (w *Watcher) Stop() error {
	w.changes.Close()
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		if path != root && (skipDirs[d.Name()] || w.shouldIgnore(path)) {
			return filepath.SkipDir
		}

		if err = w.fsw.Add(path); err != nil {
			w.log.Warn("failed to watch directory", logger.String("path", path), logger.Err(err))
		}
		return nil
	})
}

// shouldIgnore matches ignore globs against the path relative to its root and
// against the base name.
func (w *Watcher) shouldIgnore(path string) bool {
	if len(w.ignore) == 0 {
		return false
	}

	base := filepath.Base(path)
	rel := w.relative(path)

	for _, pattern := range w.ignore {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")

		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}

	return false
}

func (w *Watcher) relative(path string) string {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}
