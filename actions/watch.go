package actions

import (
	"context"
	"os"
	"time"

	"github.com/andyhorn/debounce/config"
	dbexec "github.com/andyhorn/debounce/exec"
	"github.com/andyhorn/debounce/logger"
	"github.com/andyhorn/debounce/models"
	"github.com/andyhorn/debounce/watcher"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// PathEnv carries the last changed path of a burst to the command.
const PathEnv = "DEBOUNCE_PATH"

type WatchAction struct {
	config *config.Config
	log    logger.Logger
}

func NewWatchAction(cfg *config.Config, log logger.Logger) *WatchAction {
	return &WatchAction{
		config: cfg,
		log:    log,
	}
}

// Execute runs the configured command once per settled burst of file changes
// until ctx is done.
func (a *WatchAction) Execute(ctx context.Context) (*models.Result, error) {
	cmd := a.config.Watch.GetCmd()
	if cmd == "" {
		return nil, errors.New("no command configured (watch.cmd)")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}
	workDir := dbexec.ResolveWorkDir(cwd, a.config.Watch.WorkingDir)

	rt := newExecContext(a.config.Executor)
	rec := newRecorder()

	w, err := watcher.NewWatcher(watcher.Options{
		Paths:    a.config.Watch.Paths,
		Ignore:   a.config.Watch.Ignore,
		Delay:    a.config.Delay,
		Executor: rt.executor,
		Log:      a.log.WithPrefix("watcher"),
	})
	if err != nil {
		rt.close()
		return nil, err
	}
	defer w.Stop()

	var gate *contentGate
	if a.config.Watch.SkipUnchanged {
		gate = newContentGate(w.Fingerprint)
		if err = gate.prime(); err != nil {
			a.log.Warn("failed to fingerprint watched paths", logger.Err(err))
		}
	}

	w.OnChange(func(path string) {
		if gate != nil {
			changed, err := gate.changed()
			if err != nil {
				a.log.Warn("failed to fingerprint watched paths", logger.Err(err))
			}
			if !changed {
				a.log.Debug("content unchanged, skipping", logger.String("path", path))
				rec.skip()
				return
			}
		}
		rec.run(a.runCommand(ctx, cmd, workDir, path))
	})

	g, gctx := errgroup.WithContext(ctx)
	if rt.run != nil {
		g.Go(func() error {
			return rt.run(context.Background())
		})
	}
	g.Go(func() error {
		defer rt.close()
		return w.Start(gctx)
	})

	a.log.Info("watching",
		logger.String("cmd", cmd),
		logger.Duration("delay", a.config.Delay),
		logger.String("executor", a.config.Executor.Kind))

	if err = g.Wait(); err != nil {
		return nil, err
	}

	result := rec.finish()
	result.Triggers = w.Events()
	return result, nil
}

func (a *WatchAction) runCommand(ctx context.Context, cmd, workDir, path string) models.Run {
	runLog := a.log.WithPrefix("run")
	runLog.Info("change settled, running", logger.String("path", path))

	start := time.Now()
	env := dbexec.ComposeEnv(workDir, *a.config.Watch.Dotenv, a.config.Watch.Env, map[string]string{
		PathEnv: path,
	})

	err := dbexec.RunCommand(ctx, cmd, &dbexec.ShellOptions{
		WorkDir: workDir,
		Env:     env,
		Shell:   a.config.Watch.Shell,
		Timeout: a.config.Watch.Timeout,
		Stdout:  runLog.Writer(),
		Stderr:  runLog.Writer(),
	})

	run := models.Run{
		Trigger:  path,
		Error:    err,
		Duration: time.Since(start),
	}

	var exitErr *dbexec.ExitError
	if errors.As(err, &exitErr) {
		run.ExitCode = exitErr.Status
	}

	if err != nil {
		runLog.Error("command failed", logger.Err(err), logger.Int("exit_code", run.ExitCode))
	} else {
		runLog.Info("command finished", logger.Duration("duration", run.Duration))
	}

	return run
}
