package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// WaitDelay bounds how long RunCommand waits for output after the command
// has been killed.
const WaitDelay = time.Second

type ShellOptions struct {
	WorkDir string
	Env     []string
	Shell   string
	Stdout  io.Writer
	Stderr  io.Writer
	// Timeout kills the command after this long. Zero means no limit.
	Timeout time.Duration
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Status)
}

// RunCommand runs cmdStr through the configured shell and waits for it. When
// ctx ends or the timeout elapses, the shell and everything it started are
// killed and ctx's error is returned.
func RunCommand(ctx context.Context, cmdStr string, opts *ShellOptions) error {
	if strings.TrimSpace(cmdStr) == "" {
		return errors.New("empty command")
	}
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := BuildCommand(opts.Shell, cmdStr)
	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = opts.WorkDir
	cmd.Env = opts.Env
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	cmd.WaitDelay = WaitDelay
	killProcessGroup(cmd)

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Status: exitErr.ExitCode()}
	}
	if err != nil {
		return errors.Wrapf(err, "failed to run %s", args[0])
	}
	return nil
}

// BuildCommand splits shell into its fields and appends `-c cmdStr`.
func BuildCommand(shell, cmdStr string) []string {
	args := strings.Fields(shell)
	if len(args) == 0 {
		args = []string{"/bin/sh"}
	}
	return append(args, "-c", cmdStr)
}

// ResolveWorkDir makes dir absolute against root. Empty means root.
func ResolveWorkDir(root, dir string) string {
	switch {
	case dir == "":
		return root
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(root, dir)
	}
}
