package exec

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name     string
		shell    string
		cmd      string
		expected []string
	}{
		{
			name:     "plain command",
			shell:    "/bin/sh",
			cmd:      "make test",
			expected: []string{"/bin/sh", "-c", "make test"},
		},
		{
			name:     "shell with arguments",
			shell:    "/usr/bin/env  bash",
			cmd:      "echo hi",
			expected: []string{"/usr/bin/env", "bash", "-c", "echo hi"},
		},
		{
			name:     "quotes pass through untouched",
			shell:    "/bin/sh",
			cmd:      "echo 'x'",
			expected: []string{"/bin/sh", "-c", "echo 'x'"},
		},
		{
			name:     "blank shell",
			shell:    "  ",
			cmd:      "ls",
			expected: []string{"/bin/sh", "-c", "ls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildCommand(tt.shell, tt.cmd))
		})
	}
}

func TestResolveWorkDir(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		dir      string
		expected string
	}{
		{name: "empty uses root", root: "/repo", dir: "", expected: "/repo"},
		{name: "relative joins root", root: "/repo", dir: "web", expected: "/repo/web"},
		{name: "absolute kept", root: "/repo", dir: "/tmp/x", expected: "/tmp/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveWorkDir(tt.root, tt.dir))
		})
	}
}

func TestRunCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns processes")
	}

	t.Run("captures stdout", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCommand(context.Background(), "echo hello", &ShellOptions{Stdout: &out})
		require.NoError(t, err)
		assert.Equal(t, "hello\n", out.String())
	})

	t.Run("passes env", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCommand(context.Background(), `echo "$DEBOUNCE_PATH"`, &ShellOptions{
			Env:    []string{"DEBOUNCE_PATH=a.go"},
			Stdout: &out,
		})
		require.NoError(t, err)
		assert.Equal(t, "a.go\n", out.String())
	})

	t.Run("runs in work dir", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer
		err := RunCommand(context.Background(), "pwd", &ShellOptions{WorkDir: dir, Stdout: &out})
		require.NoError(t, err)

		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		err := RunCommand(context.Background(), "exit 3", &ShellOptions{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr), "got %v", err)
		assert.Equal(t, 3, exitErr.Status)
	})

	t.Run("cancel kills background jobs", func(t *testing.T) {
		dir := t.TempDir()
		marker := filepath.Join(dir, "late")

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		err := RunCommand(ctx, "(sleep 0.3; touch late) & wait", &ShellOptions{WorkDir: dir})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), WaitDelay)

		time.Sleep(500 * time.Millisecond)
		assert.NoFileExists(t, marker)
	})

	t.Run("timeout kills the command", func(t *testing.T) {
		dir := t.TempDir()
		err := RunCommand(context.Background(), "sleep 0.3; touch late", &ShellOptions{
			WorkDir: dir,
			Timeout: 20 * time.Millisecond,
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		time.Sleep(500 * time.Millisecond)
		assert.NoFileExists(t, filepath.Join(dir, "late"))
	})

	t.Run("missing shell", func(t *testing.T) {
		err := RunCommand(context.Background(), "true", &ShellOptions{Shell: "/nonexistent/sh"})
		require.Error(t, err)
		var exitErr *ExitError
		assert.False(t, errors.As(err, &exitErr))
	})

	t.Run("empty command", func(t *testing.T) {
		assert.Error(t, RunCommand(context.Background(), "  ", &ShellOptions{}))
	})
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := strings.Join([]string{
		"# comment",
		"",
		"PLAIN=value",
		`DOUBLE="quoted value"`,
		"SINGLE='single'",
		"export EXPORTED=yes",
		"  SPACED = padded  ",
		"NOEQUALS",
		"URL=http://x?a=b",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	vars, err := LoadDotenv(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"PLAIN":    "value",
		"DOUBLE":   "quoted value",
		"SINGLE":   "single",
		"EXPORTED": "yes",
		"SPACED":   "padded",
		"URL":      "http://x?a=b",
	}, vars)

	_, err = LoadDotenv(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestMergeEnv(t *testing.T) {
	merged := MergeEnv(
		[]string{"B=1", "A=1", "BROKEN"},
		[]string{"B=2", "C=3"},
	)
	assert.Equal(t, []string{"A=1", "B=2", "C=3"}, merged)
}

func TestComposeEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FROM_DOTENV=1\nLAYER=dotenv\n"), 0644))
	t.Setenv("LAYER", "process")

	env := ComposeEnv(dir, true, map[string]string{"LAYER": "config"}, map[string]string{"DEBOUNCE_PATH": "x"})
	assert.Contains(t, env, "FROM_DOTENV=1")
	assert.Contains(t, env, "LAYER=config")
	assert.Contains(t, env, "DEBOUNCE_PATH=x")
	assert.NotContains(t, env, "LAYER=process")

	env = ComposeEnv(dir, false, nil, nil)
	assert.NotContains(t, env, "FROM_DOTENV=1")
	assert.Contains(t, env, "LAYER=process")
}
