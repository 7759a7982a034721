package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/andyhorn/debounce/executor"
	"github.com/andyhorn/debounce/logger"

	"github.com/pkg/errors"
)

const DefaultFile = "debounce.yml"

const (
	ExecutorInline = "inline"
	ExecutorLoop   = "loop"
	ExecutorPool   = "pool"
)

type Config struct {
	LogLevel string         `koanf:"log_level"`
	Delay    time.Duration  `koanf:"delay"`
	Executor ExecutorConfig `koanf:"executor"`
	Watch    WatchConfig    `koanf:"watch"`
}

type ExecutorConfig struct {
	Kind     string `koanf:"kind"`
	Workers  int    `koanf:"workers"`
	Priority string `koanf:"priority"`
}

type WatchConfig struct {
	Paths      []string          `koanf:"paths"`
	Ignore     []string          `koanf:"ignore"`
	Cmd        interface{}       `koanf:"cmd"`
	Shell      string            `koanf:"shell"`
	Env        map[string]string `koanf:"env"`
	WorkingDir string            `koanf:"working_dir"`
	Dotenv     *bool             `koanf:"dotenv"`
	// Timeout kills a command still running after this long. Zero means no
	// limit.
	Timeout time.Duration `koanf:"timeout"`

	// SkipUnchanged drops bursts after which the watched content is identical
	// to what the previous run saw.
	SkipUnchanged bool `koanf:"skip_unchanged"`
}

func (c *Config) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Delay == 0 {
		c.Delay = 300 * time.Millisecond
	}
	c.Executor.SetDefaults()
	c.Watch.SetDefaults()
}

func (e *ExecutorConfig) SetDefaults() {
	if e.Kind == "" {
		e.Kind = ExecutorLoop
	}
	if e.Workers <= 0 {
		e.Workers = runtime.NumCPU()
	}
	if e.Priority == "" {
		e.Priority = executor.Idle.String()
	}
}

func (w *WatchConfig) SetDefaults() {
	if len(w.Paths) == 0 {
		w.Paths = []string{"."}
	}
	if w.Ignore == nil {
		w.Ignore = []string{}
	}
	if w.Shell == "" {
		w.Shell = "/bin/sh"
	}
	if w.Env == nil {
		w.Env = make(map[string]string)
	}
	if w.Dotenv == nil {
		enabled := true
		w.Dotenv = &enabled
	}
}

// GetCmd accepts a single string or a list of lines.
func (w *WatchConfig) GetCmd() string {
	switch v := w.Cmd.(type) {
	case string:
		return v
	case []interface{}:
		var cmds []string
		for _, c := range v {
			if s, ok := c.(string); ok {
				cmds = append(cmds, s)
			}
		}
		return strings.Join(cmds, "\n")
	case []string:
		return strings.Join(v, "\n")
	}
	return ""
}

func (c *Config) Validate() error {
	if c.Delay < 0 {
		return errors.Errorf("delay must not be negative, got %s", c.Delay)
	}
	if c.Watch.Timeout < 0 {
		return errors.Errorf("watch.timeout must not be negative, got %s", c.Watch.Timeout)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	switch c.Executor.Kind {
	case ExecutorInline, ExecutorLoop, ExecutorPool:
	default:
		return errors.Errorf("executor.kind must be one of inline, loop, pool, got %q", c.Executor.Kind)
	}
	if _, err := executor.ParsePriority(c.Executor.Priority); err != nil {
		return errors.Wrap(err, "executor.priority")
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() logger.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}

// ParsedPriority returns the parsed loop priority. Call Validate first.
func (e *ExecutorConfig) ParsedPriority() executor.Priority {
	p, _ := executor.ParsePriority(e.Priority)
	return p
}
