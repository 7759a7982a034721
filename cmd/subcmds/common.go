package subcmds

import (
	"os"

	"github.com/andyhorn/debounce/config"
	"github.com/andyhorn/debounce/logger"

	"github.com/urfave/cli/v2"
)

// loadConfig reads the config file and applies the flags shared by every
// command on top of it.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}

	if ctx.IsSet("delay") {
		cfg.Delay = ctx.Duration("delay")
	}
	if ctx.Bool("debug") {
		cfg.LogLevel = "debug"
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(cfg.Level())
}

// newStderrLogger keeps stdout free for command output.
func newStderrLogger(cfg *config.Config) logger.Logger {
	return logger.NewFile(cfg.Level(), os.Stderr)
}

func delayFlag() cli.Flag {
	return &cli.DurationFlag{
		Name:  "delay",
		Usage: "Quiet period before acting (default: config delay)",
	}
}
