package subcmds

import (
	"github.com/andyhorn/debounce/actions"
	"github.com/andyhorn/debounce/logger"

	"github.com/urfave/cli/v2"
)

func WatchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Run a command once file changes settle",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			delayFlag(),
			&cli.StringFlag{
				Name:  "cmd",
				Usage: "Command to run; the last changed path is in $" + actions.PathEnv,
			},
			&cli.StringFlag{
				Name:  "executor",
				Usage: "Where the command runs: inline, loop or pool",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Glob of paths to ignore (repeatable)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Kill the command after this long (default: no limit)",
			},
			&cli.BoolFlag{
				Name:  "skip-unchanged",
				Usage: "Skip the command when a burst leaves file contents unchanged",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			if ctx.Args().Len() > 0 {
				cfg.Watch.Paths = ctx.Args().Slice()
			}
			if ctx.IsSet("cmd") {
				cfg.Watch.Cmd = ctx.String("cmd")
			}
			if ctx.IsSet("executor") {
				cfg.Executor.Kind = ctx.String("executor")
			}
			if ctx.IsSet("timeout") {
				cfg.Watch.Timeout = ctx.Duration("timeout")
			}
			if ctx.IsSet("skip-unchanged") {
				cfg.Watch.SkipUnchanged = ctx.Bool("skip-unchanged")
			}
			cfg.Watch.Ignore = append(cfg.Watch.Ignore, ctx.StringSlice("ignore")...)

			if err = cfg.Validate(); err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log := newLogger(cfg)
			action := actions.NewWatchAction(cfg, log)
			result, err := action.Execute(ctx.Context)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log.Info("watch stopped",
				logger.Int("events", result.Triggers),
				logger.Int("runs", len(result.Runs)),
				logger.Int("failed", len(result.Failed())),
				logger.Int("skipped", result.Skipped),
				logger.Duration("duration", result.Duration))

			return nil
		},
	}
}
