package subcmds

import (
	"github.com/andyhorn/debounce/actions"
	"github.com/andyhorn/debounce/logger"

	"github.com/urfave/cli/v2"
)

func LinesCmd() *cli.Command {
	return &cli.Command{
		Name:  "lines",
		Usage: "Copy stdin to stdout, keeping only the last line of each burst",
		Flags: []cli.Flag{
			delayFlag(),
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log := newStderrLogger(cfg)
			action := actions.NewLinesAction(cfg.Delay, log.WithPrefix("lines"))
			result, err := action.Execute(ctx.Context, ctx.App.Reader, ctx.App.Writer)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log.Debug("lines done",
				logger.Int("read", result.Triggers),
				logger.Int("written", len(result.Runs)),
				logger.Duration("duration", result.Duration))

			return nil
		},
	}
}
