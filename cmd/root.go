package cmd

import (
	"github.com/andyhorn/debounce/cmd/subcmds"

	"github.com/urfave/cli/v2"
)

func NewApp() *cli.App {
	return &cli.App{
		Name:    "debounce",
		Usage:   "Coalesce bursts of events into a single action",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to debounce.yml (default: ./debounce.yml if present)",
			},
		},
		Commands: []*cli.Command{
			subcmds.WatchCmd(),
			subcmds.LinesCmd(),
		},
	}
}
