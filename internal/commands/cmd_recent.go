package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type RecentCmd struct {
	flags  *Flags
	json   bool
	format string
}

// NewRecentCmd creates a new recent command
func NewRecentCmd(flags *Flags) *RecentCmd {
	return &RecentCmd{flags: flags}
}

// Register adds the recent command to the application
func (cmd *RecentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "recent",
		Usage:       "Show the most recent activities",
		UsageText:   "stride recent [options]",
		Description: "Fetches the latest activities (feed.limit in the config, 5 by default).",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print JSON",
				Destination: &cmd.json,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Go template applied to each activity",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RecentCmd) run(ctx context.Context, c *cli.Command) error {
	svc := cmd.flags.Service
	f := svc.Feed()

	if err := f.Refresh(ctx); err != nil {
		return fmt.Errorf("%s %w", f.Err(), err)
	}

	return printActivities(ctx, c.Root().Writer, f.Items(), svc.TypeNames(ctx), cmd.json, cmd.format)
}
