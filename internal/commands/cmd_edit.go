package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/validate"
	"github.com/hay-kot/stride/internal/form"
)

type EditCmd struct {
	flags         *Flags
	start         string
	duration      string
	distance      float64
	typeID        int
	subTypeID     int
	name          string
	elevationUp   float64
	elevationDown float64
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Update fields of an activity",
		UsageText: "stride edit <id> [options]",
		Description: `Sends only the fields given on the command line.

Example:
  stride edit 3f2a9c1e-... --name "Evening run" --distance 10.4`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "start",
				Usage:       "start time (" + form.StartLayout + ")",
				Destination: &cmd.start,
			},
			&cli.StringFlag{
				Name:        "duration",
				Aliases:     []string{"d"},
				Usage:       "duration, e.g. 1h30m or PT1H30M",
				Destination: &cmd.duration,
			},
			&cli.FloatFlag{
				Name:        "distance",
				Usage:       "distance in km",
				Destination: &cmd.distance,
			},
			&cli.IntFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "activity type id",
				Destination: &cmd.typeID,
			},
			&cli.IntFlag{
				Name:        "sub-type",
				Usage:       "activity sub-type id",
				Destination: &cmd.subTypeID,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "activity name",
				Destination: &cmd.name,
			},
			&cli.FloatFlag{
				Name:        "elevation-up",
				Usage:       "elevation gain in m",
				Destination: &cmd.elevationUp,
			},
			&cli.FloatFlag{
				Name:        "elevation-down",
				Usage:       "elevation loss in m",
				Destination: &cmd.elevationDown,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if err := validate.ActivityID(id); err != nil {
		return err
	}

	in, err := cmd.input(c)
	if err != nil {
		return err
	}

	return reportResult(ctx, cmd.flags.Service.Update(ctx, id, in))
}

// input builds an update from the flags that were set.
func (cmd *EditCmd) input(c *cli.Command) (activity.UpdateInput, error) {
	var in activity.UpdateInput

	if c.IsSet("start") {
		t, err := form.ParseStart(cmd.start)
		if err != nil {
			return in, err
		}
		in.Start = &t
	}
	if c.IsSet("duration") {
		d, err := form.ParseDuration(cmd.duration)
		if err != nil {
			return in, err
		}
		in.Duration = &d
	}
	if c.IsSet("distance") {
		meters := activity.KmToMeters(cmd.distance)
		in.Distance = &meters
	}
	if c.IsSet("type") {
		in.TypeID = &cmd.typeID
	}
	if c.IsSet("sub-type") {
		in.SubTypeID = &cmd.subTypeID
	}
	if c.IsSet("name") {
		in.Name = &cmd.name
	}
	if c.IsSet("elevation-up") {
		in.ElevationUp = &cmd.elevationUp
	}
	if c.IsSet("elevation-down") {
		in.ElevationDown = &cmd.elevationDown
	}

	return in, nil
}
