package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/form"
	"github.com/hay-kot/stride/internal/printer"
)

type NewCmd struct {
	flags            *Flags
	interactive      bool
	start            string
	duration         string
	distance         float64
	typeID           int
	subTypeID        int
	name             string
	elevationUp      float64
	elevationDown    float64
	track            string
	defaultEquipment bool
	json             bool
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags) *NewCmd {
	return &NewCmd{flags: flags}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Record a new activity",
		UsageText: "stride new [options]",
		Description: `Creates an activity, optionally uploading a track file to it.

If the activity is created but the track upload fails, the activity is kept
and a warning is printed.

Example:
  stride new --type 1 --duration 45m --distance 8.2 --track run.gpx
  stride new -i`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "interactive",
				Aliases:     []string{"i"},
				Usage:       "fill in the activity with a form",
				Destination: &cmd.interactive,
			},
			&cli.StringFlag{
				Name:        "start",
				Usage:       "start time (" + form.StartLayout + "), defaults to now",
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
				Usage:       "activity type id, defaults to the user setting",
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
			&cli.StringFlag{
				Name:        "track",
				Usage:       "track file (gpx, fit, tcx) to upload after creating",
				Destination: &cmd.track,
			},
			&cli.BoolFlag{
				Name:        "default-equipment",
				Usage:       "attach the default equipment",
				Destination: &cmd.defaultEquipment,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the created activity as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	svc := cmd.flags.Service

	var track *activity.Upload
	if cmd.track != "" {
		u, err := activity.OpenUpload(cmd.track)
		if err != nil {
			return err
		}
		if !u.IsTrack(cmd.flags.Config.Upload.TrackTypes) {
			printer.Ctx(ctx).Warnf("%s does not look like a track file (%s)", u.Filename, activity.SniffType(u.Data))
		}
		log.Debug().Str("file", u.Filename).Str("size", humanize.Bytes(uint64(u.Size()))).Msg("track loaded")
		track = &u
	}

	var (
		in  activity.CreateInput
		err error
	)
	if cmd.interactive {
		in, err = cmd.fromForm(ctx)
	} else {
		in, err = cmd.fromFlags(ctx, c)
	}
	if err != nil {
		return err
	}

	res := svc.Create(ctx, in, track)
	defer svc.Wait()

	if err := reportResult(ctx, res); err != nil {
		return err
	}
	if cmd.json {
		return writeJSON(c.Root().Writer, res.Activity)
	}
	printer.Ctx(ctx).Infof("id %s", res.Activity.ID)
	return nil
}

func (cmd *NewCmd) fromForm(ctx context.Context) (activity.CreateInput, error) {
	if !printer.IsTerminal(os.Stdin) {
		return activity.CreateInput{}, fmt.Errorf("interactive mode requires a terminal")
	}

	svc := cmd.flags.Service

	types, err := svc.Types(ctx)
	if err != nil {
		return activity.CreateInput{}, err
	}

	settings, err := svc.Settings(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("settings unavailable, form starts empty")
	}

	v := form.NewValues(settings, time.Now())
	v.DefaultEquipment = cmd.defaultEquipment
	return form.Run(ctx, types, v)
}

func (cmd *NewCmd) fromFlags(ctx context.Context, c *cli.Command) (activity.CreateInput, error) {
	if cmd.duration == "" {
		return activity.CreateInput{}, fmt.Errorf("--duration is required (or use -i)")
	}
	interval, err := form.ParseDuration(cmd.duration)
	if err != nil {
		return activity.CreateInput{}, err
	}

	start := time.Now()
	if cmd.start != "" {
		if start, err = form.ParseStart(cmd.start); err != nil {
			return activity.CreateInput{}, err
		}
	}

	in := activity.CreateInput{
		Start:                  start,
		Duration:               interval,
		Distance:               activity.KmToMeters(cmd.distance),
		TypeID:                 cmd.typeID,
		SubTypeID:              cmd.subTypeID,
		Name:                   cmd.name,
		AttachDefaultEquipment: cmd.defaultEquipment,
	}
	if c.IsSet("elevation-up") {
		in.ElevationUp = &cmd.elevationUp
	}
	if c.IsSet("elevation-down") {
		in.ElevationDown = &cmd.elevationDown
	}

	if in.TypeID == 0 {
		settings, err := cmd.flags.Service.Settings(ctx)
		if err == nil && settings.DefaultTypeID != nil {
			in.TypeID = *settings.DefaultTypeID
			if in.SubTypeID == 0 && settings.DefaultSubTypeID != nil {
				in.SubTypeID = *settings.DefaultSubTypeID
			}
		}
	}

	return in, nil
}
