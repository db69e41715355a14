package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/printer"
)

type SettingsCmd struct {
	flags *Flags
	json  bool
}

// NewSettingsCmd creates a new settings command
func NewSettingsCmd(flags *Flags) *SettingsCmd {
	return &SettingsCmd{flags: flags}
}

// Register adds the settings command to the application
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "settings",
		Usage:     "Show the account's activity defaults",
		UsageText: "stride settings [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SettingsCmd) run(ctx context.Context, c *cli.Command) error {
	svc := cmd.flags.Service

	s, err := svc.Settings(ctx)
	if err != nil {
		return fmt.Errorf("fetch settings: %w", err)
	}

	if cmd.json {
		return writeJSON(c.Root().Writer, s)
	}

	names := svc.TypeNames(ctx)

	defaultType := ""
	if s.DefaultTypeID != nil {
		defaultType = names.Label(*s.DefaultTypeID, s.DefaultSubTypeID)
	}

	excluded := make([]string, 0, len(s.Heatmap.ExcludedActivityTypes))
	for _, id := range s.Heatmap.ExcludedActivityTypes {
		excluded = append(excluded, names.Label(id, nil)+" ("+strconv.Itoa(id)+")")
	}

	printer.NewAuto(c.Root().Writer).KeyValue(
		[2]string{"Default type", defaultType},
		[2]string{"Locale", s.Locale},
		[2]string{"Heatmap excludes", strings.Join(excluded, ", ")},
	)
	return nil
}
