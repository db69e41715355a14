package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/printer"
)

type TypesCmd struct {
	flags *Flags
	json  bool
}

// NewTypesCmd creates a new types command
func NewTypesCmd(flags *Flags) *TypesCmd {
	return &TypesCmd{flags: flags}
}

// Register adds the types command to the application
func (cmd *TypesCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "types",
		Usage:       "List activity types and sub-types",
		UsageText:   "stride types [--json]",
		Description: "Lists the ids accepted by --type and --sub-type.",
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

func (cmd *TypesCmd) run(ctx context.Context, c *cli.Command) error {
	types, err := cmd.flags.Service.Types(ctx)
	if err != nil {
		return fmt.Errorf("fetch types: %w", err)
	}

	if cmd.json {
		return writeJSON(c.Root().Writer, types)
	}

	printer.NewAuto(c.Root().Writer).Table([]string{"TYPE", "SUB-TYPE", "NAME"}, typeRows(types))
	return nil
}

func typeRows(types []activity.ActivityType) [][]string {
	var rows [][]string
	for _, t := range types {
		rows = append(rows, []string{strconv.Itoa(t.ID), "", t.Name})
		for _, st := range t.SubTypes {
			rows = append(rows, []string{"", strconv.Itoa(st.ID), "  " + st.Name})
		}
	}
	return rows
}
