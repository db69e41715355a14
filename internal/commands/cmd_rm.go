package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/validate"
	"github.com/hay-kot/stride/internal/printer"
	"github.com/hay-kot/stride/internal/styles"
)

type RmCmd struct {
	flags *Flags
	yes   bool
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete activities",
		UsageText: "stride rm <id>... [--yes]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip confirmation",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one activity id is required")
	}
	for _, id := range ids {
		if err := validate.ActivityID(id); err != nil {
			return err
		}
	}

	if !cmd.yes {
		ok, err := confirm(ctx, fmt.Sprintf("Delete %d activit%s?", len(ids), plural(len(ids), "y", "ies")))
		if err != nil {
			return err
		}
		if !ok {
			printer.Ctx(ctx).Infof("Aborted")
			return nil
		}
	}

	svc := cmd.flags.Service
	var failed int
	for _, id := range ids {
		res := svc.Delete(ctx, id)
		if err := reportResult(ctx, res); err != nil {
			printer.Ctx(ctx).Errorf("%s: %v", id, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", failed, len(ids))
	}
	return nil
}

// confirm asks a yes/no question. Without a terminal it refuses, so
// scripts must pass --yes.
func confirm(ctx context.Context, title string) (bool, error) {
	if !printer.IsTerminal(os.Stdin) {
		return false, fmt.Errorf("refusing to prompt without a terminal, pass --yes")
	}

	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&ok),
	)).WithTheme(styles.FormTheme()).RunWithContext(ctx)
	return ok, err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
