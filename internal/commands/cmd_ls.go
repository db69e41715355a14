package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/catalog"
	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/validate"
	"github.com/hay-kot/stride/internal/printer"
)

type LsCmd struct {
	flags   *Flags
	filters activity.Filters
	pages   int
	all     bool
	json    bool
	format  string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List activities",
		UsageText: "stride ls [options]",
		Description: `Lists activities page by page in server order.

Filters left at 0 are not sent. By default one page (catalog.page_size) is
shown; use --pages or --all to load more.

Example:
  stride ls --year 2024 --month 6
  stride ls --type 1 --all --format '{{ .ID }} {{ num .Distance }}'`,
		Flags: append(filterFlags(&cmd.filters),
			&cli.IntFlag{
				Name:        "pages",
				Aliases:     []string{"n"},
				Usage:       "number of pages to load",
				Value:       1,
				Destination: &cmd.pages,
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "load every page",
				Destination: &cmd.all,
			},
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
		),
		Action: cmd.run,
	})

	return app
}

// filterFlags binds the catalog filter flags to f.
func filterFlags(f *activity.Filters) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "year",
			Aliases:     []string{"y"},
			Usage:       "only activities in this year",
			Destination: &f.Year,
		},
		&cli.IntFlag{
			Name:        "month",
			Aliases:     []string{"m"},
			Usage:       "only activities in this month (1-12)",
			Destination: &f.Month,
		},
		&cli.IntFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "activity type id (see 'stride types')",
			Destination: &f.TypeID,
		},
		&cli.IntFlag{
			Name:        "sub-type",
			Usage:       "activity sub-type id",
			Destination: &f.SubTypeID,
		},
	}
}

func validateFilters(f activity.Filters) error {
	var errs criterio.FieldErrorsBuilder
	if f.Year != 0 {
		if err := validate.Year(f.Year); err != nil {
			errs = errs.Append("year", err)
		}
	}
	if f.Month != 0 {
		if err := validate.Month(f.Month); err != nil {
			errs = errs.Append("month", err)
		}
	}
	if f.TypeID < 0 {
		errs = errs.Append("type", fmt.Errorf("must not be negative"))
	}
	if f.SubTypeID < 0 {
		errs = errs.Append("sub-type", fmt.Errorf("must not be negative"))
	}
	return errs.ToError()
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	if err := validateFilters(cmd.filters); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}

	cat := cmd.flags.Service.Catalog()
	if err := loadPages(ctx, cat, cmd.filters, cmd.pages, cmd.all); err != nil {
		return err
	}

	snap := cat.Snapshot()
	if err := printActivities(ctx, c.Root().Writer, snap.Items, cmd.flags.Service.TypeNames(ctx), cmd.json, cmd.format); err != nil {
		return err
	}

	if snap.CanLoadMore && !cmd.json && cmd.format == "" {
		printer.Ctx(ctx).Infof("More activities available, use --pages %d or --all", snap.Page)
	}
	return nil
}

// loadPages resets the catalog to filters and appends pages until pages
// were loaded, or every page when all is set.
func loadPages(ctx context.Context, cat *catalog.Catalog, filters activity.Filters, pages int, all bool) error {
	if err := cat.Load(ctx, filters, false); err != nil {
		return fmt.Errorf("%s %w", cat.Snapshot().Err, err)
	}

	for loaded := 1; (all || loaded < pages) && cat.CanLoadMore(); loaded++ {
		if err := cat.LoadMore(ctx); err != nil {
			return fmt.Errorf("%s %w", cat.Snapshot().Err, err)
		}
	}
	return nil
}
