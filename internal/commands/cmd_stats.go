package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/duration"
	"github.com/hay-kot/stride/internal/core/stats"
	"github.com/hay-kot/stride/internal/core/validate"
	"github.com/hay-kot/stride/internal/printer"
	"github.com/hay-kot/stride/pkg/tmpl"
)

type StatsCmd struct {
	flags  *Flags
	year   int
	week   int
	typeID int
	json   bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags) *StatsCmd {
	return &StatsCmd{flags: flags}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := func() cli.Flag {
		return &cli.BoolFlag{
			Name:        "json",
			Usage:       "print JSON",
			Destination: &cmd.json,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "stats",
		Usage: "Show activity statistics",
		Commands: []*cli.Command{
			{
				Name:      "year",
				Usage:     "Totals per activity type for a year",
				UsageText: "stride stats year [--year N]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "year",
						Aliases:     []string{"y"},
						Usage:       "year, 0 for all time",
						Destination: &cmd.year,
					},
					jsonFlag(),
				},
				Action: cmd.runYear,
			},
			{
				Name:      "week",
				Usage:     "Per day totals for an ISO week",
				UsageText: "stride stats week [--year N] [--week N] [--type ID]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "year",
						Aliases:     []string{"y"},
						Usage:       "year, defaults to the current one",
						Destination: &cmd.year,
					},
					&cli.IntFlag{
						Name:        "week",
						Aliases:     []string{"w"},
						Usage:       "ISO week, defaults to the current one",
						Destination: &cmd.week,
					},
					&cli.IntFlag{
						Name:        "type",
						Aliases:     []string{"t"},
						Usage:       "activity type id",
						Destination: &cmd.typeID,
					},
					jsonFlag(),
				},
				Action: cmd.runWeek,
			},
		},
	})

	return app
}

func (cmd *StatsCmd) runYear(ctx context.Context, c *cli.Command) error {
	if cmd.year != 0 {
		if err := validate.Year(cmd.year); err != nil {
			return fmt.Errorf("invalid year: %w", err)
		}
	}

	svc := cmd.flags.Service
	ys, err := svc.YearStats(ctx, cmd.year)
	if err != nil {
		return fmt.Errorf("fetch statistics: %w", err)
	}

	if cmd.json {
		return writeJSON(c.Root().Writer, ys)
	}

	headers, rows := yearTable(ys, svc.TypeNames(ctx))
	printer.NewAuto(c.Root().Writer).Table(headers, rows)
	return nil
}

// yearTable lays out yearly totals with one row per type and a total row.
func yearTable(ys stats.YearStats, names activity.TypeNames) ([]string, [][]string) {
	var ids []int
	for _, p := range []stats.PerType{ys.Count.PerType, ys.Distance.PerType, ys.Duration.PerType} {
		for _, id := range p.TypeIDs() {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)

	row := func(label string, count, dist, dur float64) []string {
		return []string{
			label,
			humanize.Comma(int64(count)),
			activity.FormatKm(&dist),
			duration.Humanize(dur),
		}
	}

	rows := make([][]string, 0, len(ids)+1)
	for _, id := range ids {
		rows = append(rows, row(names.Label(id, nil),
			ys.Count.PerType.Get(id), ys.Distance.PerType.Get(id), ys.Duration.PerType.Get(id)))
	}
	rows = append(rows, row("Total", ys.Count.Total, ys.Distance.Total, ys.Duration.Total))

	return []string{"TYPE", "COUNT", "DISTANCE", "DURATION"}, rows
}

func (cmd *StatsCmd) runWeek(ctx context.Context, c *cli.Command) error {
	if cmd.year != 0 {
		if err := validate.Year(cmd.year); err != nil {
			return fmt.Errorf("invalid year: %w", err)
		}
	}
	if cmd.week < 0 || cmd.week > 53 {
		return fmt.Errorf("invalid week: must be between 1 and 53")
	}

	ws, err := cmd.flags.Service.WeekStats(ctx, stats.WeekQuery{Year: cmd.year, Week: cmd.week, TypeID: cmd.typeID})
	if err != nil {
		return fmt.Errorf("fetch statistics: %w", err)
	}

	if cmd.json {
		return writeJSON(c.Root().Writer, ws)
	}

	headers, rows := weekTable(ws)
	printer.NewAuto(c.Root().Writer).Table(headers, rows)
	return nil
}

// weekTable lays out weekly series with one row per day. Days missing from a
// series show the placeholder.
func weekTable(ws stats.WeeklyStats) ([]string, [][]string) {
	var days []string
	for _, s := range []stats.Series{ws.Distance, ws.ElevationGain, ws.Duration} {
		for _, d := range s.Days() {
			if !slices.Contains(days, d) {
				days = append(days, d)
			}
		}
	}
	slices.Sort(days)

	rows := make([][]string, 0, len(days)+1)
	for _, d := range days {
		rows = append(rows, []string{
			d,
			activity.FormatKm(ws.Distance.PerDay[d]),
			formatMeters(ws.ElevationGain.PerDay[d]),
			humanizePtr(ws.Duration.PerDay[d]),
		})
	}
	rows = append(rows, []string{
		"Total",
		activity.FormatKm(&ws.Distance.Total),
		formatMeters(&ws.ElevationGain.Total),
		duration.Humanize(ws.Duration.Total),
	})

	return []string{"DAY", "DISTANCE", "ELEVATION", "DURATION"}, rows
}

func humanizePtr(seconds *float64) string {
	if seconds == nil {
		return tmpl.Placeholder
	}
	return duration.Humanize(*seconds)
}
