package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/printer"
	"github.com/hay-kot/stride/internal/stride"
	"github.com/hay-kot/stride/pkg/tmpl"
)

var activityHeaders = []string{"ID", "DATE", "NAME", "TYPE", "DURATION", "DISTANCE", "ELEV +/-"}

func activityRow(a activity.Activity, names activity.TypeNames) []string {
	return []string{
		a.ID,
		a.Start.Local().Format("2006-01-02 15:04"),
		a.DisplayName(),
		names.Label(a.TypeID, a.SubTypeID),
		a.HumanDuration(),
		activity.FormatKm(a.Distance),
		formatElevation(a.ElevationGain, a.ElevationLoss),
	}
}

func formatMeters(v *float64) string {
	if v == nil {
		return tmpl.Placeholder
	}
	return strconv.FormatFloat(*v, 'f', 0, 64) + " m"
}

func formatElevation(up, down *float64) string {
	if up == nil && down == nil {
		return tmpl.Placeholder
	}
	return formatMeters(up) + " / " + formatMeters(down)
}

// printActivities writes activities as JSON, through a --format template, or
// as a table.
func printActivities(ctx context.Context, w io.Writer, acts []activity.Activity, names activity.TypeNames, asJSON bool, format string) error {
	switch {
	case asJSON:
		return writeJSON(w, acts)
	case format != "":
		t, err := tmpl.Parse(format)
		if err != nil {
			return err
		}
		for _, a := range acts {
			line, err := tmpl.Execute(t, a)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	if len(acts) == 0 {
		printer.Ctx(ctx).Infof("No activities found")
		return nil
	}

	rows := make([][]string, 0, len(acts))
	for _, a := range acts {
		rows = append(rows, activityRow(a, names))
	}
	printer.NewAuto(w).Table(activityHeaders, rows)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportResult prints a successful mutation outcome, including partial
// failure warnings, and turns failures into an error for the exit code.
func reportResult(ctx context.Context, res stride.Result) error {
	if !res.Success {
		if res.Err != nil {
			return fmt.Errorf("%s %w", res.Message, res.Err)
		}
		return fmt.Errorf("%s", res.Message)
	}

	p := printer.Ctx(ctx)
	p.Outcome(true, res.Partial(), res.Message)
	if res.Partial() {
		p.Infof("%v", res.Err)
	}
	return nil
}
