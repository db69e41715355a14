package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/validate"
	"github.com/hay-kot/stride/internal/printer"
)

type ShowCmd struct {
	flags *Flags
	json  bool
	raw   bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "show",
		Usage:       "Show one activity",
		UsageText:   "stride show <id>",
		Description: "Shows an activity with its images and a summary of its recorded track.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print JSON",
				Destination: &cmd.json,
			},
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without rendering",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})

	return app
}

type detail struct {
	Activity activity.Activity     `json:"activity"`
	Images   []activity.Image      `json:"images"`
	Track    activity.TrackSummary `json:"track"`
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if err := validate.ActivityID(id); err != nil {
		return err
	}

	svc := cmd.flags.Service

	a, err := svc.Activity(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch activity: %w", err)
	}

	d := detail{Activity: a}

	// Images and track are best effort; the activity itself is shown regardless.
	if d.Images, err = svc.Images(ctx, id); err != nil {
		log.Debug().Err(err).Str("id", id).Msg("fetch images")
	}
	points, err := svc.Track(ctx, id)
	if err != nil {
		log.Debug().Err(err).Str("id", id).Msg("fetch track")
	}
	d.Track = activity.Summarize(points)

	out := c.Root().Writer
	if cmd.json {
		return writeJSON(out, d)
	}

	md := detailMarkdown(d, svc.TypeNames(ctx))
	if cmd.raw {
		_, err := fmt.Fprint(out, md)
		return err
	}

	rendered, err := renderMarkdown(md, printer.IsTerminal(out))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

func detailMarkdown(d detail, names activity.TypeNames) string {
	a := d.Activity

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.DisplayName())
	fmt.Fprintf(&b, "*%s* · %s\n\n", names.Label(a.TypeID, a.SubTypeID), a.Start.Local().Format("Mon, 02 Jan 2006 15:04"))

	b.WriteString("| | |\n|---|---|\n")
	row := func(k, v string) {
		if v != "" && v != "-" {
			fmt.Fprintf(&b, "| %s | %s |\n", k, v)
		}
	}
	row("Duration", a.HumanDuration()+" ("+a.Interval()+")")
	row("Distance", activity.FormatKm(a.Distance))
	row("Elevation gain", formatMeters(a.ElevationGain))
	row("Elevation loss", formatMeters(a.ElevationLoss))
	row("Avg speed", formatSpeed(a.AvgSpeed))
	row("Max speed", formatSpeed(a.MaxSpeed))
	row("ID", "`"+a.ID+"`")
	b.WriteString("\n")

	b.WriteString("## Track\n\n")
	if d.Track.Points == 0 {
		b.WriteString("No track recorded.\n\n")
	} else {
		fmt.Fprintf(&b, "- %s points over %s\n", humanize.Comma(int64(d.Track.Points)), humanize.SIWithDigits(d.Track.Distance, 1, "m"))
		if d.Track.MinElevation != nil && d.Track.MaxElevation != nil {
			fmt.Fprintf(&b, "- Elevation %s to %s\n", formatMeters(d.Track.MinElevation), formatMeters(d.Track.MaxElevation))
		}
		if d.Track.MaxHeartRate != nil {
			fmt.Fprintf(&b, "- Max heart rate %s bpm\n", strconv.FormatFloat(*d.Track.MaxHeartRate, 'f', 0, 64))
		}
		b.WriteString("\n")
	}

	if len(d.Images) > 0 {
		b.WriteString("## Images\n\n")
		for _, img := range d.Images {
			fmt.Fprintf(&b, "- [%s](%s)\n", img.ID, img.URL)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatSpeed(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + " km/h"
}

func renderMarkdown(md string, tty bool) (string, error) {
	style := glamour.WithStandardStyle(styles.NoTTYStyle)
	width := 80
	if tty {
		style = glamour.WithAutoStyle()
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = min(w, 120)
		}
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
