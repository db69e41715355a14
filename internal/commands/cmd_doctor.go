package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/commands/doctor"
	"github.com/hay-kot/stride/internal/printer"
)

type DoctorCmd struct {
	flags   *Flags
	format  string
	offline bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your stride setup",
		UsageText:   "stride doctor [options]",
		Description: "Runs diagnostic checks on configuration, credentials, and API connectivity.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "skip checks that call the API",
				Destination: &cmd.offline,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	checks := []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewCredentialCheck(cmd.flags.Creds, cmd.flags.TokenSource()),
	}
	if !cmd.offline {
		checks = append(checks, doctor.NewAPICheck(cmd.flags.Client, cfg.API.BaseURL))
	}

	report := newDoctorReport(doctor.RunAll(ctx, checks))

	if cmd.format == "json" {
		if err := writeJSON(c.Root().Writer, report); err != nil {
			return err
		}
	} else {
		report.print(printer.Ctx(ctx), cmd.offline)
	}

	if !report.Healthy {
		return cli.Exit("", 1)
	}
	return nil
}

type doctorReport struct {
	Healthy bool `json:"healthy"`
	Summary struct {
		Passed int `json:"passed"`
		Warned int `json:"warned"`
		Failed int `json:"failed"`
	} `json:"summary"`
	Checks []doctor.Result `json:"checks"`
}

func newDoctorReport(results []doctor.Result) doctorReport {
	r := doctorReport{Checks: results}
	r.Summary.Passed, r.Summary.Warned, r.Summary.Failed = doctor.Summary(results)
	r.Healthy = r.Summary.Failed == 0
	return r
}

func (r doctorReport) print(p *printer.Printer, offline bool) {
	items := map[doctor.Status]func(label, detail string){
		doctor.StatusPass: p.CheckItem,
		doctor.StatusWarn: p.WarnItem,
		doctor.StatusFail: p.FailItem,
	}

	for _, result := range r.Checks {
		p.Section(result.Name)
		for _, item := range result.Items {
			items[item.Status](item.Label, item.Detail)
		}
		p.Printf("")
	}

	if offline {
		p.Infof("API checks skipped (--offline)")
	}
	p.Printf("Summary: %d passed, %d warnings, %d failed", r.Summary.Passed, r.Summary.Warned, r.Summary.Failed)
}
