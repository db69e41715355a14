package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/config"
	"github.com/hay-kot/stride/internal/printer"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "format",
			Usage:       "output format (text, json)",
			Value:       "text",
			Destination: &cmd.format,
		}
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "stride config validate [options]",
				Description: "Validates the configuration file, reporting every invalid field.",
				Flags:       []cli.Flag{formatFlag()},
				Action:      cmd.run,
			},
			{
				Name:        "show",
				Usage:       "Print the effective configuration",
				UsageText:   "stride config show [options]",
				Description: "Prints the configuration after defaults and flag overrides are applied.",
				Flags:       []cli.Flag{formatFlag()},
				Action:      cmd.runShow,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.flags.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}

	err := cmd.flags.Config.Validate()

	if cmd.format == "json" {
		return cmd.outputJSON(c, err)
	}

	return cmd.outputText(p, err)
}

func (cmd *ConfigValidateCmd) outputJSON(c *cli.Command, validationErr error) error {
	type fieldError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}

	out := struct {
		Path   string       `json:"path"`
		Valid  bool         `json:"valid"`
		Errors []fieldError `json:"errors,omitempty"`
	}{
		Path:  cmd.flags.ConfigPath,
		Valid: validationErr == nil,
	}

	for _, fe := range extractFieldErrors(validationErr) {
		out.Errors = append(out.Errors, fieldError{Field: fe.Field, Message: fe.Err.Error()})
	}

	if err := writeJSON(c.Root().Writer, out); err != nil {
		return err
	}
	if validationErr != nil {
		return cli.Exit("", 1)
	}
	return nil
}

// extractFieldErrors extracts field errors from a validation error.
func extractFieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

func (cmd *ConfigValidateCmd) outputText(p *printer.Printer, validationErr error) error {
	fieldErrs := extractFieldErrors(validationErr)

	if len(fieldErrs) > 0 {
		p.Printf("Errors")
		for _, fe := range fieldErrs {
			if fe.Field != "" {
				p.Printf("  %s %s: %s", printer.Cross, fe.Field, fe.Err.Error())
			} else {
				p.Printf("  %s %s", printer.Cross, fe.Err.Error())
			}
		}
		p.Printf("")
	}

	if validationErr == nil {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%d error(s)", len(fieldErrs))
	return cli.Exit("", 1)
}

func (cmd *ConfigValidateCmd) runShow(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	if cmd.format == "json" {
		return writeJSON(c.Root().Writer, configView(cfg))
	}

	printer.NewAuto(c.Root().Writer).KeyValue(
		[2]string{"config", cmd.flags.ConfigPath},
		[2]string{"data_dir", cfg.DataDir},
		[2]string{"api.base_url", cfg.API.BaseURL},
		[2]string{"api.timeout", cfg.API.Timeout.String()},
		[2]string{"catalog.page_size", strconv.Itoa(cfg.Catalog.PageSize)},
		[2]string{"feed.limit", strconv.Itoa(cfg.Feed.Limit)},
		[2]string{"upload.max_bytes", strconv.FormatInt(cfg.Upload.MaxBytes, 10)},
	)
	return nil
}

func configView(cfg *config.Config) map[string]any {
	return map[string]any{
		"data_dir": cfg.DataDir,
		"api": map[string]any{
			"base_url": cfg.API.BaseURL,
			"timeout":  cfg.API.Timeout.String(),
		},
		"catalog": map[string]any{"page_size": cfg.Catalog.PageSize},
		"feed":    map[string]any{"limit": cfg.Feed.Limit},
		"upload": map[string]any{
			"max_bytes":   cfg.Upload.MaxBytes,
			"track_types": cfg.Upload.TrackTypes,
		},
	}
}
