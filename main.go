package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/catalog"
	"github.com/hay-kot/stride/internal/commands"
	"github.com/hay-kot/stride/internal/core/config"
	"github.com/hay-kot/stride/internal/core/credential"
	"github.com/hay-kot/stride/internal/feed"
	"github.com/hay-kot/stride/internal/printer"
	"github.com/hay-kot/stride/internal/remote"
	"github.com/hay-kot/stride/internal/store/jsonfile"
	"github.com/hay-kot/stride/internal/stride"
	"github.com/hay-kot/stride/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

var _ stride.Backend = (*remote.Client)(nil)

// diagnosticCommands still run when the config file fails validation.
var diagnosticCommands = []string{"doctor", "config"}

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("info", "", nil); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{}
	)

	var deferredLogs *utils.DeferredWriter

	app := &cli.Command{
		Name:      "stride",
		Usage:     "Track and manage your activities",
		UsageText: "stride [global options] command [command options]",
		Description: `Stride keeps a local view of your activity log in sync with the activity API.

Create, edit and delete activities, upload GPX/FIT/TCX tracks and images, and
browse your history with filters by year and month.

Run 'stride' with no arguments to open the interactive activity browser.
Run 'stride token set' to store your API token.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("STRIDE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("STRIDE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("STRIDE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("STRIDE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "override the API base URL from the config file",
				Sources:     cli.EnvVars("STRIDE_API_URL"),
				Destination: &flags.APIURL,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       "API token, takes precedence over the stored one",
				Sources:     cli.EnvVars("STRIDE_TOKEN"),
				Destination: &flags.Token,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Detect TUI mode: no subcommand means TUI (default action)
			isTUI := c.Args().Len() == 0

			// In TUI mode, buffer logs to display after exit
			var deferred io.Writer
			if isTUI {
				deferredLogs = &utils.DeferredWriter{}
				deferred = deferredLogs
			}

			if err := setupLogger(flags.LogLevel, flags.LogFile, deferred); err != nil {
				return ctx, err
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				if !slices.Contains(diagnosticCommands, c.Args().First()) {
					return ctx, fmt.Errorf("load config: %w", err)
				}
				cfg, err = config.Read(flags.ConfigPath, flags.DataDir)
				if err != nil {
					return ctx, fmt.Errorf("load config: %w", err)
				}
			}
			if flags.APIURL != "" {
				cfg.API.BaseURL = flags.APIURL
			}
			flags.Config = cfg

			flags.Credentials = jsonfile.NewCredentialStore(cfg.CredentialsFile())
			flags.Creds = credential.Chain{credential.Static(flags.Token), flags.Credentials}

			// Create service
			var (
				creds  = flags.Creds
				logger = log.With().Str("component", "stride").Logger()
				client = remote.New(
					cfg.API.BaseURL,
					creds,
					log.With().Str("component", "remote").Logger(),
					remote.WithTimeout(cfg.API.Timeout),
					remote.WithMaxUpload(cfg.Upload.MaxBytes),
				)
				recent = feed.New(client, creds, cfg.Feed.Limit, log.With().Str("component", "feed").Logger())
				cat    = catalog.New(client, creds, cfg.Catalog.PageSize, log.With().Str("component", "catalog").Logger())
			)

			flags.Client = client
			flags.Service = stride.New(client, creds, recent, cat, logger)
			return ctx, nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)

	app = commands.NewNewCmd(flags).Register(app)
	app = commands.NewEditCmd(flags).Register(app)
	app = commands.NewRmCmd(flags).Register(app)
	app = commands.NewLsCmd(flags).Register(app)
	app = commands.NewRecentCmd(flags).Register(app)
	app = commands.NewShowCmd(flags).Register(app)
	app = commands.NewImportCmd(flags).Register(app)
	app = commands.NewBatchCmd(flags).Register(app)
	app = commands.NewImageCmd(flags).Register(app)
	app = commands.NewStatsCmd(flags).Register(app)
	app = commands.NewTypesCmd(flags).Register(app)
	app = commands.NewSettingsCmd(flags).Register(app)
	app = commands.NewTokenCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'stride --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		printer.Ctx(ctx).FatalError(err)
		exitCode = 1
	}

	// Flush deferred logs to console after TUI exits
	if deferredLogs != nil {
		if err := deferredLogs.Flush(zerolog.ConsoleWriter{Out: os.Stderr}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}

	os.Exit(exitCode)
}

func setupLogger(level string, logFile string, deferred io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		if deferred != nil {
			// TUI mode with explicit log file - write to both file and deferred buffer
			output = io.MultiWriter(file, deferred)
		} else {
			output = io.MultiWriter(
				zerolog.ConsoleWriter{Out: os.Stderr},
				file,
			)
		}
	} else if deferred != nil {
		// TUI mode without log file - buffer for display after exit
		output = deferred
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}
