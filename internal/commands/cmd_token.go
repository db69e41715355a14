package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/credential"
	"github.com/hay-kot/stride/internal/printer"
	"github.com/hay-kot/stride/internal/styles"
)

type TokenCmd struct {
	flags *Flags
	stdin bool
}

// NewTokenCmd creates a new token command
func NewTokenCmd(flags *Flags) *TokenCmd {
	return &TokenCmd{flags: flags}
}

// Register adds the token command to the application
func (cmd *TokenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "token",
		Usage: "Manage the stored API token",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Store a bearer token",
				UsageText: "stride token set [token] [--stdin]",
				Description: `Stores the token in the data directory. Without an argument the token
is read from a masked prompt, or from standard input with --stdin.`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "stdin",
						Usage:       "read the token from standard input",
						Destination: &cmd.stdin,
					},
				},
				Action: cmd.runSet,
			},
			{
				Name:   "clear",
				Usage:  "Remove the stored token",
				Action: cmd.runClear,
			},
			{
				Name:   "status",
				Usage:  "Show where the active token comes from",
				Action: cmd.runStatus,
			},
		},
	})

	return app
}

func (cmd *TokenCmd) runSet(ctx context.Context, c *cli.Command) error {
	token, err := cmd.readToken(ctx, c)
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is empty")
	}

	if err := cmd.flags.Credentials.Set(token); err != nil {
		return err
	}
	printer.Ctx(ctx).Successf("Token saved to %s", cmd.flags.Credentials.Path())
	return nil
}

func (cmd *TokenCmd) readToken(ctx context.Context, c *cli.Command) (string, error) {
	if c.Args().Len() > 0 {
		return c.Args().First(), nil
	}

	if cmd.stdin || !printer.IsTerminal(os.Stdin) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read token: %w", err)
		}
		return line, nil
	}

	var token string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("API token").
			EchoMode(huh.EchoModePassword).
			Value(&token).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("token is required")
				}
				return nil
			}),
	)).WithTheme(styles.FormTheme()).RunWithContext(ctx)
	return token, err
}

func (cmd *TokenCmd) runClear(ctx context.Context, _ *cli.Command) error {
	if err := cmd.flags.Credentials.Clear(); err != nil {
		return err
	}
	printer.Ctx(ctx).Successf("Token removed")
	if cmd.flags.Token != "" {
		printer.Ctx(ctx).Warnf("--token / STRIDE_TOKEN is still set")
	}
	return nil
}

func (cmd *TokenCmd) runStatus(ctx context.Context, c *cli.Command) error {
	p := printer.NewAuto(c.Root().Writer)

	if !credential.Authenticated(cmd.flags.Creds) {
		p.KeyValue([2]string{"Status", "not authenticated"})
		return cli.Exit("", 1)
	}

	updated := ""
	if cmd.flags.Token == "" {
		if file, err := cmd.flags.Credentials.Load(); err == nil && !file.UpdatedAt.IsZero() {
			updated = humanize.Time(file.UpdatedAt)
		}
	}

	p.KeyValue(
		[2]string{"Status", "authenticated"},
		[2]string{"Source", cmd.flags.TokenSource()},
		[2]string{"Token", maskToken(cmd.flags.Creds.Token())},
		[2]string{"Saved", updated},
	)
	return nil
}

// maskToken keeps the last four characters of long tokens.
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
