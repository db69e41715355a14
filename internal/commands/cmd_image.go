package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/validate"
	"github.com/hay-kot/stride/internal/printer"
)

type ImageCmd struct {
	flags *Flags
	json  bool
}

// NewImageCmd creates a new image command
func NewImageCmd(flags *Flags) *ImageCmd {
	return &ImageCmd{flags: flags}
}

// Register adds the image command to the application
func (cmd *ImageCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "image",
		Usage: "Manage images attached to an activity",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List images",
				UsageText: "stride image ls <activity-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "print JSON",
						Destination: &cmd.json,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "add",
				Usage:     "Upload an image",
				UsageText: "stride image add <activity-id> <file>",
				Action:    cmd.runAdd,
			},
			{
				Name:      "rm",
				Usage:     "Delete an image",
				UsageText: "stride image rm <activity-id> <image-id>",
				Action:    cmd.runRemove,
			},
		},
	})

	return app
}

func (cmd *ImageCmd) runList(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if err := validate.ActivityID(id); err != nil {
		return err
	}

	images, err := cmd.flags.Service.Images(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch images: %w", err)
	}

	if cmd.json {
		return writeJSON(c.Root().Writer, images)
	}
	if len(images) == 0 {
		printer.Ctx(ctx).Infof("No images")
		return nil
	}

	rows := make([][]string, 0, len(images))
	for _, img := range images {
		rows = append(rows, []string{img.ID, img.URL})
	}
	printer.NewAuto(c.Root().Writer).Table([]string{"ID", "URL"}, rows)
	return nil
}

func (cmd *ImageCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}
	id := c.Args().Get(0)
	if err := validate.ActivityID(id); err != nil {
		return err
	}

	u, err := activity.OpenUpload(c.Args().Get(1))
	if err != nil {
		return err
	}
	if typ := activity.SniffType(u.Data); !strings.HasPrefix(typ, "image/") {
		return fmt.Errorf("%s is not an image (%s)", u.Filename, typ)
	}

	res := cmd.flags.Service.AddImage(ctx, id, u)
	if err := reportResult(ctx, res); err != nil {
		return err
	}
	if res.Image != nil {
		printer.Ctx(ctx).Infof("id %s", res.Image.ID)
	}
	return nil
}

func (cmd *ImageCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: %s", c.UsageText)
	}
	id, imageID := c.Args().Get(0), c.Args().Get(1)
	if err := validate.ActivityID(id); err != nil {
		return err
	}

	return reportResult(ctx, cmd.flags.Service.RemoveImage(ctx, id, imageID))
}
