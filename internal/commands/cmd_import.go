package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/printer"
)

type ImportCmd struct {
	flags  *Flags
	dryRun bool
	json   bool
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags) *ImportCmd {
	return &ImportCmd{flags: flags}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Create activities from track files",
		UsageText: "stride import <path|glob>... [options]",
		Description: `Creates one activity per track file, letting the server infer its fields.

Arguments may be files, directories or doublestar globs. Files whose content
is not one of upload.track_types are skipped.

Example:
  stride import ~/Downloads/*.gpx
  stride import 'exports/**/*.{fit,gpx}' --dry-run`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "list the files that would be imported",
				Destination: &cmd.dryRun,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print results as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

// importResult is the outcome for one file.
type importResult struct {
	File     string `json:"file"`
	Size     int    `json:"size"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Activity string `json:"activity_id,omitempty"`
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	patterns := c.Args().Slice()
	if len(patterns) == 0 {
		return fmt.Errorf("at least one path or glob is required")
	}

	paths, err := expandPaths(patterns)
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	uploads, skipped := collectTracks(paths, cmd.flags.Config.Upload.TrackTypes)
	for _, s := range skipped {
		p.Warnf("skipping %s", s)
	}
	if len(uploads) == 0 {
		return fmt.Errorf("no track files found")
	}

	if cmd.dryRun {
		rows := make([][]string, 0, len(uploads))
		for _, u := range uploads {
			rows = append(rows, []string{u.path, activity.SniffType(u.Data), humanize.Bytes(uint64(u.Size()))})
		}
		printer.NewAuto(c.Root().Writer).Table([]string{"FILE", "TYPE", "SIZE"}, rows)
		return nil
	}

	svc := cmd.flags.Service
	defer svc.Wait()

	results := make([]importResult, 0, len(uploads))
	var failed int
	for _, u := range uploads {
		res := svc.AutoCreate(ctx, u.Upload)
		r := importResult{File: u.path, Size: u.Size(), Success: res.Success, Message: res.Message}
		if res.Activity != nil {
			r.Activity = res.Activity.ID
		}
		results = append(results, r)

		if !res.Success {
			failed++
			log.Warn().Err(res.Err).Str("file", u.path).Msg("import failed")
			if !cmd.json {
				p.FailItem(u.path, res.Message)
			}
			continue
		}
		if !cmd.json {
			p.CheckItem(u.path, fmt.Sprintf("%s (%s)", r.Activity, humanize.Bytes(uint64(u.Size()))))
		}
	}

	if cmd.json {
		if err := writeJSON(c.Root().Writer, results); err != nil {
			return err
		}
	} else {
		p.Printf("\n%d imported, %d failed\n", len(results)-failed, failed)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(results))
	}
	return nil
}

type trackFile struct {
	activity.Upload
	path string
}

// expandPaths resolves files, directories and globs into a sorted, de-duplicated
// list of regular files. Directories are walked recursively.
func expandPaths(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, pattern := range patterns {
		info, err := os.Stat(pattern)
		switch {
		case err == nil && info.IsDir():
			matches, err := doublestar.FilepathGlob(filepath.Join(pattern, "**", "*"), doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("walk %s: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
		case err == nil:
			add(pattern)
		default:
			if !doublestar.ValidatePathPattern(pattern) {
				return nil, fmt.Errorf("invalid pattern %q", pattern)
			}
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %s: %w", pattern, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%s: no such file", pattern)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	slices.Sort(out)
	return out, nil
}

// collectTracks reads paths and keeps those whose content is an accepted
// track type. Skipped entries carry the reason.
func collectTracks(paths []string, accepted []string) ([]trackFile, []string) {
	var (
		tracks  []trackFile
		skipped []string
	)
	for _, path := range paths {
		u, err := activity.OpenUpload(path)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if !u.IsTrack(accepted) {
			skipped = append(skipped, fmt.Sprintf("%s: not a track file (%s)", path, activity.SniffType(u.Data)))
			continue
		}
		tracks = append(tracks, trackFile{Upload: u, path: path})
	}
	return tracks, skipped
}
