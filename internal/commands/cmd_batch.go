package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/form"
)

const (
	// StatusCreated indicates the activity was created successfully.
	StatusCreated = "created"
	// StatusPartial indicates the activity was created but its track upload failed.
	StatusPartial = "partial"
	// StatusFailed indicates the activity creation failed.
	StatusFailed = "failed"
	// StatusSkipped indicates the activity was not attempted due to failure threshold.
	StatusSkipped = "skipped"

	// maxFailures is the number of failures before stopping batch processing.
	maxFailures = 3
)

// BatchInput is the JSON input schema for batch activity creation.
type BatchInput struct {
	Activities []BatchActivity `json:"activities"`
}

// Validate checks the batch input for errors using criterio.
func (b BatchInput) Validate() error {
	if len(b.Activities) == 0 {
		return criterio.NewFieldErrors("activities", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, a := range b.Activities {
		field := fmt.Sprintf("activities[%d]", i)

		if _, err := a.Input(); err != nil {
			errs = errs.Append(field, err)
			continue
		}

		if a.Track != "" {
			if _, err := os.Stat(a.Track); err != nil {
				errs = errs.Append(field+".track", fmt.Errorf("file not found"))
			}
		}
	}

	return errs.ToError()
}

// BatchActivity defines a single activity to create.
type BatchActivity struct {
	Start            string   `json:"start"`
	Duration         string   `json:"duration"`
	Distance         float64  `json:"distance"`
	TypeID           int      `json:"type_id"`
	SubTypeID        int      `json:"sub_type_id,omitempty"`
	Name             string   `json:"name,omitempty"`
	ElevationUp      *float64 `json:"elevation_up,omitempty"`
	ElevationDown    *float64 `json:"elevation_down,omitempty"`
	Track            string   `json:"track,omitempty"`
	DefaultEquipment bool     `json:"default_equipment,omitempty"`
}

// Input converts the entry into a create request.
func (a BatchActivity) Input() (activity.CreateInput, error) {
	start, err := form.ParseStart(a.Start)
	if err != nil {
		return activity.CreateInput{}, err
	}
	interval, err := form.ParseDuration(a.Duration)
	if err != nil {
		return activity.CreateInput{}, err
	}

	in := activity.CreateInput{
		Start:                  start,
		Duration:               interval,
		Distance:               activity.KmToMeters(a.Distance),
		TypeID:                 a.TypeID,
		SubTypeID:              a.SubTypeID,
		Name:                   a.Name,
		ElevationUp:            a.ElevationUp,
		ElevationDown:          a.ElevationDown,
		AttachDefaultEquipment: a.DefaultEquipment,
	}
	return in, in.Validate()
}

// label names the entry in logs and results.
func (a BatchActivity) label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Start
}

// BatchResult is the output for a single activity creation attempt.
type BatchResult struct {
	Name       string `json:"name"`
	ActivityID string `json:"activity_id,omitempty"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchOutput is the JSON output schema.
type BatchOutput struct {
	BatchID string        `json:"batch_id"`
	LogFile string        `json:"log_file"`
	Results []BatchResult `json:"results"`
}

// BatchErrorOutput is the JSON output for fatal errors.
type BatchErrorOutput struct {
	Error string `json:"error"`
}

type BatchCmd struct {
	flags *Flags
	file  string
}

func NewBatchCmd(flags *Flags) *BatchCmd {
	return &BatchCmd{flags: flags}
}

func (cmd *BatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "batch",
		Usage: "Create multiple activities from JSON input",
		UsageText: `stride batch [options]

Read from stdin:
  echo '{"activities":[{"start":"2024-06-01 07:30","duration":"45m","distance":8.2,"type_id":1}]}' | stride batch

Read from file:
  stride batch -f activities.json`,
		Description: `Creates activities from a JSON document.

Each activity in the input array is created sequentially. When "track" names a
file it is uploaded after the activity is created; a failed upload keeps the
activity and reports the entry as partial.

Distances are in kilometres. Processing stops after 3 failures. Activities not attempted are marked as skipped.

Input JSON schema:
  {
    "activities": [
      {
        "start": "2024-06-01 07:30",
        "duration": "PT45M",
        "distance": 8.2,
        "type_id": 1,
        "sub_type_id": 0,
        "name": "optional name",
        "elevation_up": 120,
        "elevation_down": 115,
        "track": "optional/path/to/run.gpx",
        "default_equipment": false
      }
    ]
  }

Output is JSON with a batch ID, log file path, and results for each activity.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to JSON file (reads from stdin if not provided)",
				Destination: &cmd.file,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BatchCmd) run(ctx context.Context, c *cli.Command) error {
	batchID := newBatchID()
	out := c.Root().Writer

	logger, logFile, err := cmd.setupLogger(batchID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batch %s: failed to setup logger: %v\n", batchID, err)
		return cmd.writeError(out, fmt.Errorf("setup logger: %w", err))
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
		}
	}()

	logger.Info().Str("batch_id", batchID).Msg("starting batch processing")

	input, err := cmd.readInput()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return cmd.writeError(out, fmt.Errorf("read input: %w", err))
	}

	if err := input.Validate(); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		return cmd.writeError(out, fmt.Errorf("invalid input: %w", err))
	}

	output := BatchOutput{
		BatchID: batchID,
		LogFile: logFile.Name(),
		Results: cmd.createAll(ctx, logger, input.Activities),
	}

	logger.Info().
		Int("total", len(input.Activities)).
		Int("created", countByStatus(output.Results, StatusCreated)).
		Int("partial", countByStatus(output.Results, StatusPartial)).
		Int("failed", countByStatus(output.Results, StatusFailed)).
		Int("skipped", countByStatus(output.Results, StatusSkipped)).
		Msg("batch processing complete")

	cmd.flags.Service.Wait()
	return cmd.writeOutput(out, output)
}

func (cmd *BatchCmd) createAll(ctx context.Context, logger zerolog.Logger, entries []BatchActivity) []BatchResult {
	results := make([]BatchResult, 0, len(entries))

	failures := 0
	for i, a := range entries {
		if failures >= maxFailures {
			logger.Warn().Str("name", a.label()).Msg("skipping activity due to failure threshold")
			for j := i; j < len(entries); j++ {
				results = append(results, BatchResult{
					Name:   entries[j].label(),
					Status: StatusSkipped,
				})
			}
			break
		}

		logger.Info().Str("name", a.label()).Int("index", i).Msg("creating activity")

		result := cmd.createActivity(ctx, a)
		results = append(results, result)

		switch result.Status {
		case StatusFailed:
			failures++
			logger.Error().Str("name", a.label()).Str("error", result.Error).Msg("activity creation failed")
		case StatusPartial:
			logger.Warn().Str("name", a.label()).Str("activity_id", result.ActivityID).Str("error", result.Error).Msg("track upload failed")
		default:
			logger.Info().Str("name", a.label()).Str("activity_id", result.ActivityID).Msg("activity created")
		}
	}

	return results
}

func (cmd *BatchCmd) setupLogger(batchID string) (zerolog.Logger, *os.File, error) {
	logsDir := cmd.flags.Config.LogsDir()
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("create logs dir: %w", err)
	}

	logPath := filepath.Join(logsDir, fmt.Sprintf("batch-%s.log", batchID))
	file, err := os.Create(logPath)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("create log file: %w", err)
	}

	logger := zerolog.New(file).With().Timestamp().Logger()
	return logger, file, nil
}

func (cmd *BatchCmd) readInput() (BatchInput, error) {
	var reader io.Reader

	if cmd.file != "" {
		f, err := os.Open(cmd.file)
		if err != nil {
			return BatchInput{}, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return BatchInput{}, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
		}
		reader = os.Stdin
	}

	return decodeBatch(reader)
}

func decodeBatch(r io.Reader) (BatchInput, error) {
	var input BatchInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return BatchInput{}, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}

func (cmd *BatchCmd) createActivity(ctx context.Context, a BatchActivity) BatchResult {
	in, err := a.Input()
	if err != nil {
		return BatchResult{Name: a.label(), Status: StatusFailed, Error: err.Error()}
	}

	var track *activity.Upload
	if a.Track != "" {
		u, err := activity.OpenUpload(a.Track)
		if err != nil {
			return BatchResult{Name: a.label(), Status: StatusFailed, Error: err.Error()}
		}
		track = &u
	}

	res := cmd.flags.Service.Create(ctx, in, track)

	result := BatchResult{Name: a.label(), Message: res.Message}
	if res.Activity != nil {
		result.ActivityID = res.Activity.ID
	}
	if res.Err != nil {
		result.Error = res.Err.Error()
	}

	switch {
	case !res.Success:
		result.Status = StatusFailed
	case res.Partial():
		result.Status = StatusPartial
	default:
		result.Status = StatusCreated
	}
	return result
}

func (cmd *BatchCmd) writeOutput(w io.Writer, output BatchOutput) error {
	if err := writeJSON(w, output); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to write JSON output: %v\n", err)
		fmt.Fprintf(os.Stderr, "batch_id: %s\n", output.BatchID)
		fmt.Fprintf(os.Stderr, "log_file: %s\n", output.LogFile)
		fmt.Fprintf(os.Stderr, "results: %d created, %d partial, %d failed, %d skipped\n",
			countByStatus(output.Results, StatusCreated),
			countByStatus(output.Results, StatusPartial),
			countByStatus(output.Results, StatusFailed),
			countByStatus(output.Results, StatusSkipped))
		return err
	}
	if n := countByStatus(output.Results, StatusFailed); n > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *BatchCmd) writeError(w io.Writer, err error) error {
	if encErr := writeJSON(w, BatchErrorOutput{Error: err.Error()}); encErr != nil {
		fmt.Fprintf(os.Stderr, "error: %s (failed to write JSON: %v)\n", err, encErr)
	}
	return err
}

// newBatchID returns a short id for log file names and output.
func newBatchID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func countByStatus(results []BatchResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}
