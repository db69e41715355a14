package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBatchInput_Validate(t *testing.T) {
	track := filepath.Join(t.TempDir(), "run.gpx")
	if err := os.WriteFile(track, []byte("<gpx/>"), 0o644); err != nil {
		t.Fatalf("write track: %v", err)
	}

	valid := BatchActivity{Start: "2024-06-01 07:30", Duration: "45m", Distance: 8.2, TypeID: 1}

	tests := []struct {
		name    string
		input   BatchInput
		wantErr string
	}{
		{
			name:    "empty activities",
			input:   BatchInput{Activities: []BatchActivity{}},
			wantErr: "activities",
		},
		{
			name: "bad start",
			input: BatchInput{Activities: []BatchActivity{
				{Start: "tomorrow", Duration: "45m", TypeID: 1},
			}},
			wantErr: "activities[0]",
		},
		{
			name: "bad duration",
			input: BatchInput{Activities: []BatchActivity{
				valid,
				{Start: "2024-06-01", Duration: "soon", TypeID: 1},
			}},
			wantErr: "activities[1]",
		},
		{
			name: "missing type",
			input: BatchInput{Activities: []BatchActivity{
				{Start: "2024-06-01", Duration: "PT30M"},
			}},
			wantErr: "activities[0]",
		},
		{
			name: "missing track",
			input: BatchInput{Activities: []BatchActivity{
				{Start: "2024-06-01", Duration: "PT30M", TypeID: 1, Track: "/does/not/exist.gpx"},
			}},
			wantErr: "track",
		},
		{
			name: "valid input",
			input: BatchInput{Activities: []BatchActivity{
				valid,
				{Start: "2024-06-02T18:00:00Z", Duration: "PT1H", Distance: 20, TypeID: 2, Track: track},
			}},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Errorf("expected error containing %q, got nil", tt.wantErr)
				return
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestDecodeBatch(t *testing.T) {
	jsonInput := `{
		"activities": [
			{"start": "2024-06-01 07:30", "duration": "45m", "distance": 8.2, "type_id": 1},
			{"start": "2024-06-02 07:30", "duration": "PT1H", "distance": 12, "type_id": 1, "elevation_up": 140, "name": "Hills"}
		]
	}`

	input, err := decodeBatch(strings.NewReader(jsonInput))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(input.Activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(input.Activities))
	}

	if input.Activities[1].Name != "Hills" {
		t.Errorf("expected name 'Hills', got %q", input.Activities[1].Name)
	}

	if input.Activities[1].ElevationUp == nil || *input.Activities[1].ElevationUp != 140 {
		t.Errorf("expected elevation_up 140, got %v", input.Activities[1].ElevationUp)
	}

	if input.Activities[0].ElevationUp != nil {
		t.Errorf("expected no elevation_up, got %v", *input.Activities[0].ElevationUp)
	}

	if _, err := decodeBatch(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestBatchActivity_Input(t *testing.T) {
	a := BatchActivity{Start: "2024-06-01 07:30", Duration: "1h5m", Distance: 8.2, TypeID: 1, DefaultEquipment: true}

	in, err := a.Input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}

	if in.Distance != 8200 {
		t.Errorf("expected distance converted to 8200 meters, got %v", in.Distance)
	}
	if in.Duration != "PT1H5M" {
		t.Errorf("expected duration PT1H5M, got %q", in.Duration)
	}
	if !in.AttachDefaultEquipment {
		t.Error("expected default equipment to be attached")
	}
	if got := a.label(); got != "2024-06-01 07:30" {
		t.Errorf("expected start as label, got %q", got)
	}
}

func TestCountByStatus(t *testing.T) {
	results := []BatchResult{
		{Status: StatusCreated},
		{Status: StatusCreated},
		{Status: StatusPartial},
		{Status: StatusFailed},
		{Status: StatusSkipped},
		{Status: StatusSkipped},
		{Status: StatusSkipped},
	}

	if got := countByStatus(results, StatusCreated); got != 2 {
		t.Errorf("countByStatus(created) = %d, want 2", got)
	}
	if got := countByStatus(results, StatusPartial); got != 1 {
		t.Errorf("countByStatus(partial) = %d, want 1", got)
	}
	if got := countByStatus(results, StatusFailed); got != 1 {
		t.Errorf("countByStatus(failed) = %d, want 1", got)
	}
	if got := countByStatus(results, StatusSkipped); got != 3 {
		t.Errorf("countByStatus(skipped) = %d, want 3", got)
	}
}
