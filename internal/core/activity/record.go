package activity

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/hay-kot/criterio"
	"gopkg.in/guregu/null.v3"
)

// Record is the raw activity object returned by the API.
type Record struct {
	ID                  string      `json:"id"`
	Start               Timestamp   `json:"start"`
	Duration            null.String `json:"duration"`
	Distance            null.Float  `json:"distance"`
	ElevationChangeUp   null.Float  `json:"elevation_change_up"`
	ElevationChangeDown null.Float  `json:"elevation_change_down"`
	TypeID              null.Int    `json:"type_id"`
	SubTypeID           null.Int    `json:"sub_type_id"`
	Name                null.String `json:"name"`
	AvgSpeed            null.Float  `json:"avg_speed"`
	MaxSpeed            null.Float  `json:"max_speed"`
}

// Validate checks the fields the client cannot work without.
func (r Record) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if r.ID == "" {
		errs = errs.Append("id", fmt.Errorf("is required"))
	}
	if r.Start.IsZero() {
		errs = errs.Append("start", fmt.Errorf("is required"))
	}
	if !r.TypeID.Valid {
		errs = errs.Append("type_id", fmt.Errorf("is required"))
	}

	return errs.ToError()
}

// Timestamp accepts RFC 3339 instants as well as the naive
// "2006-01-02T15:04:05" form, which is read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseTimestamp parses s using the layouts the API is known to emit.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp: unrecognized format %q", s)
}
