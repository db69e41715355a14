// Package activity defines the canonical Activity entity, the raw record the
// API returns for it, and the interfaces the client core consumes.
package activity

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/hay-kot/stride/internal/core/duration"
)

// Activity is one recorded workout. DurationSeconds is the only stored form
// of the duration; Interval and HumanDuration derive from it.
type Activity struct {
	ID              string    `json:"id"`
	Start           time.Time `json:"start"`
	DurationSeconds float64   `json:"duration_seconds"`
	Distance        *float64  `json:"distance"`
	ElevationGain   *float64  `json:"elevation_gain"`
	ElevationLoss   *float64  `json:"elevation_loss"`
	TypeID          int       `json:"type_id"`
	SubTypeID       *int      `json:"sub_type_id"`
	Name            *string   `json:"name"`
	AvgSpeed        *float64  `json:"avg_speed"`
	MaxSpeed        *float64  `json:"max_speed"`
}

// Interval returns the duration in wire form, e.g. "PT1H2M3S".
func (a Activity) Interval() string {
	return duration.FromSeconds(a.DurationSeconds)
}

// HumanDuration returns the duration for display, e.g. "1h 2m".
func (a Activity) HumanDuration() string {
	return duration.Humanize(a.DurationSeconds)
}

// DisplayName returns the activity name or a fallback built from the start
// date when the activity is unnamed.
func (a Activity) DisplayName() string {
	if a.Name != nil && *a.Name != "" {
		return *a.Name
	}
	return "Activity on " + a.Start.Format("2006-01-02")
}

// MarshalJSON includes the derived duration forms alongside the stored fields.
func (a Activity) MarshalJSON() ([]byte, error) {
	type plain Activity
	return json.Marshal(struct {
		plain
		Duration     string `json:"duration"`
		DurationText string `json:"duration_text"`
	}{plain(a), a.Interval(), a.HumanDuration()})
}

// Filters constrain a catalog listing. Zero fields are unconstrained.
type Filters struct {
	Year      int `json:"year,omitempty"`
	Month     int `json:"month,omitempty"`
	TypeID    int `json:"type_id,omitempty"`
	SubTypeID int `json:"sub_type_id,omitempty"`
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Values encodes the set filters as query parameters.
func (f Filters) Values() url.Values {
	v := url.Values{}
	setInt(v, "year", f.Year)
	setInt(v, "month", f.Month)
	setInt(v, "type_id", f.TypeID)
	setInt(v, "sub_type_id", f.SubTypeID)
	return v
}

// ListQuery is one page request against the activity list endpoint.
type ListQuery struct {
	Limit   int
	Offset  int
	Filters Filters
}

// Values encodes the query, including limit and offset.
func (q ListQuery) Values() url.Values {
	v := q.Filters.Values()
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	return v
}

// Image is a picture attached to an activity.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Upload is a file sent as a multipart "file" field.
type Upload struct {
	Filename string
	Data     []byte
}

// OpenUpload reads the file at path into an Upload.
func OpenUpload(path string) (Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	return Upload{Filename: filepath.Base(path), Data: data}, nil
}

// Size returns the upload size in bytes.
func (u Upload) Size() int { return len(u.Data) }

func setInt(v url.Values, key string, n int) {
	if n != 0 {
		v.Set(key, strconv.Itoa(n))
	}
}
