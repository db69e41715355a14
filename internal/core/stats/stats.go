// Package stats holds the yearly and weekly aggregates served by the API.
package stats

import (
	"context"
	"maps"
	"slices"
	"strconv"
)

// PerType maps an activity type id (as a string key) to a value.
type PerType map[string]float64

// Metric is a total plus its per-type breakdown.
type Metric struct {
	Total   float64 `json:"total"`
	PerType PerType `json:"per_type"`
}

// YearStats are the totals for one calendar year, or all time when no year
// was requested.
type YearStats struct {
	Distance Metric `json:"distance"`
	Duration Metric `json:"duration"`
	Count    Metric `json:"count"`
}

// Series is a weekly metric: a value per day, a breakdown per sub-type and a
// total. Days without data have a nil value.
type Series struct {
	PerDay  map[string]*float64 `json:"per_day"`
	PieData map[string]float64  `json:"pie_data"`
	Total   float64             `json:"total"`
}

// Days returns the day keys in ascending order.
func (s Series) Days() []string {
	return slices.Sorted(maps.Keys(s.PerDay))
}

// WeeklyStats are the per-day aggregates for one ISO week.
type WeeklyStats struct {
	Distance      Series `json:"distance"`
	ElevationGain Series `json:"elevation_gain"`
	Duration      Series `json:"duration"`
}

// WeekQuery selects a week. Zero Year or Week means the current one.
type WeekQuery struct {
	Year   int
	Week   int
	TypeID int
}

// Remote fetches statistics.
type Remote interface {
	Yearly(ctx context.Context, year int) (YearStats, error)
	Weekly(ctx context.Context, q WeekQuery) (WeeklyStats, error)
}

// TypeIDs returns the type ids present in a per-type map, ascending.
// Keys that are not integers are skipped.
func (p PerType) TypeIDs() []int {
	ids := make([]int, 0, len(p))
	for k := range p {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Get returns the value for a type id.
func (p PerType) Get(typeID int) float64 {
	return p[strconv.Itoa(typeID)]
}
