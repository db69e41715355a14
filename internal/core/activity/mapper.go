package activity

import (
	"gopkg.in/guregu/null.v3"

	"github.com/hay-kot/stride/internal/core/duration"
)

// Map converts a raw record into an Activity. Absent optional fields map to
// nil, never to zero values, so "unknown" stays distinguishable from "zero".
func Map(r Record) Activity {
	return Activity{
		ID:              r.ID,
		Start:           r.Start.Time,
		DurationSeconds: duration.Decode(r.Duration.ValueOrZero()),
		Distance:        r.Distance.Ptr(),
		ElevationGain:   r.ElevationChangeUp.Ptr(),
		ElevationLoss:   r.ElevationChangeDown.Ptr(),
		TypeID:          int(r.TypeID.ValueOrZero()),
		SubTypeID:       intPtr(r.SubTypeID),
		Name:            r.Name.Ptr(),
		AvgSpeed:        r.AvgSpeed.Ptr(),
		MaxSpeed:        r.MaxSpeed.Ptr(),
	}
}

// MapAll maps records in order.
func MapAll(records []Record) []Activity {
	out := make([]Activity, 0, len(records))
	for _, r := range records {
		out = append(out, Map(r))
	}
	return out
}

func intPtr(n null.Int) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
