package activity

import "gopkg.in/guregu/null.v3"

// TrackPoint is one sample of an activity's recorded track.
type TrackPoint struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	Elevation *float64 `json:"ele"`
	Distance  float64  `json:"dist"` // cumulative meters
	Speed     *float64 `json:"speed"`
	HeartRate *float64 `json:"hr"`
	Cadence   *float64 `json:"cad"`
	Power     *float64 `json:"power"`
}

// TrackRecord is the raw track point returned by the API.
type TrackRecord struct {
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Elevation   null.Float `json:"elevation"`
	CumDistance float64    `json:"cum_distance"`
	SpeedMS     null.Float `json:"speed_m_s"`
	HeartRate   null.Float `json:"heartrate"`
	Cadence     null.Float `json:"cadence"`
	Power       null.Float `json:"power"`
}

// MapTrack converts raw track points, preserving order.
func MapTrack(records []TrackRecord) []TrackPoint {
	out := make([]TrackPoint, 0, len(records))
	for _, r := range records {
		out = append(out, TrackPoint{
			Lat:       r.Latitude,
			Lon:       r.Longitude,
			Elevation: r.Elevation.Ptr(),
			Distance:  r.CumDistance,
			Speed:     r.SpeedMS.Ptr(),
			HeartRate: r.HeartRate.Ptr(),
			Cadence:   r.Cadence.Ptr(),
			Power:     r.Power.Ptr(),
		})
	}
	return out
}

// TrackSummary aggregates a track for display.
type TrackSummary struct {
	Points       int
	Distance     float64
	MaxElevation *float64
	MinElevation *float64
	MaxHeartRate *float64
}

// Summarize computes a TrackSummary. Distance is the last cumulative value.
func Summarize(points []TrackPoint) TrackSummary {
	s := TrackSummary{Points: len(points)}
	for _, p := range points {
		if p.Distance > s.Distance {
			s.Distance = p.Distance
		}
		s.MaxElevation = maxPtr(s.MaxElevation, p.Elevation)
		s.MinElevation = minPtr(s.MinElevation, p.Elevation)
		s.MaxHeartRate = maxPtr(s.MaxHeartRate, p.HeartRate)
	}
	return s
}

func maxPtr(cur, v *float64) *float64 {
	if v == nil {
		return cur
	}
	if cur == nil || *v > *cur {
		x := *v
		return &x
	}
	return cur
}

func minPtr(cur, v *float64) *float64 {
	if v == nil {
		return cur
	}
	if cur == nil || *v < *cur {
		x := *v
		return &x
	}
	return cur
}
