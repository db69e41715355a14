package activity

import (
	"strconv"

	"github.com/hay-kot/stride/pkg/tmpl"
)

// Distances are meters on the wire and in Activity. Users read and type
// kilometres.
const metersPerKm = 1000

// KmToMeters converts user input in kilometres to meters.
func KmToMeters(km float64) float64 { return km * metersPerKm }

// FormatKm renders a distance in meters as kilometres with two decimals.
func FormatKm(meters *float64) string {
	if meters == nil {
		return tmpl.Placeholder
	}
	return strconv.FormatFloat(*meters/metersPerKm, 'f', 2, 64) + " km"
}
