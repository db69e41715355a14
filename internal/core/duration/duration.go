// Package duration converts between the API's ISO 8601 interval strings
// (e.g. "PT1H30M", "P1DT2H", "PT12.5S") and a seconds count.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var intervalRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// Decode parses an interval string into seconds. Missing components count as
// zero. Empty or malformed input decodes to 0.
func Decode(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	m := intervalRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	// A component that does not parse makes the whole interval malformed.
	var total float64
	for i, unit := range []float64{86400, 3600, 60, 1} {
		n, ok := component(m[i+1])
		if !ok {
			return 0
		}
		total += n * unit
	}
	return total
}

// Encode builds an interval string from user-entered fields. The result always
// carries at least a seconds component, so Encode(0, 0, 0) is "PT0S".
// Negative inputs are treated as zero.
func Encode(hours, minutes, seconds int) string {
	hours, minutes, seconds = max(hours, 0), max(minutes, 0), max(seconds, 0)

	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 || (hours == 0 && minutes == 0) {
		fmt.Fprintf(&b, "%dS", seconds)
	}
	return b.String()
}

// FromSeconds encodes a seconds count, truncating any fractional part.
func FromSeconds(seconds float64) string {
	total := int(math.Max(seconds, 0))
	return Encode(total/3600, (total%3600)/60, total%60)
}

// Humanize renders seconds as "<H>h <M>m" when at least an hour, otherwise
// "<M>m <S>s". Components are truncated.
func Humanize(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}

// component parses one matched interval field. Absent fields are zero.
// Fields too large for an int are rejected.
func component(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	if !strings.Contains(s, ".") {
		n, err := strconv.Atoi(s)
		return float64(n), err == nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
