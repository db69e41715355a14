// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/stride/internal/core/duration"
)

// ActivityID validates an activity identifier is non-empty and free of path
// separators, since it is interpolated into request paths.
func ActivityID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("activity id is required")
	}
	if strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("activity id %q contains invalid characters", id)
	}
	return nil
}

// Month validates m is 0 (unset) or a calendar month.
func Month(m int) error {
	if m < 0 || m > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	return nil
}

// Year validates y is 0 (unset) or a plausible four digit year.
func Year(y int) error {
	if y != 0 && (y < 1900 || y > 9999) {
		return fmt.Errorf("year must be a four digit year")
	}
	return nil
}

// NonNegative validates v is not below zero.
func NonNegative(v float64) error {
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

// Interval validates text is a well formed, non-zero duration interval.
func Interval(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("duration is required")
	}
	if duration.Decode(text) <= 0 {
		return fmt.Errorf("duration %q must be a positive interval such as PT1H30M", text)
	}
	return nil
}

// Clock validates user entered hour, minute and second fields.
func Clock(h, m, s int) error {
	if h < 0 || m < 0 || s < 0 {
		return fmt.Errorf("hours, minutes and seconds must not be negative")
	}
	if m > 59 || s > 59 {
		return fmt.Errorf("minutes and seconds must be below 60")
	}
	if h == 0 && m == 0 && s == 0 {
		return fmt.Errorf("duration must be greater than zero")
	}
	return nil
}
