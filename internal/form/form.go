// Package form builds the interactive activity form and parses the text
// values shared by the form and command line flags.
package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/stride/internal/core/activity"
	"github.com/hay-kot/stride/internal/core/duration"
	"github.com/hay-kot/stride/internal/core/validate"
	"github.com/hay-kot/stride/internal/styles"
)

// StartLayout is the layout shown to users for start times.
const StartLayout = "2006-01-02 15:04"

var startLayouts = []string{
	StartLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseStart parses a start time in local time. RFC 3339 values keep their
// offset.
func ParseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start %q, use %q", s, StartLayout)
}

// ParseDuration accepts an interval ("PT1H30M") or a Go duration ("1h30m")
// and returns the interval form.
func ParseDuration(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToUpper(s), "P") {
		s = strings.ToUpper(s)
		if err := validate.Interval(s); err != nil {
			return "", err
		}
		return s, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return "", fmt.Errorf("invalid duration %q, use e.g. 1h30m or PT1H30M", s)
	}
	return duration.FromSeconds(d.Seconds()), nil
}

// Values are the raw form fields. Numeric fields are text so they can be
// left blank.
type Values struct {
	Start            string
	Hours            string
	Minutes          string
	Seconds          string
	Distance         string
	TypeID           int
	SubTypeID        int
	Name             string
	ElevationUp      string
	ElevationDown    string
	DefaultEquipment bool
}

// NewValues returns form values seeded from the user's settings.
func NewValues(settings activity.Settings, now time.Time) Values {
	v := Values{Start: now.Format(StartLayout)}
	if settings.DefaultTypeID != nil {
		v.TypeID = *settings.DefaultTypeID
	}
	if settings.DefaultSubTypeID != nil {
		v.SubTypeID = *settings.DefaultSubTypeID
	}
	return v
}

// Input converts the values into a create request.
func (v Values) Input() (activity.CreateInput, error) {
	var errs criterio.FieldErrorsBuilder
	in := activity.CreateInput{
		TypeID:                 v.TypeID,
		SubTypeID:              v.SubTypeID,
		Name:                   strings.TrimSpace(v.Name),
		AttachDefaultEquipment: v.DefaultEquipment,
	}

	start, err := ParseStart(v.Start)
	if err != nil {
		errs = errs.Append("start", err)
	}
	in.Start = start

	h, errH := optionalInt(v.Hours)
	m, errM := optionalInt(v.Minutes)
	s, errS := optionalInt(v.Seconds)
	switch {
	case errH != nil || errM != nil || errS != nil:
		errs = errs.Append("duration", fmt.Errorf("hours, minutes and seconds must be whole numbers"))
	default:
		if err := validate.Clock(h, m, s); err != nil {
			errs = errs.Append("duration", err)
		}
		in.Duration = duration.Encode(h, m, s)
	}

	km, err := requiredFloat(v.Distance)
	if err != nil {
		errs = errs.Append("distance", err)
	}
	in.Distance = activity.KmToMeters(km)
	if in.ElevationUp, err = optionalFloat(v.ElevationUp); err != nil {
		errs = errs.Append("elevation_up", err)
	}
	if in.ElevationDown, err = optionalFloat(v.ElevationDown); err != nil {
		errs = errs.Append("elevation_down", err)
	}

	if err := errs.ToError(); err != nil {
		return activity.CreateInput{}, err
	}
	if err := in.Validate(); err != nil {
		return activity.CreateInput{}, err
	}
	return in, nil
}

// TypeOptions lists the activity types as select options.
func TypeOptions(types []activity.ActivityType) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(types))
	for _, t := range types {
		opts = append(opts, huh.NewOption(t.Name, t.ID))
	}
	return opts
}

// SubTypeOptions lists the sub-types of typeID, led by a "None" option.
func SubTypeOptions(types []activity.ActivityType, typeID int) []huh.Option[int] {
	opts := []huh.Option[int]{huh.NewOption("None", 0)}
	for _, t := range types {
		if t.ID != typeID {
			continue
		}
		for _, st := range t.SubTypes {
			opts = append(opts, huh.NewOption(st.Name, st.ID))
		}
	}
	return opts
}

// Run shows the create form, seeded with v, and returns the request.
func Run(ctx context.Context, types []activity.ActivityType, v Values) (activity.CreateInput, error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Type").
				Options(TypeOptions(types)...).
				Value(&v.TypeID),
			huh.NewSelect[int]().
				Title("Sub-type").
				OptionsFunc(func() []huh.Option[int] {
					return SubTypeOptions(types, v.TypeID)
				}, &v.TypeID).
				Value(&v.SubTypeID),
			huh.NewInput().
				Title("Name").
				Placeholder("optional").
				Value(&v.Name),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start").
				Description(StartLayout).
				Value(&v.Start).
				Validate(func(s string) error {
					_, err := ParseStart(s)
					return err
				}),
			huh.NewInput().Title("Hours").Placeholder("0").Value(&v.Hours).Validate(intField),
			huh.NewInput().Title("Minutes").Placeholder("0").Value(&v.Minutes).Validate(intField),
			huh.NewInput().Title("Seconds").Placeholder("0").Value(&v.Seconds).Validate(intField),
		),
		huh.NewGroup(
			huh.NewInput().Title("Distance (km)").Value(&v.Distance).Validate(func(s string) error {
				_, err := requiredFloat(s)
				return err
			}),
			huh.NewInput().Title("Elevation gain (m)").Placeholder("optional").Value(&v.ElevationUp).Validate(floatField),
			huh.NewInput().Title("Elevation loss (m)").Placeholder("optional").Value(&v.ElevationDown).Validate(floatField),
			huh.NewConfirm().
				Title("Attach default equipment?").
				Value(&v.DefaultEquipment),
		),
	).WithTheme(styles.FormTheme())

	if err := form.RunWithContext(ctx); err != nil {
		return activity.CreateInput{}, err
	}

	return v.Input()
}

func intField(s string) error {
	_, err := optionalInt(s)
	return err
}

func floatField(s string) error {
	_, err := optionalFloat(s)
	return err
}

func optionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("must be a whole number")
	}
	return n, nil
}

func requiredFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	if err := validate.NonNegative(f); err != nil {
		return 0, err
	}
	return f, nil
}

func optionalFloat(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	f, err := requiredFloat(s)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
