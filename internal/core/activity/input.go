package activity

import (
	"fmt"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/stride/internal/core/validate"
)

// CreateInput holds the fields for a new activity.
type CreateInput struct {
	Start         time.Time
	Duration      string // interval text, see duration.Encode
	Distance      float64
	TypeID        int
	SubTypeID     int // 0 means none
	Name          string
	ElevationUp   *float64
	ElevationDown *float64

	// AttachDefaultEquipment asks the server to link the user's default
	// equipment to the new activity.
	AttachDefaultEquipment bool
}

// Validate checks the input before it is sent.
func (in CreateInput) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if in.Start.IsZero() {
		errs = errs.Append("start", fmt.Errorf("is required"))
	}
	if err := validate.Interval(in.Duration); err != nil {
		errs = errs.Append("duration", err)
	}
	if err := validate.NonNegative(in.Distance); err != nil {
		errs = errs.Append("distance", err)
	}
	if in.TypeID <= 0 {
		errs = errs.Append("type_id", fmt.Errorf("is required"))
	}
	if in.SubTypeID < 0 {
		errs = errs.Append("sub_type_id", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Start         *time.Time
	Duration      *string
	Distance      *float64
	TypeID        *int
	SubTypeID     *int
	Name          *string
	ElevationUp   *float64
	ElevationDown *float64
}

// IsEmpty reports whether no field is set.
func (in UpdateInput) IsEmpty() bool {
	return in == UpdateInput{}
}

// Validate checks the fields that are set.
func (in UpdateInput) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if in.IsEmpty() {
		errs = errs.Append("", fmt.Errorf("no fields to update"))
	}
	if in.Duration != nil {
		if err := validate.Interval(*in.Duration); err != nil {
			errs = errs.Append("duration", err)
		}
	}
	if in.Distance != nil {
		if err := validate.NonNegative(*in.Distance); err != nil {
			errs = errs.Append("distance", err)
		}
	}
	if in.TypeID != nil && *in.TypeID <= 0 {
		errs = errs.Append("type_id", fmt.Errorf("must be positive"))
	}

	return errs.ToError()
}
