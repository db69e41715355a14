package form

import (
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/stride/internal/core/activity"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-06-01 07:30", want: time.Date(2024, 6, 1, 7, 30, 0, 0, time.Local)},
		{in: "2024-06-01T07:30:15", want: time.Date(2024, 6, 1, 7, 30, 15, 0, time.Local)},
		{in: "2024-06-01", want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)},
		{in: "2024-06-01T07:30:00Z", want: time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)},
		{in: "yesterday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStart(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "PT1H30M", want: "PT1H30M"},
		{in: "pt45m", want: "PT45M"},
		{in: "1h30m", want: "PT1H30M"},
		{in: "90s", want: "PT1M30S"},
		{in: "PT0S", wantErr: true},
		{in: "0s", wantErr: true},
		{in: "-5m", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewValues(t *testing.T) {
	typeID, subID := 2, 7
	now := time.Date(2024, 6, 1, 7, 30, 0, 0, time.Local)

	v := NewValues(activity.Settings{DefaultTypeID: &typeID, DefaultSubTypeID: &subID}, now)

	assert.Equal(t, "2024-06-01 07:30", v.Start)
	assert.Equal(t, 2, v.TypeID)
	assert.Equal(t, 7, v.SubTypeID)

	v = NewValues(activity.Settings{}, now)
	assert.Zero(t, v.TypeID)
	assert.Zero(t, v.SubTypeID)
}

func TestValues_Input(t *testing.T) {
	v := Values{
		Start:            "2024-06-01 07:30",
		Hours:            "1",
		Minutes:          "5",
		Distance:         "12.5",
		TypeID:           1,
		Name:             "  Long run ",
		ElevationUp:      "120",
		DefaultEquipment: true,
	}

	in, err := v.Input()
	require.NoError(t, err)

	assert.Equal(t, "PT1H5M", in.Duration)
	assert.InDelta(t, 12500.0, in.Distance, 1e-9)
	assert.Equal(t, "Long run", in.Name)
	require.NotNil(t, in.ElevationUp)
	assert.InDelta(t, 120.0, *in.ElevationUp, 1e-9)
	assert.Nil(t, in.ElevationDown)
	assert.True(t, in.AttachDefaultEquipment)
	assert.Equal(t, 2024, in.Start.Year())
}

func TestValues_InputErrors(t *testing.T) {
	v := Values{
		Start:    "nope",
		Minutes:  "75",
		Distance: "",
		TypeID:   1,
	}

	_, err := v.Input()

	var fe criterio.FieldErrors
	require.ErrorAs(t, err, &fe)
	fields := map[string]bool{}
	for _, e := range fe {
		fields[e.Field] = true
	}
	assert.True(t, fields["start"])
	assert.True(t, fields["duration"])
	assert.True(t, fields["distance"])
}

func TestValues_InputRequiresType(t *testing.T) {
	v := Values{Start: "2024-06-01", Minutes: "30", Distance: "5"}

	_, err := v.Input()

	var fe criterio.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "type_id", fe[0].Field)
}

func TestSubTypeOptions(t *testing.T) {
	types := []activity.ActivityType{
		{ID: 1, Name: "Running", SubTypes: []activity.SubType{{ID: 3, Name: "Trail"}, {ID: 4, Name: "Road"}}},
		{ID: 2, Name: "Cycling"},
	}

	opts := SubTypeOptions(types, 1)
	require.Len(t, opts, 3)
	assert.Equal(t, "None", opts[0].Key)
	assert.Equal(t, 4, opts[2].Value)

	assert.Len(t, SubTypeOptions(types, 2), 1)
	assert.Len(t, TypeOptions(types), 2)
}
