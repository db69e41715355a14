package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKm(t *testing.T) {
	meters := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"nil", nil, "-"},
		{"zero", meters(0), "0.00 km"},
		{"meters", meters(8200), "8.20 km"},
		{"rounds", meters(1234), "1.23 km"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatKm(tt.in))
		})
	}
}

func TestKmToMeters(t *testing.T) {
	assert.InDelta(t, 8200.0, KmToMeters(8.2), 1e-9)
	assert.InDelta(t, 0.0, KmToMeters(0), 1e-9)
}
