package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty", "", 0},
		{"garbage", "garbage", 0},
		{"bare prefix", "PT", 0},
		{"hours only", "PT2H", 7200},
		{"full", "PT3H21M8S", 3*3600 + 21*60 + 8},
		{"minutes and seconds", "PT1M30S", 90},
		{"fractional seconds", "PT12.5S", 12.5},
		{"days", "P1DT2H", 26 * 3600},
		{"surrounding whitespace", "  PT5S ", 5},
		{"lowercase rejected", "pt5s", 0},
		{"trailing junk rejected", "PT5Sabc", 0},
		{"overflowing hours", "PT99999999999999999999H30M", 0},
		{"overflowing days", "P99999999999999999999DT1H", 0},
		{"overflowing seconds", "PT1M99999999999999999999S", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Decode(tt.input), 1e-9)
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		h, m, s int
		want    string
	}{
		{0, 0, 0, "PT0S"},
		{1, 0, 0, "PT1H"},
		{0, 30, 0, "PT30M"},
		{1, 2, 3, "PT1H2M3S"},
		{0, 0, 59, "PT59S"},
		{-1, 5, 0, "PT5M"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.h, tt.m, tt.s))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for h := 0; h < 30; h += 7 {
		for m := 0; m < 60; m += 13 {
			for s := 0; s < 60; s += 11 {
				want := float64(h*3600 + m*60 + s)
				got := Decode(Encode(h, m, s))
				assert.Equal(t, want, got, "h=%d m=%d s=%d", h, m, s)
			}
		}
	}
}

func TestFromSeconds(t *testing.T) {
	assert.Equal(t, "PT1H1M1S", FromSeconds(3661.9))
	assert.Equal(t, "PT0S", FromSeconds(-4))
	assert.InDelta(t, 5400, Decode(FromSeconds(5400)), 1e-9)
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0m 0s"},
		{59, "0m 59s"},
		{59.9, "0m 59s"},
		{60, "1m 0s"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{26 * 3600, "26h 0m"},
		{-10, "0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Humanize(tt.seconds))
		})
	}
}
