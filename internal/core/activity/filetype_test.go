package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var trackTypes = []string{"application/gpx+xml", MIMEFit, "application/vnd.garmin.tcx+xml"}

func fitHeader() []byte {
	// 14 byte header: size, protocol, profile (2), data size (4), ".FIT", crc (2)
	return []byte{14, 0x10, 0x08, 0x08, 0x20, 0, 0, 0, '.', 'F', 'I', 'T', 0, 0, 0x41, 0x00}
}

const gpxDoc = `<?xml version="1.0"?><gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"></gpx>`

func TestIsFit(t *testing.T) {
	assert.True(t, isFit(fitHeader(), 0))
	assert.False(t, isFit([]byte{14, 0x10, '.', 'F'}, 0), "too short")

	wrongSize := fitHeader()
	wrongSize[0] = 13
	assert.False(t, isFit(wrongSize, 0))
}

func TestSniffType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "gpx",
			data: []byte(gpxDoc),
			want: "application/gpx+xml",
		},
		{
			name: "fit",
			data: fitHeader(),
			want: MIMEFit,
		},
		{
			name: "plain text",
			data: []byte("hello"),
			want: "text/plain; charset=utf-8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffType(tt.data))
		})
	}
}

func TestUpload_IsTrack(t *testing.T) {
	assert.True(t, Upload{Data: fitHeader()}.IsTrack(trackTypes))
	assert.True(t, Upload{Data: []byte(gpxDoc)}.IsTrack(trackTypes))
	assert.False(t, Upload{Data: []byte("not a track")}.IsTrack(trackTypes))
	assert.False(t, Upload{}.IsTrack(trackTypes))
}
