package activity

import (
	"bytes"

	"github.com/gabriel-vasile/mimetype"
)

// MIMEFit is the type reported for Garmin/ANT FIT activity files.
const MIMEFit = "application/vnd.ant.fit"

func init() {
	mimetype.Extend(isFit, MIMEFit, ".fit")
}

// isFit matches the FIT file header: a 12 or 14 byte header whose bytes
// 8..11 spell ".FIT".
func isFit(raw []byte, _ uint32) bool {
	if len(raw) < 12 {
		return false
	}
	if raw[0] != 12 && raw[0] != 14 {
		return false
	}
	return bytes.Equal(raw[8:12], []byte(".FIT"))
}

// SniffType returns the MIME type of data, detected from its contents.
func SniffType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsTrack reports whether the upload's contents match one of the accepted
// MIME types.
func (u Upload) IsTrack(accepted []string) bool {
	return mimetype.EqualsAny(SniffType(u.Data), accepted...)
}
