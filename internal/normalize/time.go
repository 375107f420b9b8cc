// Package normalize converts raw cell values into canonical forms:
// zone-aware instants, bare numerals, and city names derived from file
// naming conventions.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts carrying explicit zone information. Values parsed here are
// converted straight to UTC.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04Z07:00",
}

// Zone-naive layouts. Values parsed here are interpreted in the configured
// assumed zone before conversion; conflating the two paths would shift every
// timestamp by the zone offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// Instant parses a raw timestamp value into a canonical UTC instant.
// Unparseable values yield ok == false; they must never default to "now"
// or the epoch.
func Instant(raw any, assumed *time.Location) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v.UTC(), true
	}

	s := strings.TrimSpace(fmt.Sprint(raw))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, assumed); err == nil {
			return t.UTC(), true
		}
	}

	// Epoch seconds, as emitted by some JSON exporters.
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if secs >= 1e9 && secs < 1e11 {
			return time.Unix(int64(secs), 0).UTC(), true
		}
		return time.Time{}, false
	}

	return time.Time{}, false
}
