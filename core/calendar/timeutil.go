package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// offsetSuffixRegex matches a trailing UTC designator ("Z") or an explicit
// offset ("+03:00", "-0500") on a timestamp string.
var offsetSuffixRegex = regexp.MustCompile(`(?:Z|[+-]\d{2}:?\d{2})$`)

// layouts accepted by NormalizeLocal, tried in order.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// MalformedTimestampError is returned when a timestamp string does not match
// any accepted date-time grammar. Callers must propagate it; silently
// defaulting would misplace an event on the grid with no visible indication.
type MalformedTimestampError struct {
	Raw string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp: %q", e.Raw)
}

// NormalizeLocal parses a stored timestamp as local wall-clock time.
//
// The persisted value already represents the local time the user entered;
// some storage layers append a "Z" or an offset on the way out. Parsing that
// suffix with a timezone-aware parser would apply the conversion a second
// time and corrupt the displayed hour, so any trailing designator is stripped
// before parsing and no conversion is applied.
func NormalizeLocal(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	s = offsetSuffixRegex.ReplaceAllString(s, "")

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &MalformedTimestampError{Raw: raw}
}

// DayFloor normalizes t to midnight local time.
func DayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the integer calendar-day difference b - a.
// Computed on the date components only so DST transitions and midnight
// boundaries cannot introduce drift.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
