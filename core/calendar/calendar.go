// Package calendar turns flat lists of scheduled lessons into a positioned
// day-column/hour-row grid for the teacher and student dashboards, and tracks
// the navigation state (anchor date + view mode) that selects the visible
// slice. Everything in here is a pure transformation: no I/O, no hidden
// state, safe to recompute on every request.
package calendar

import "time"

// NowFunc returns the current time; mockable in tests.
var NowFunc = time.Now

// Defaults matching the reference dashboard UI.
const (
	DefaultGridFirstHour     = 8
	DefaultGridLastHour      = 18
	DefaultPaletteSize       = 6
	DefaultMinVisibleMinutes = 24
)

// Event is one scheduled lesson as supplied by the data source.
// Start/End are local wall-clock instants; End > Start.
type Event struct {
	ID       string    `json:"id"`
	CourseID string    `json:"course_id"`
	Title    string    `json:"title,omitempty"`
	Room     string    `json:"room,omitempty"` // physical location or URL; the renderer decides
	Start    time.Time `json:"start_time"`
	End      time.Time `json:"end_time"`
}

// WeekStart is the day a displayed week begins on. Only the two dashboard
// conventions exist; the zero value is Monday so that zero Options resolve
// Monday-start weeks (time.Weekday's zero value would have been Sunday).
type WeekStart int

const (
	WeekStartMonday WeekStart = iota
	WeekStartSunday
)

// Weekday returns the time.Weekday the week starts on.
func (ws WeekStart) Weekday() time.Weekday {
	if ws == WeekStartSunday {
		return time.Sunday
	}
	return time.Monday
}

// Options configures period resolution and grid placement.
// The zero value is usable; zero fields fall back to the defaults above
// (week starting Monday, full 7-day weeks).
type Options struct {
	GridFirstHour     int
	GridLastHour      int
	WeekStartsOn      WeekStart
	BusinessDaysOnly  bool // Mon-Fri weeks instead of full weeks
	PaletteSize       int
	MinVisibleMinutes int
}

func (o Options) withDefaults() Options {
	if o.GridFirstHour == 0 && o.GridLastHour == 0 {
		o.GridFirstHour = DefaultGridFirstHour
		o.GridLastHour = DefaultGridLastHour
	}
	if o.PaletteSize <= 0 {
		o.PaletteSize = DefaultPaletteSize
	}
	if o.MinVisibleMinutes <= 0 {
		o.MinVisibleMinutes = DefaultMinVisibleMinutes
	}
	return o
}
