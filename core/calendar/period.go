package calendar

import "time"

// ViewMode selects which slice of the schedule is visible.
type ViewMode string

const (
	ModeDay   ViewMode = "day"
	ModeWeek  ViewMode = "week"
	ModeMonth ViewMode = "month"
	ModeList  ViewMode = "list"
)

// ParseViewMode returns the ViewMode for `s`, defaulting to week view.
func ParseViewMode(s string) ViewMode {
	switch ViewMode(s) {
	case ModeDay, ModeWeek, ModeMonth, ModeList:
		return ViewMode(s)
	}
	return ModeWeek
}

// Period is the contiguous date range currently visible in the grid.
// Start and End are midnight-normalized local dates, both inclusive.
type Period struct {
	Start time.Time `json:"period_start"`
	End   time.Time `json:"period_end"`
}

// Days returns the number of calendar days in the period, inclusive.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Contains reports whether t's calendar day falls within the period.
// Membership is an integer day-difference test, never a string or
// timezone-sensitive comparison.
func (p Period) Contains(t time.Time) bool {
	d := DaysBetween(p.Start, t)
	return d >= 0 && d < p.Days()
}

// ResolvePeriod computes the visible period containing `anchor` for the given
// view mode. The anchor is normalized to midnight before any boundary math.
//
//   - week/list: the week containing anchor, starting on opts.WeekStartsOn
//     (Monday..Sunday+6d, or Monday..Friday when opts.BusinessDaysOnly);
//   - month: first through last day of anchor's month;
//   - day: the anchor date itself.
func ResolvePeriod(anchor time.Time, mode ViewMode, opts Options) Period {
	opts = opts.withDefaults()
	day := DayFloor(anchor)

	switch mode {
	case ModeDay:
		return Period{Start: day, End: day}

	case ModeMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		last := first.AddDate(0, 1, -1)
		return Period{Start: first, End: last}

	default: // week, list
		weekStart := opts.WeekStartsOn.Weekday()
		span := 6
		if opts.BusinessDaysOnly {
			// the business-week grid always runs Monday through Friday
			weekStart = time.Monday
			span = 4
		}
		back := (int(day.Weekday()) - int(weekStart) + 7) % 7
		start := day.AddDate(0, 0, -back)
		return Period{Start: start, End: start.AddDate(0, 0, span)}
	}
}

// FilterEvents returns the events whose start day falls inside the period.
// Order is preserved; the input slice is never mutated.
func FilterEvents(events []Event, p Period) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if p.Contains(ev.Start) {
			out = append(out, ev)
		}
	}
	return out
}
