package calendar

import (
	"testing"
	"time"
)

func localDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestWeekStart_zeroValueIsMonday(t *testing.T) {
	var ws WeekStart
	if got := ws.Weekday(); got != time.Monday {
		t.Errorf("Weekday() = %v; want Monday", got)
	}
	if got := WeekStartSunday.Weekday(); got != time.Sunday {
		t.Errorf("Weekday() = %v; want Sunday", got)
	}
}

func TestResolvePeriod(t *testing.T) {
	// 2024-03-04 is a Monday
	tests := []struct {
		name      string
		anchor    time.Time
		mode      ViewMode
		opts      Options
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "week from monday anchor",
			anchor:    localDay(2024, 3, 4),
			mode:      ModeWeek,
			wantStart: localDay(2024, 3, 4),
			wantEnd:   localDay(2024, 3, 10),
		},
		{
			name:      "week from midweek anchor",
			anchor:    localDay(2024, 3, 7),
			mode:      ModeWeek,
			wantStart: localDay(2024, 3, 4),
			wantEnd:   localDay(2024, 3, 10),
		},
		{
			name:      "week from sunday anchor still starts previous monday",
			anchor:    localDay(2024, 3, 10),
			mode:      ModeWeek,
			wantStart: localDay(2024, 3, 4),
			wantEnd:   localDay(2024, 3, 10),
		},
		{
			name:      "sunday-start week",
			anchor:    localDay(2024, 3, 7),
			mode:      ModeWeek,
			opts:      Options{WeekStartsOn: WeekStartSunday},
			wantStart: localDay(2024, 3, 3),
			wantEnd:   localDay(2024, 3, 9),
		},
		{
			name:      "business week runs monday to friday",
			anchor:    localDay(2024, 3, 7),
			mode:      ModeWeek,
			opts:      Options{BusinessDaysOnly: true},
			wantStart: localDay(2024, 3, 4),
			wantEnd:   localDay(2024, 3, 8),
		},
		{
			name:      "anchor time of day is discarded",
			anchor:    time.Date(2024, 3, 4, 17, 30, 0, 0, time.Local),
			mode:      ModeWeek,
			wantStart: localDay(2024, 3, 4),
			wantEnd:   localDay(2024, 3, 10),
		},
		{
			name:      "month boundaries",
			anchor:    localDay(2024, 2, 15),
			mode:      ModeMonth,
			wantStart: localDay(2024, 2, 1),
			wantEnd:   localDay(2024, 2, 29), // leap year
		},
		{
			name:      "day mode degenerates to the anchor itself",
			anchor:    localDay(2024, 3, 4),
			mode:      ModeDay,
			wantStart: localDay(2024, 3, 4),
			wantEnd:   localDay(2024, 3, 4),
		},
		{
			name:      "list mode uses week boundaries",
			anchor:    localDay(2024, 3, 6),
			mode:      ModeList,
			wantStart: localDay(2024, 3, 4),
			wantEnd:   localDay(2024, 3, 10),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePeriod(tt.anchor, tt.mode, tt.opts)
			if !got.Start.Equal(tt.wantStart) {
				t.Errorf("ResolvePeriod() start = %v, want %v", got.Start, tt.wantStart)
			}
			if !got.End.Equal(tt.wantEnd) {
				t.Errorf("ResolvePeriod() end = %v, want %v", got.End, tt.wantEnd)
			}
		})
	}
}

// periodStart <= anchor <= periodEnd for any anchor, in every full-span mode
func TestResolvePeriod_containsAnchor(t *testing.T) {
	modes := []ViewMode{ModeDay, ModeWeek, ModeMonth, ModeList}
	anchor := localDay(2023, 1, 1) // a Sunday
	for i := 0; i < 400; i++ {
		day := anchor.AddDate(0, 0, i)
		for _, mode := range modes {
			p := ResolvePeriod(day, mode, Options{})
			if !p.Contains(day) {
				t.Fatalf("ResolvePeriod(%v, %v) = [%v, %v] does not contain anchor", day, mode, p.Start, p.End)
			}
		}
	}
}

func TestPeriod_Contains(t *testing.T) {
	p := Period{Start: localDay(2024, 3, 4), End: localDay(2024, 3, 10)}
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{name: "period start", t: localDay(2024, 3, 4), want: true},
		{name: "period end", t: localDay(2024, 3, 10), want: true},
		{name: "late evening inside period", t: time.Date(2024, 3, 10, 23, 59, 0, 0, time.Local), want: true},
		{name: "day before", t: localDay(2024, 3, 3), want: false},
		{name: "one minute into the next day", t: time.Date(2024, 3, 11, 0, 1, 0, 0, time.Local), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestFilterEvents(t *testing.T) {
	p := Period{Start: localDay(2024, 3, 4), End: localDay(2024, 3, 8)}
	in := Event{ID: "in", CourseID: "c1", Start: time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)}
	in.End = in.Start.Add(time.Hour)
	out := Event{ID: "out", CourseID: "c1", Start: time.Date(2024, 3, 11, 9, 0, 0, 0, time.Local)}
	out.End = out.Start.Add(time.Hour)

	got := FilterEvents([]Event{in, out}, p)
	if len(got) != 1 || got[0].ID != "in" {
		t.Errorf("FilterEvents() = %v, want only %q", got, "in")
	}
	if got := FilterEvents(nil, p); len(got) != 0 {
		t.Errorf("FilterEvents(nil) = %v, want empty", got)
	}
}
