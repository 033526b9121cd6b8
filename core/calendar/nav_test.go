package calendar

import (
	"testing"
	"time"
)

func TestNavigator_Navigate(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		mode      ViewMode
		direction int
		want      time.Time
	}{
		{name: "day forward", anchor: localDay(2024, 3, 4), mode: ModeDay, direction: 1, want: localDay(2024, 3, 5)},
		{name: "day back", anchor: localDay(2024, 3, 1), mode: ModeDay, direction: -1, want: localDay(2024, 2, 29)},
		{name: "week forward", anchor: localDay(2024, 3, 4), mode: ModeWeek, direction: 1, want: localDay(2024, 3, 11)},
		{name: "week back", anchor: localDay(2024, 3, 4), mode: ModeWeek, direction: -1, want: localDay(2024, 2, 26)},
		{name: "list steps by week", anchor: localDay(2024, 3, 4), mode: ModeList, direction: 1, want: localDay(2024, 3, 11)},
		{name: "month forward from jan 31 lands in february", anchor: localDay(2024, 1, 31), mode: ModeMonth, direction: 1, want: localDay(2024, 2, 1)},
		{name: "month back from mar 31", anchor: localDay(2024, 3, 31), mode: ModeMonth, direction: -1, want: localDay(2024, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &Navigator{AnchorDate: tt.anchor, Mode: tt.mode, SelectedEventID: "sel"}
			nav.Navigate(tt.direction)
			if !nav.AnchorDate.Equal(tt.want) {
				t.Errorf("Navigate(%d) anchor = %v, want %v", tt.direction, nav.AnchorDate, tt.want)
			}
			if nav.SelectedEventID != "" {
				t.Errorf("Navigate() did not clear selection")
			}
		})
	}
}

// repeated +1 in week mode advances by exactly 7 days each call
func TestNavigator_weekMonotonicity(t *testing.T) {
	nav := &Navigator{AnchorDate: localDay(2024, 3, 4), Mode: ModeWeek}
	prev := nav.AnchorDate
	for i := 0; i < 60; i++ {
		nav.Navigate(1)
		if got := DaysBetween(prev, nav.AnchorDate); got != 7 {
			t.Fatalf("step %d advanced %d days, want 7", i, got)
		}
		prev = nav.AnchorDate
	}
}

// navigate(-1) from week anchored on a Monday yields the previous Monday as period start
func TestNavigator_weekBackPeriodStart(t *testing.T) {
	nav := &Navigator{AnchorDate: localDay(2024, 3, 4), Mode: ModeWeek}
	nav.Navigate(-1)
	p := nav.Period(Options{})
	if want := localDay(2024, 2, 26); !p.Start.Equal(want) {
		t.Errorf("period start = %v, want %v", p.Start, want)
	}
}

func TestNavigator_monthSequenceDoesNotSkip(t *testing.T) {
	nav := &Navigator{AnchorDate: localDay(2024, 1, 31), Mode: ModeMonth}
	want := []time.Month{time.February, time.March, time.April}
	for _, m := range want {
		nav.Navigate(1)
		if nav.AnchorDate.Month() != m {
			t.Fatalf("anchor month = %v, want %v", nav.AnchorDate.Month(), m)
		}
	}
}

func TestNavigator_SetMode(t *testing.T) {
	nav := &Navigator{AnchorDate: localDay(2024, 3, 4), Mode: ModeWeek, SelectedEventID: "sel"}
	nav.SetMode(ModeMonth)
	if nav.Mode != ModeMonth {
		t.Errorf("mode = %v, want %v", nav.Mode, ModeMonth)
	}
	if !nav.AnchorDate.Equal(localDay(2024, 3, 4)) {
		t.Errorf("SetMode() moved the anchor to %v", nav.AnchorDate)
	}
	if nav.SelectedEventID != "" {
		t.Errorf("SetMode() did not clear selection")
	}

	nav.SetMode("bogus")
	if nav.Mode != ModeWeek {
		t.Errorf("unknown mode = %v, want fallback to %v", nav.Mode, ModeWeek)
	}
}

func TestNavigator_GoToToday(t *testing.T) {
	today := localDay(2024, 3, 7)
	NowFunc = func() time.Time { return time.Date(2024, 3, 7, 15, 30, 0, 0, time.Local) }
	defer func() { NowFunc = time.Now }()

	nav := &Navigator{AnchorDate: localDay(2020, 1, 1), Mode: ModeWeek, SelectedEventID: "sel"}
	nav.GoToToday()
	if !nav.AnchorDate.Equal(today) {
		t.Errorf("anchor = %v, want %v", nav.AnchorDate, today)
	}
	if nav.SelectedEventID != "" {
		t.Errorf("GoToToday() did not clear selection")
	}
}

func TestNavigator_SelectEvent(t *testing.T) {
	nav := NewNavigator(ModeWeek)

	nav.SelectEvent("ev1")
	if nav.SelectedEventID != "ev1" {
		t.Errorf("selection = %q, want %q", nav.SelectedEventID, "ev1")
	}
	nav.SelectEvent("ev2")
	if nav.SelectedEventID != "ev2" {
		t.Errorf("selection = %q, want %q", nav.SelectedEventID, "ev2")
	}
	// selecting the selected event toggles it off
	nav.SelectEvent("ev2")
	if nav.SelectedEventID != "" {
		t.Errorf("selection = %q, want cleared", nav.SelectedEventID)
	}
	nav.SelectEvent("")
	if nav.SelectedEventID != "" {
		t.Errorf("selection = %q, want cleared", nav.SelectedEventID)
	}
}
