package calendar

import (
	"reflect"
	"testing"
	"time"
)

func mustNormalize(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := NormalizeLocal(s)
	if err != nil {
		t.Fatalf("NormalizeLocal(%q) error = %v", s, err)
	}
	return ts
}

// the reference scenario: two overlapping Monday-morning lessons, grid 8-18
func TestPlaceEvents(t *testing.T) {
	a := Event{
		ID:       "a",
		CourseID: "c1",
		Start:    mustNormalize(t, "2024-03-04T09:00"),
		End:      mustNormalize(t, "2024-03-04T10:30"),
	}
	b := Event{
		ID:       "b",
		CourseID: "c2",
		Start:    mustNormalize(t, "2024-03-04T09:15"),
		End:      mustNormalize(t, "2024-03-04T09:45"),
	}
	period := ResolvePeriod(a.Start, ModeWeek, Options{})

	placed := PlaceEvents([]Event{a, b}, period, Options{})
	if len(placed) != 2 {
		t.Fatalf("PlaceEvents() returned %d events, want 2", len(placed))
	}
	pa, pb := placed[0], placed[1]

	if pa.DayColumn != pb.DayColumn {
		t.Errorf("same Monday: a.DayColumn = %v, b.DayColumn = %v", pa.DayColumn, pb.DayColumn)
	}
	if pa.DayColumn != 0 {
		t.Errorf("a.DayColumn = %v, want 0", pa.DayColumn)
	}
	if pa.StartOffsetMinutes != 60 {
		t.Errorf("a.StartOffsetMinutes = %v, want 60", pa.StartOffsetMinutes)
	}
	if pb.StartOffsetMinutes != 75 {
		t.Errorf("b.StartOffsetMinutes = %v, want 75", pb.StartOffsetMinutes)
	}
	if pa.DurationMinutes != 90 {
		t.Errorf("a.DurationMinutes = %v, want 90", pa.DurationMinutes)
	}
	if pb.DurationMinutes != 30 {
		t.Errorf("b.DurationMinutes = %v, want 30", pb.DurationMinutes)
	}
	if pa.ColorIndex != 0 || pb.ColorIndex != 1 {
		t.Errorf("color indexes = %v, %v, want 0, 1", pa.ColorIndex, pb.ColorIndex)
	}
}

func TestPlaceEvents_edges(t *testing.T) {
	period := Period{Start: localDay(2024, 3, 4), End: localDay(2024, 3, 10)}

	t.Run("empty input", func(t *testing.T) {
		if got := PlaceEvents(nil, period, Options{}); len(got) != 0 {
			t.Errorf("PlaceEvents(nil) = %v, want empty", got)
		}
	})

	t.Run("out-of-period events are excluded, not errors", func(t *testing.T) {
		ev := Event{ID: "x", CourseID: "c1", Start: mustNormalize(t, "2024-03-12T09:00"), End: mustNormalize(t, "2024-03-12T10:00")}
		if got := PlaceEvents([]Event{ev}, period, Options{}); len(got) != 0 {
			t.Errorf("PlaceEvents() = %v, want out-of-period event excluded", got)
		}
	})

	t.Run("early start clips at the top edge", func(t *testing.T) {
		ev := Event{ID: "x", CourseID: "c1", Start: mustNormalize(t, "2024-03-04T07:00"), End: mustNormalize(t, "2024-03-04T09:00")}
		got := PlaceEvents([]Event{ev}, period, Options{})
		if len(got) != 1 {
			t.Fatalf("PlaceEvents() returned %d events, want 1", len(got))
		}
		if got[0].StartOffsetMinutes != 0 {
			t.Errorf("StartOffsetMinutes = %v, want clipped to 0", got[0].StartOffsetMinutes)
		}
	})

	t.Run("zero-duration event floors at minimum visible height", func(t *testing.T) {
		start := mustNormalize(t, "2024-03-04T09:00")
		ev := Event{ID: "x", CourseID: "c1", Start: start, End: start}
		got := PlaceEvents([]Event{ev}, period, Options{})
		if len(got) != 1 {
			t.Fatalf("PlaceEvents() returned %d events, want 1", len(got))
		}
		if got[0].DurationMinutes != DefaultMinVisibleMinutes {
			t.Errorf("DurationMinutes = %v, want %v", got[0].DurationMinutes, DefaultMinVisibleMinutes)
		}
	})

	t.Run("input events are never mutated", func(t *testing.T) {
		ev := Event{ID: "x", CourseID: "c1", Start: mustNormalize(t, "2024-03-04T09:00"), End: mustNormalize(t, "2024-03-04T10:00")}
		events := []Event{ev}
		_ = PlaceEvents(events, period, Options{})
		if !reflect.DeepEqual(events[0], ev) {
			t.Errorf("PlaceEvents() mutated its input: %+v", events[0])
		}
	})
}

// the output for an event depends only on its own fields, never on its
// position relative to other events
func TestPlaceEvents_orderIndependent(t *testing.T) {
	period := Period{Start: localDay(2024, 3, 4), End: localDay(2024, 3, 10)}
	a := Event{ID: "a", CourseID: "c1", Start: mustNormalize(t, "2024-03-04T09:00"), End: mustNormalize(t, "2024-03-04T10:00")}
	b := Event{ID: "b", CourseID: "c1", Start: mustNormalize(t, "2024-03-05T11:00"), End: mustNormalize(t, "2024-03-05T12:00")}
	c := Event{ID: "c", CourseID: "c1", Start: mustNormalize(t, "2024-03-06T14:00"), End: mustNormalize(t, "2024-03-06T15:00")}

	find := func(placed []PositionedEvent, id string) PositionedEvent {
		for _, p := range placed {
			if p.ID == id {
				return p
			}
		}
		t.Fatalf("event %q not placed", id)
		return PositionedEvent{}
	}

	forward := PlaceEvents([]Event{a, b, c}, period, Options{})
	backward := PlaceEvents([]Event{c, b, a}, period, Options{})
	for _, id := range []string{"a", "b", "c"} {
		if !reflect.DeepEqual(find(forward, id), find(backward, id)) {
			t.Errorf("placement of %q depends on input order", id)
		}
	}
}

func TestDayColumn(t *testing.T) {
	week := Period{Start: localDay(2024, 3, 4), End: localDay(2024, 3, 8)} // business week
	tests := []struct {
		name  string
		start string
		want  int
	}{
		{name: "monday", start: "2024-03-04T09:00", want: 0},
		{name: "friday", start: "2024-03-08T09:00", want: 4},
		{name: "saturday is outside a business week", start: "2024-03-09T09:00", want: -1},
		{name: "previous sunday", start: "2024-03-03T09:00", want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Event{ID: "x", CourseID: "c1", Start: mustNormalize(t, tt.start)}
			ev.End = ev.Start.Add(time.Hour)
			if got := DayColumn(ev, week); got != tt.want {
				t.Errorf("DayColumn() = %v, want %v", got, tt.want)
			}
		})
	}
}
