package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/calendar"
)

func localTime(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func TestExpand_singleSession(t *testing.T) {
	sess := Session{
		ID:        "s1",
		CourseID:  "c1",
		Title:     "Algebra",
		StartTime: localTime(2024, time.March, 6, 9, 0),
		EndTime:   localTime(2024, time.March, 6, 10, 30),
	}
	period := calendar.Period{
		Start: localTime(2024, time.March, 4, 0, 0),
		End:   localTime(2024, time.March, 10, 0, 0),
	}

	events := Expand(sess, period)
	if len(events) != 1 {
		t.Fatalf("Expand() returned %d events, want 1", len(events))
	}
	if !events[0].Start.Equal(sess.StartTime) {
		t.Errorf("Start = %v, want %v", events[0].Start, sess.StartTime)
	}
	if got := events[0].End.Sub(events[0].Start); got != 90*time.Minute {
		t.Errorf("duration = %v, want 90m", got)
	}

	// outside the period it must vanish
	past := calendar.Period{
		Start: localTime(2024, time.February, 5, 0, 0),
		End:   localTime(2024, time.February, 11, 0, 0),
	}
	if events = Expand(sess, past); len(events) != 0 {
		t.Errorf("Expand() outside period returned %d events, want 0", len(events))
	}
}

func TestExpand_weeklyRecurrence(t *testing.T) {
	sess := Session{
		ID:        "s1",
		CourseID:  "c1",
		Title:     "Physics Lab",
		StartTime: localTime(2024, time.March, 4, 14, 0), // a Monday
		EndTime:   localTime(2024, time.March, 4, 16, 0),
		RRule:     null.StringFrom("FREQ=WEEKLY;BYDAY=MO,WE"),
	}
	period := calendar.Period{
		Start: localTime(2024, time.March, 11, 0, 0),
		End:   localTime(2024, time.March, 17, 0, 0),
	}

	events := Expand(sess, period)
	if len(events) != 2 {
		t.Fatalf("Expand() returned %d events, want 2 (Mon + Wed)", len(events))
	}
	wantDays := []int{11, 13}
	for i, evt := range events {
		if evt.Start.Day() != wantDays[i] {
			t.Errorf("events[%d].Start.Day() = %d, want %d", i, evt.Start.Day(), wantDays[i])
		}
		if evt.Start.Hour() != 14 {
			t.Errorf("events[%d].Start.Hour() = %d, want 14", i, evt.Start.Hour())
		}
		if got := evt.End.Sub(evt.Start); got != 2*time.Hour {
			t.Errorf("events[%d] duration = %v, want 2h", i, got)
		}
		if !strings.HasPrefix(evt.ID, "s1/") {
			t.Errorf("events[%d].ID = %q, want prefix \"s1/\"", i, evt.ID)
		}
	}
	if events[0].ID == events[1].ID {
		t.Errorf("occurrence IDs must be unique, both = %q", events[0].ID)
	}
}

func TestExpand_badRule(t *testing.T) {
	sess := Session{
		ID:        "s1",
		StartTime: localTime(2024, time.March, 4, 9, 0),
		EndTime:   localTime(2024, time.March, 4, 10, 0),
		RRule:     null.StringFrom("FREQ=BOGUS"),
	}
	period := calendar.Period{
		Start: localTime(2024, time.March, 4, 0, 0),
		End:   localTime(2024, time.March, 10, 0, 0),
	}
	if events := Expand(sess, period); len(events) != 0 {
		t.Errorf("Expand() with bad rule returned %d events, want 0", len(events))
	}
}

func TestFeedICal(t *testing.T) {
	events := []calendar.Event{
		{
			ID:       "s1/20240304T0900",
			CourseID: "c1",
			Title:    "Algebra",
			Room:     "B12",
			Start:    localTime(2024, time.March, 4, 9, 0),
			End:      localTime(2024, time.March, 4, 10, 30),
		},
	}
	feed := FeedICal("My Schedule", events)
	for _, want := range []string{"BEGIN:VCALENDAR", "BEGIN:VEVENT", "SUMMARY:Algebra", "LOCATION:B12", "END:VCALENDAR"} {
		if !strings.Contains(feed, want) {
			t.Errorf("FeedICal() output missing %q", want)
		}
	}
}
