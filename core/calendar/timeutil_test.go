package calendar

import (
	"testing"
	"time"
)

func TestNormalizeLocal(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string // "2006-01-02 15:04:05" rendering of the result
		wantErr bool
	}{
		{name: "plain local datetime", raw: "2024-03-04T09:00", want: "2024-03-04 09:00:00"},
		{name: "with seconds", raw: "2024-03-04T09:00:30", want: "2024-03-04 09:00:30"},
		{name: "trailing Z is dropped, not converted", raw: "2024-03-04T09:00:00Z", want: "2024-03-04 09:00:00"},
		{name: "positive offset is dropped", raw: "2024-03-04T09:00:00+03:00", want: "2024-03-04 09:00:00"},
		{name: "negative compact offset is dropped", raw: "2024-03-04T09:00:00-0500", want: "2024-03-04 09:00:00"},
		{name: "space separator", raw: "2024-03-04 09:00:00", want: "2024-03-04 09:00:00"},
		{name: "date only", raw: "2024-03-04", want: "2024-03-04 00:00:00"},
		{name: "surrounding whitespace", raw: "  2024-03-04T09:00  ", want: "2024-03-04 09:00:00"},
		{name: "empty", raw: "", wantErr: true},
		{name: "garbage", raw: "not-a-date", wantErr: true},
		{name: "time only", raw: "09:00", wantErr: true},
		{name: "bare offset", raw: "+03:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLocal(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeLocal(%q) error = nil, want *MalformedTimestampError", tt.raw)
				}
				if _, ok := err.(*MalformedTimestampError); !ok {
					t.Errorf("NormalizeLocal(%q) error = %T, want *MalformedTimestampError", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeLocal(%q) error = %v", tt.raw, err)
			}
			if s := got.Format("2006-01-02 15:04:05"); s != tt.want {
				t.Errorf("NormalizeLocal(%q) = %v, want %v", tt.raw, s, tt.want)
			}
			if got.Location() != time.Local {
				t.Errorf("NormalizeLocal(%q) location = %v, want Local", tt.raw, got.Location())
			}
		})
	}
}

// the appended UTC marker must never shift the hour
func TestNormalizeLocal_roundTrip(t *testing.T) {
	stamps := []string{
		"2024-03-04T09:00",
		"2024-06-15T23:59",
		"2023-12-31T00:00",
		"2024-02-29T12:30",
	}
	for _, s := range stamps {
		plain, err := NormalizeLocal(s)
		if err != nil {
			t.Fatalf("NormalizeLocal(%q) error = %v", s, err)
		}
		marked, err := NormalizeLocal(s + ":00Z")
		if err != nil {
			t.Fatalf("NormalizeLocal(%q) error = %v", s+":00Z", err)
		}
		if plain.Hour() != marked.Hour() || plain.Minute() != marked.Minute() {
			t.Errorf("NormalizeLocal(%q) = %v, differs from unmarked %v", s+":00Z", marked, plain)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	}
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{name: "same day", a: day(2024, 3, 4), b: day(2024, 3, 4), want: 0},
		{name: "next day", a: day(2024, 3, 4), b: day(2024, 3, 5), want: 1},
		{name: "previous day", a: day(2024, 3, 4), b: day(2024, 3, 3), want: -1},
		{name: "across month boundary", a: day(2024, 2, 26), b: day(2024, 3, 4), want: 7},
		{name: "leap day included", a: day(2024, 2, 28), b: day(2024, 3, 1), want: 2},
		{name: "time of day is ignored", a: day(2024, 3, 4).Add(23 * time.Hour), b: day(2024, 3, 5).Add(1 * time.Minute), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDayFloor(t *testing.T) {
	in := time.Date(2024, 3, 4, 17, 45, 12, 999, time.Local)
	got := DayFloor(in)
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("DayFloor() = %v, want %v", got, want)
	}
}
