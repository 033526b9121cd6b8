package schedule

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/trezcool/darasa/core/calendar"
)

// Safety cap on the number of occurrences a single series may expand to
// within one period; a weekly rule over a month yields at most a handful,
// so hitting this means a malformed rule.
const maxOccurrencesPerSession = 1000

var errEndNotAfterStart = errors.New("end time must be after start time")

func validateRRule(raw string) error {
	_, err := rrule.StrToRRule(raw)
	return err
}

// Expand turns a Session into the concrete calendar events that fall
// within period. A non-recurring session yields at most one event; a
// recurring one yields one event per occurrence, each preserving the
// session's wall-clock duration.
func Expand(sess Session, period calendar.Period) []calendar.Event {
	if !sess.RRule.Valid || sess.RRule.String == "" {
		if period.Contains(sess.StartTime) {
			return []calendar.Event{sessionEvent(sess, sess.StartTime)}
		}
		return nil
	}

	r, err := rrule.StrToRRule(sess.RRule.String)
	if err != nil {
		// rules are validated on write; an unparseable one yields nothing
		return nil
	}
	r.DTStart(sess.StartTime)

	var set rrule.Set
	set.RRule(r)

	rangeStart := calendar.DayFloor(period.Start)
	rangeEnd := calendar.DayFloor(period.End).Add(24*time.Hour - time.Nanosecond)
	occurrences := set.Between(rangeStart, rangeEnd, true)
	if len(occurrences) > maxOccurrencesPerSession {
		occurrences = occurrences[:maxOccurrencesPerSession]
	}

	events := make([]calendar.Event, 0, len(occurrences))
	for _, start := range occurrences {
		events = append(events, sessionEvent(sess, start))
	}
	return events
}

func sessionEvent(sess Session, start time.Time) calendar.Event {
	return calendar.Event{
		ID:       sess.ID + "/" + start.Format("20060102T1504"),
		CourseID: sess.CourseID,
		Title:    sess.Title,
		Room:     sess.Room.String,
		Start:    start,
		End:      start.Add(sess.EndTime.Sub(sess.StartTime)),
	}
}
