package schedule

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/trezcool/darasa/core/calendar"
)

// FeedICal serializes the given events into an iCalendar document that
// external calendar clients can subscribe to.
func FeedICal(calName string, events []calendar.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//darasa//schedule//EN")
	cal.SetName(calName)

	now := time.Now().UTC()
	for _, evt := range events {
		ev := cal.AddEvent(evt.ID)
		ev.SetDtStampTime(now)
		ev.SetStartAt(evt.Start)
		ev.SetEndAt(evt.End)
		ev.SetSummary(evt.Title)
		if evt.Room != "" {
			ev.SetLocation(evt.Room)
		}
	}
	return cal.Serialize()
}
