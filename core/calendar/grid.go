package calendar

// PositionedEvent is an Event placed on the hour grid. Ephemeral: recomputed
// on every request, never stored.
type PositionedEvent struct {
	Event

	// DayColumn is the column index within the active period
	// (0 = period start day), or -1 when outside the visible range.
	DayColumn int `json:"day_column"`

	// StartOffsetMinutes is minutes after the grid's first displayed hour.
	// Events starting earlier clip at the top edge (offset 0).
	StartOffsetMinutes int `json:"start_offset_minutes"`

	// DurationMinutes is End-Start, floored at the configured minimum so
	// near-zero-duration events remain clickable.
	DurationMinutes int `json:"duration_minutes"`

	ColorIndex int `json:"color_index"`
}

// DayColumn returns the grid column for `ev` within the period, or -1 when
// the event's day falls outside [0, period.Days()).
func DayColumn(ev Event, period Period) int {
	col := DaysBetween(period.Start, ev.Start)
	if col < 0 || col >= period.Days() {
		return -1
	}
	return col
}

// PlaceEvents positions each in-period event on the hour grid.
//
// Placement is order-independent: each output depends only on the event's own
// fields plus the shared period/options, never on other events. Overlapping
// events land on the same column/offset; the renderer disambiguates by
// z-order and click-to-select. No column packing is attempted.
//
// Events outside the period's day range are silently excluded; list-view
// rendering of those events is unaffected since it does not use the grid.
func PlaceEvents(events []Event, period Period, opts Options) []PositionedEvent {
	opts = opts.withDefaults()
	colors := AssignColors(events, opts.PaletteSize)

	placed := make([]PositionedEvent, 0, len(events))
	for _, ev := range events {
		col := DayColumn(ev, period)
		if col < 0 {
			continue
		}

		offset := (ev.Start.Hour()-opts.GridFirstHour)*60 + ev.Start.Minute()
		if offset < 0 {
			offset = 0 // clipped at the top edge; a display simplification, not a data error
		}

		dur := int(ev.End.Sub(ev.Start).Minutes())
		if dur < opts.MinVisibleMinutes {
			dur = opts.MinVisibleMinutes
		}

		placed = append(placed, PositionedEvent{
			Event:              ev,
			DayColumn:          col,
			StartOffsetMinutes: offset,
			DurationMinutes:    dur,
			ColorIndex:         colors[ev.CourseID],
		})
	}
	return placed
}
