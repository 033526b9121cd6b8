package calendar

import "time"

// Navigator is the view navigation state machine: the anchor date the grid is
// centered on, the active view mode, and the selected event (detail panel).
// It lives for the duration of a view session and is never persisted.
type Navigator struct {
	AnchorDate      time.Time `json:"anchor_date"`
	Mode            ViewMode  `json:"view_mode"`
	SelectedEventID string    `json:"selected_event_id,omitempty"`
}

// NewNavigator starts a session anchored on today in the given mode.
func NewNavigator(mode ViewMode) *Navigator {
	return &Navigator{
		AnchorDate: DayFloor(NowFunc()),
		Mode:       ParseViewMode(string(mode)),
	}
}

// Navigate advances the anchor by `direction` (+1 or -1) units of the current
// mode's period: one day, one week, or one calendar month. Month steps snap
// the anchor to the first of the month before adding, so advancing from
// Jan 31 lands on Feb 1 rather than skipping into March. Selection clears.
func (n *Navigator) Navigate(direction int) {
	day := DayFloor(n.AnchorDate)
	switch n.Mode {
	case ModeDay:
		n.AnchorDate = day.AddDate(0, 0, direction)
	case ModeMonth:
		first := day.AddDate(0, 0, 1-day.Day())
		n.AnchorDate = first.AddDate(0, direction, 0)
	default: // week, list
		n.AnchorDate = day.AddDate(0, 0, 7*direction)
	}
	n.SelectedEventID = ""
}

// SetMode switches the view mode without moving the anchor. Selection clears.
func (n *Navigator) SetMode(mode ViewMode) {
	n.Mode = ParseViewMode(string(mode))
	n.SelectedEventID = ""
}

// GoToToday resets the anchor to the current date and clears any selection.
func (n *Navigator) GoToToday() {
	n.AnchorDate = DayFloor(NowFunc())
	n.SelectedEventID = ""
}

// SelectEvent toggles the detail panel: selecting the already-selected event
// (or passing "") deselects it.
func (n *Navigator) SelectEvent(id string) {
	if id == "" || id == n.SelectedEventID {
		n.SelectedEventID = ""
		return
	}
	n.SelectedEventID = id
}

// Period resolves the currently visible period for this navigation state.
func (n *Navigator) Period(opts Options) Period {
	return ResolvePeriod(n.AnchorDate, n.Mode, opts)
}
