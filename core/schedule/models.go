package schedule

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/calendar"
)

// Session is a scheduled class meeting for a course. A Session with a
// recurrence rule stands for the whole series; occurrences are expanded
// on demand when building an agenda.
type Session struct {
	ID        string      `json:"id"`
	CourseID  string      `json:"course_id"`
	Title     string      `json:"title"`
	StartTime time.Time   `json:"start_time"` // wall-clock local time
	EndTime   time.Time   `json:"end_time"`
	Room      null.String `json:"room,omitempty"`
	RRule     null.String `json:"rrule,omitempty"` // e.g. "FREQ=WEEKLY;BYDAY=MO,WE;UNTIL=20240630T000000Z"
	CreatedAt time.Time   `json:"created_at"`      // UTC
	UpdatedAt time.Time   `json:"updated_at"`      // UTC
}

// NewSession contains information needed to schedule a new Session.
// Timestamps come in as raw strings so that upstream timezone suffixes
// can be stripped before parsing.
type NewSession struct {
	CourseID  string `json:"course_id" validate:"required,uuid4"`
	Title     string `json:"title" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Room      string `json:"room"`
	RRule     string `json:"rrule"`

	start time.Time
	end   time.Time
}

func (ns *NewSession) Validate() error {
	ns.Title = core.CleanString(ns.Title)
	ns.Room = core.CleanString(ns.Room)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}

	var err error
	if ns.start, err = calendar.NormalizeLocal(ns.StartTime); err != nil {
		return core.NewFieldError("start_time", err)
	}
	if ns.end, err = calendar.NormalizeLocal(ns.EndTime); err != nil {
		return core.NewFieldError("end_time", err)
	}
	if !ns.end.After(ns.start) {
		return core.NewFieldError("end_time", errEndNotAfterStart)
	}
	if ns.RRule != "" {
		if err = validateRRule(ns.RRule); err != nil {
			return core.NewFieldError("rrule", err)
		}
	}
	return nil
}

// UpdateSession defines what information may be provided to modify an
// existing Session. Empty fields keep their current value; RRule may be
// cleared by sending an explicit empty string.
type UpdateSession struct {
	Title     string      `json:"title"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Room      *string     `json:"room"`
	RRule     null.String `json:"rrule"`

	start time.Time
	end   time.Time
}

func (us *UpdateSession) Validate(origSess Session) error {
	us.Title = core.CleanString(us.Title)
	if us.Title == "" {
		us.Title = origSess.Title
	}

	us.start = origSess.StartTime
	us.end = origSess.EndTime

	var err error
	if us.StartTime != "" {
		if us.start, err = calendar.NormalizeLocal(us.StartTime); err != nil {
			return core.NewFieldError("start_time", err)
		}
	}
	if us.EndTime != "" {
		if us.end, err = calendar.NormalizeLocal(us.EndTime); err != nil {
			return core.NewFieldError("end_time", err)
		}
	}
	if !us.end.After(us.start) {
		return core.NewFieldError("end_time", errEndNotAfterStart)
	}
	if us.RRule.Valid && us.RRule.String != "" {
		if err = validateRRule(us.RRule.String); err != nil {
			return core.NewFieldError("rrule", err)
		}
	}
	return nil
}

type QueryFilter struct {
	CourseID  string `query:"course_id"`
	CourseIDs []string
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.CourseID == "" && len(qf.CourseIDs) == 0
}
