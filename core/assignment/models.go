package assignment

import (
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/calendar"
)

// Assignment is a piece of graded course work with an optional due date.
type Assignment struct {
	ID          string      `json:"id"`
	CourseID    string      `json:"course_id"`
	Title       string      `json:"title"`
	Description null.String `json:"description,omitempty"`
	DueDate     null.Time   `json:"due_date,omitempty"` // wall-clock local time
	Points      null.Int    `json:"points,omitempty"`   // max obtainable; null means ungraded
	CreatedAt   time.Time   `json:"created_at"`         // UTC
	UpdatedAt   time.Time   `json:"updated_at"`         // UTC
}

// Attachment is a file handed out with an assignment.
type Attachment struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Data         []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// Submission is one student's answer to an assignment. A student has at
// most one submission per assignment; resubmitting replaces the body and
// bumps SubmittedAt.
type Submission struct {
	ID           string      `json:"id"`
	AssignmentID string      `json:"assignment_id"`
	StudentID    string      `json:"student_id"`
	Body         string      `json:"body"`
	IsLate       bool        `json:"is_late"`
	SubmittedAt  time.Time   `json:"submitted_at"` // UTC
	Grade        null.Int    `json:"grade,omitempty"`
	Comment      null.String `json:"comment,omitempty"`
	GradedAt     null.Time   `json:"graded_at,omitempty"` // UTC
}

func (s *Submission) IsGraded() bool { return s.GradedAt.Valid }

// NewAssignment contains information needed to create a new Assignment.
// DueDate comes in as a raw string so that upstream timezone suffixes can
// be stripped before parsing.
type NewAssignment struct {
	CourseID    string `json:"course_id" validate:"required,uuid4"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Points      *int   `json:"points" validate:"omitempty,gt=0"`

	dueDate null.Time
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)

	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	if na.DueDate != "" {
		due, err := calendar.NormalizeLocal(na.DueDate)
		if err != nil {
			return core.NewFieldError("due_date", err)
		}
		na.dueDate = null.TimeFrom(due)
	}
	return nil
}

// UpdateAssignment defines what information may be provided to modify an
// existing Assignment. Empty fields keep their current value; DueDate may
// be cleared by sending an explicit null.
type UpdateAssignment struct {
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	DueDate     null.String `json:"due_date"`
	Points      *int        `json:"points" validate:"omitempty,gt=0"`

	dueDate null.Time
	dueSet  bool
}

func (ua *UpdateAssignment) Validate(origAsg Assignment) error {
	ua.Title = core.CleanString(ua.Title)
	if ua.Title == "" {
		ua.Title = origAsg.Title
	}

	if err := core.Validate.Struct(ua); err != nil {
		return err
	}
	if ua.DueDate.Valid {
		ua.dueSet = true
		if ua.DueDate.String != "" {
			due, err := calendar.NormalizeLocal(ua.DueDate.String)
			if err != nil {
				return core.NewFieldError("due_date", err)
			}
			ua.dueDate = null.TimeFrom(due)
		}
	}
	return nil
}

// NewSubmission contains information needed to submit (or resubmit) an
// answer to an assignment.
type NewSubmission struct {
	AssignmentID string `json:"assignment_id" validate:"required,uuid4"`
	Body         string `json:"body" validate:"required"`

	StudentID string `json:"-"` // set from the authenticated user
}

func (ns *NewSubmission) Validate() error {
	ns.Body = core.CleanString(ns.Body)
	return core.Validate.Struct(ns)
}

// NewFeedback contains a teacher's grade and comment on a submission.
type NewFeedback struct {
	Grade   int    `json:"grade" validate:"gte=0"`
	Comment string `json:"comment"`

	TeacherID string `json:"-"` // set from the authenticated user
}

func (nf *NewFeedback) Validate(asg Assignment) error {
	nf.Comment = core.CleanString(nf.Comment)

	if err := core.Validate.Struct(nf); err != nil {
		return err
	}
	if asg.Points.Valid && nf.Grade > asg.Points.Int {
		return core.NewFieldError("grade", errors.New("grade exceeds the assignment's maximum points"))
	}
	return nil
}

type QueryFilter struct {
	CourseID  string `query:"course_id"`
	CourseIDs []string
	DueBefore time.Time
	DueAfter  time.Time
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.CourseID == "" && len(qf.CourseIDs) == 0 && qf.DueBefore.IsZero() && qf.DueAfter.IsZero()
}
