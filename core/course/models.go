package course

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Course is a taught subject with its own roster, schedule and assignments.
type Course struct {
	ID          string      `json:"id"`
	Code        string      `json:"code"` // e.g. "MATH-101"; unique
	Name        string      `json:"name"`
	Description null.String `json:"description,omitempty"`
	TeacherID   string      `json:"teacher_id"`
	Room        null.String `json:"room,omitempty"` // default room; physical location or URL
	IsArchived  bool        `json:"is_archived"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

// Enrollment is one student's membership on a course roster.
type Enrollment struct {
	CourseID  string    `json:"course_id"`
	StudentID string    `json:"student_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Code        string `json:"code" validate:"required,coursecode"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	TeacherID   string `json:"teacher_id" validate:"required,uuid4"`
	Room        string `json:"room"`
}

func (nc *NewCourse) Validate(svc Service) error {
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.Name = core.CleanString(nc.Name)
	nc.Room = core.CleanString(nc.Room)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(nc.Code)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Code        string  `json:"code" validate:"omitempty,coursecode"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	TeacherID   string  `json:"teacher_id" validate:"omitempty,uuid4"`
	Room        *string `json:"room"`
	IsArchived  *bool   `json:"is_archived"`
}

func (uc *UpdateCourse) Validate(origCrs Course, svc Service) error {
	code := core.CleanString(uc.Code, true /* lower */)
	if code != "" {
		uc.Code = code
	} else {
		uc.Code = origCrs.Code
	}

	name := core.CleanString(uc.Name)
	if name != "" {
		uc.Name = name
	} else {
		uc.Name = origCrs.Name
	}

	if uc.TeacherID == "" {
		uc.TeacherID = origCrs.TeacherID
	}

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	return svc.CheckCodeUniqueness(uc.Code, origCrs)
}

type QueryFilter struct {
	Search     string `query:"search"`
	TeacherID  string `query:"teacher_id"`
	StudentID  string `query:"student_id"` // courses the student is enrolled in
	IsArchived *bool  `query:"is_archived"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.TeacherID == "" && qf.StudentID == "" && qf.IsArchived == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
