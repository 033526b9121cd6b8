package course

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("course not found")
	ErrCodeExists      = errors.New("a course with this code already exists")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
	ErrNotEnrolled     = errors.New("student is not enrolled in this course")
)

type (
	Repository interface {
		CheckCodeUniqueness(ctx context.Context, code string, excludedCourses ...Course) error
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Course.Code or Course.Name.
		FilterCourses(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course, isArchived *bool) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error

		AddStudent(ctx context.Context, courseID, studentID string) (Enrollment, error)
		RemoveStudent(ctx context.Context, courseID, studentID string) error
		QueryStudents(ctx context.Context, courseID string) ([]user.User, error)
	}

	Service interface {
		CheckCodeUniqueness(code string, exclCourses ...Course) error
		Create(ctx context.Context, nc NewCourse) (Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		Query(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]Course, error)
		Update(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		Delete(ctx context.Context, ids ...string) error

		Enroll(ctx context.Context, courseID, studentID string) (Enrollment, error)
		Unenroll(ctx context.Context, courseID, studentID string) error
		Roster(ctx context.Context, courseID string) ([]user.User, error)
	}

	service struct {
		repo    Repository
		usrRepo user.Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrRepo user.Repository) Service {
	return &service{repo: repo, usrRepo: usrRepo}
}

func (svc *service) CheckCodeUniqueness(code string, exclCourses ...Course) error {
	if err := svc.repo.CheckCodeUniqueness(context.Background(), code, exclCourses...); err != nil {
		if err == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		ID:          uuid.New().String(),
		Code:        nc.Code,
		Name:        nc.Name,
		Description: null.NewString(nc.Description, nc.Description != ""),
		TeacherID:   nc.TeacherID,
		Room:        null.NewString(nc.Room, nc.Room != ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]Course, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.FilterCourses(ctx, *filter, orderings...)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs := Course{
		ID:        id,
		Code:      uc.Code,
		Name:      uc.Name,
		TeacherID: uc.TeacherID,
		UpdatedAt: time.Now().UTC(),
	}
	if uc.Description != nil {
		crs.Description = null.StringFromPtr(uc.Description)
	}
	if uc.Room != nil {
		crs.Room = null.StringFromPtr(uc.Room)
	}
	return svc.repo.UpdateCourse(ctx, crs, uc.IsArchived)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

// Enroll adds a student to the course roster. Only active students qualify.
func (svc *service) Enroll(ctx context.Context, courseID, studentID string) (Enrollment, error) {
	usr, err := svc.usrRepo.GetUserByID(ctx, studentID)
	if err != nil {
		return Enrollment{}, err
	}
	if !usr.IsStudent() || !usr.Active() {
		return Enrollment{}, core.NewFieldError("student_id", errors.New("not an active student"))
	}
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return Enrollment{}, err
	}
	return svc.repo.AddStudent(ctx, courseID, studentID)
}

func (svc *service) Unenroll(ctx context.Context, courseID, studentID string) error {
	return svc.repo.RemoveStudent(ctx, courseID, studentID)
}

func (svc *service) Roster(ctx context.Context, courseID string) ([]user.User, error) {
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudents(ctx, courseID)
}
