package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

var courseColumns = []string{
	"id", "code", "name", "description", "teacher_id", "room",
	"is_archived", "created_at", "updated_at",
}

var courseOrderings = map[string]string{
	"code":       "code",
	"name":       "name",
	"created_at": "created_at",
}

type courseRow struct {
	ID          string      `db:"id"`
	Code        string      `db:"code"`
	Name        string      `db:"name"`
	Description null.String `db:"description"`
	TeacherID   string      `db:"teacher_id"`
	Room        null.String `db:"room"`
	IsArchived  bool        `db:"is_archived"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (row courseRow) course() course.Course {
	return course.Course{
		ID:          row.ID,
		Code:        row.Code,
		Name:        row.Name,
		Description: row.Description,
		TeacherID:   row.TeacherID,
		Room:        row.Room,
		IsArchived:  row.IsArchived,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CheckCodeUniqueness(ctx context.Context, code string, excludedCourses ...course.Course) error {
	qb := psql.Select("COUNT(*)").From("course").Where(sq.Eq{"code": code})
	if len(excludedCourses) > 0 {
		ids := make([]string, 0, len(excludedCourses))
		for _, crs := range excludedCourses {
			ids = append(ids, crs.ID)
		}
		qb = qb.Where(sq.NotEq{"id": ids})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}

	var count int
	if err = repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking code uniqueness")
	}
	if count > 0 {
		return course.ErrCodeExists
	}
	return nil
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	query, args, err := psql.Insert("course").
		Columns(courseColumns...).
		Values(
			crs.ID, crs.Code, crs.Name, crs.Description, crs.TeacherID, crs.Room,
			crs.IsArchived, crs.CreatedAt, crs.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return course.Course{}, errors.Wrap(err, "creating course")
	}
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	query, args, err := psql.Select(courseColumns...).From("course").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}

	var row courseRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return row.course(), nil
}

func (repo *courseRepository) FilterCourses(ctx context.Context, filter course.QueryFilter, orderings ...core.DBOrdering) ([]course.Course, error) {
	qb := psql.Select(prefixColumns("course", courseColumns)...).From("course")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"course.code": pattern},
			sq.ILike{"course.name": pattern},
		})
	}
	if filter.TeacherID != "" {
		qb = qb.Where(sq.Eq{"course.teacher_id": filter.TeacherID})
	}
	if filter.StudentID != "" {
		qb = qb.Join("enrollment ON enrollment.course_id = course.id").
			Where(sq.Eq{"enrollment.student_id": filter.StudentID})
	}
	if filter.IsArchived != nil {
		qb = qb.Where(sq.Eq{"course.is_archived": *filter.IsArchived})
	}
	if cols := core.OrderingColumns(orderings, courseOrderings); len(cols) > 0 {
		qb = qb.OrderBy(cols...)
	} else {
		qb = qb.OrderBy("course.code")
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []courseRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.course())
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course, isArchived *bool) (course.Course, error) {
	qb := psql.Update("course").
		Set("code", crs.Code).
		Set("name", crs.Name).
		Set("teacher_id", crs.TeacherID).
		Set("updated_at", crs.UpdatedAt).
		Where(sq.Eq{"id": crs.ID})
	if crs.Description.Valid {
		qb = qb.Set("description", crs.Description)
	}
	if crs.Room.Valid {
		qb = qb.Set("room", crs.Room)
	}
	if isArchived != nil {
		qb = qb.Set("is_archived", *isArchived)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.GetCourseByID(ctx, crs.ID)
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete("course").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}

func (repo *courseRepository) AddStudent(ctx context.Context, courseID, studentID string) (course.Enrollment, error) {
	enr := course.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
		CreatedAt: time.Now().UTC(),
	}
	query, args, err := psql.Insert("enrollment").
		Columns("course_id", "student_id", "created_at").
		Values(enr.CourseID, enr.StudentID, enr.CreatedAt).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return course.Enrollment{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return course.Enrollment{}, errors.Wrap(err, "enrolling student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Enrollment{}, course.ErrAlreadyEnrolled
	}
	return enr, nil
}

func (repo *courseRepository) RemoveStudent(ctx context.Context, courseID, studentID string) error {
	query, args, err := psql.Delete("enrollment").
		Where(sq.Eq{"course_id": courseID, "student_id": studentID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "unenrolling student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.ErrNotEnrolled
	}
	return nil
}

func (repo *courseRepository) QueryStudents(ctx context.Context, courseID string) ([]user.User, error) {
	query, args, err := psql.Select(prefixColumns("u", userColumns)...).
		From(`"user" u`).
		Join("enrollment ON enrollment.student_id = u.id").
		Where(sq.Eq{"enrollment.course_id": courseID}).
		OrderBy("u.name").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []userRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying roster")
	}
	students := make([]user.User, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.user())
	}
	return students, nil
}

func prefixColumns(prefix string, cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		out = append(out, prefix+"."+col)
	}
	return out
}
