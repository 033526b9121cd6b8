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
	"github.com/trezcool/darasa/core/assignment"
)

var assignmentColumns = []string{
	"id", "course_id", "title", "description", "due_date", "points",
	"created_at", "updated_at",
}

var assignmentOrderings = map[string]string{
	"title":      "title",
	"due_date":   "due_date",
	"created_at": "created_at",
}

var submissionColumns = []string{
	"id", "assignment_id", "student_id", "body", "is_late", "submitted_at",
	"grade", "comment", "graded_at",
}

type assignmentRow struct {
	ID          string      `db:"id"`
	CourseID    string      `db:"course_id"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	DueDate     null.Time   `db:"due_date"`
	Points      null.Int    `db:"points"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (row assignmentRow) assignment() assignment.Assignment {
	asg := assignment.Assignment{
		ID:          row.ID,
		CourseID:    row.CourseID,
		Title:       row.Title,
		Description: row.Description,
		DueDate:     row.DueDate,
		Points:      row.Points,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if asg.DueDate.Valid {
		asg.DueDate.Time = asLocal(asg.DueDate.Time)
	}
	return asg
}

type attachmentRow struct {
	ID           string    `db:"id"`
	AssignmentID string    `db:"assignment_id"`
	FileName     string    `db:"file_name"`
	ContentType  string    `db:"content_type"`
	Size         int64     `db:"size"`
	Data         []byte    `db:"data"`
	CreatedAt    time.Time `db:"created_at"`
}

func (row attachmentRow) attachment() assignment.Attachment {
	return assignment.Attachment(row)
}

type submissionRow struct {
	ID           string      `db:"id"`
	AssignmentID string      `db:"assignment_id"`
	StudentID    string      `db:"student_id"`
	Body         string      `db:"body"`
	IsLate       bool        `db:"is_late"`
	SubmittedAt  time.Time   `db:"submitted_at"`
	Grade        null.Int    `db:"grade"`
	Comment      null.String `db:"comment"`
	GradedAt     null.Time   `db:"graded_at"`
}

func (row submissionRow) submission() assignment.Submission {
	return assignment.Submission(row)
}

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	query, args, err := psql.Insert("assignment").
		Columns(assignmentColumns...).
		Values(
			asg.ID, asg.CourseID, asg.Title, asg.Description, asg.DueDate, asg.Points,
			asg.CreatedAt, asg.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	query, args, err := psql.Select(assignmentColumns...).From("assignment").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "building query")
	}

	var row assignmentRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return row.assignment(), nil
}

func (repo *assignmentRepository) FilterAssignments(ctx context.Context, filter assignment.QueryFilter, orderings ...core.DBOrdering) ([]assignment.Assignment, error) {
	qb := psql.Select(assignmentColumns...).From("assignment")

	if filter.CourseID != "" {
		qb = qb.Where(sq.Eq{"course_id": filter.CourseID})
	}
	if len(filter.CourseIDs) > 0 {
		qb = qb.Where(sq.Eq{"course_id": filter.CourseIDs})
	}
	if !filter.DueBefore.IsZero() {
		qb = qb.Where(sq.LtOrEq{"due_date": filter.DueBefore})
	}
	if !filter.DueAfter.IsZero() {
		qb = qb.Where(sq.GtOrEq{"due_date": filter.DueAfter})
	}
	if cols := core.OrderingColumns(orderings, assignmentOrderings); len(cols) > 0 {
		qb = qb.OrderBy(cols...)
	} else {
		qb = qb.OrderBy("due_date NULLS LAST", "created_at DESC")
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []assignmentRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.assignment())
	}
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, asg assignment.Assignment, dueDate *null.Time) (assignment.Assignment, error) {
	qb := psql.Update("assignment").
		Set("title", asg.Title).
		Set("updated_at", asg.UpdatedAt).
		Where(sq.Eq{"id": asg.ID})
	if asg.Description.Valid {
		qb = qb.Set("description", asg.Description)
	}
	if asg.Points.Valid {
		qb = qb.Set("points", asg.Points)
	}
	if dueDate != nil {
		qb = qb.Set("due_date", *dueDate)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return repo.GetAssignmentByID(ctx, asg.ID)
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete("assignment").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting assignments")
	}
	return nil
}

func (repo *assignmentRepository) CreateAttachment(ctx context.Context, att assignment.Attachment) (assignment.Attachment, error) {
	query, args, err := psql.Insert("attachment").
		Columns("id", "assignment_id", "file_name", "content_type", "size", "data", "created_at").
		Values(att.ID, att.AssignmentID, att.FileName, att.ContentType, att.Size, att.Data, att.CreatedAt).
		ToSql()
	if err != nil {
		return assignment.Attachment{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return assignment.Attachment{}, errors.Wrap(err, "creating attachment")
	}
	return att, nil
}

func (repo *assignmentRepository) GetAttachmentByID(ctx context.Context, id string) (assignment.Attachment, error) {
	query, args, err := psql.Select("id", "assignment_id", "file_name", "content_type", "size", "data", "created_at").
		From("attachment").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return assignment.Attachment{}, errors.Wrap(err, "building query")
	}

	var row attachmentRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Attachment{}, assignment.ErrAttachmentNotFound
		}
		return assignment.Attachment{}, errors.Wrap(err, "getting attachment")
	}
	return row.attachment(), nil
}

func (repo *assignmentRepository) GetAttachmentsByAssignmentID(ctx context.Context, assignmentID string) ([]assignment.Attachment, error) {
	query, args, err := psql.Select("id", "assignment_id", "file_name", "content_type", "size", "data", "created_at").
		From("attachment").
		Where(sq.Eq{"assignment_id": assignmentID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []attachmentRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "listing attachments")
	}
	atts := make([]assignment.Attachment, 0, len(rows))
	for _, row := range rows {
		atts = append(atts, row.attachment())
	}
	return atts, nil
}

func (repo *assignmentRepository) DeleteAttachmentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete("attachment").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting attachments")
	}
	return nil
}

func (repo *assignmentRepository) UpsertSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	query, args, err := psql.Insert("submission").
		Columns(submissionColumns...).
		Values(
			sub.ID, sub.AssignmentID, sub.StudentID, sub.Body, sub.IsLate, sub.SubmittedAt,
			sub.Grade, sub.Comment, sub.GradedAt,
		).
		Suffix(`ON CONFLICT (assignment_id, student_id) DO UPDATE SET
			body = EXCLUDED.body,
			is_late = EXCLUDED.is_late,
			submitted_at = EXCLUDED.submitted_at,
			grade = EXCLUDED.grade,
			comment = EXCLUDED.comment,
			graded_at = EXCLUDED.graded_at`).
		ToSql()
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return assignment.Submission{}, errors.Wrap(err, "saving submission")
	}
	return repo.GetSubmission(ctx, sub.AssignmentID, sub.StudentID)
}

func (repo *assignmentRepository) GetSubmission(ctx context.Context, assignmentID, studentID string) (assignment.Submission, error) {
	return repo.getSubmissionBy(ctx, sq.Eq{"assignment_id": assignmentID, "student_id": studentID})
}

func (repo *assignmentRepository) GetSubmissionByID(ctx context.Context, id string) (assignment.Submission, error) {
	return repo.getSubmissionBy(ctx, sq.Eq{"id": id})
}

func (repo *assignmentRepository) getSubmissionBy(ctx context.Context, pred interface{}) (assignment.Submission, error) {
	query, args, err := psql.Select(submissionColumns...).From("submission").Where(pred).ToSql()
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "building query")
	}

	var row submissionRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Submission{}, assignment.ErrSubmissionNotFound
		}
		return assignment.Submission{}, errors.Wrap(err, "getting submission")
	}
	return row.submission(), nil
}

func (repo *assignmentRepository) GetSubmissionsByAssignmentID(ctx context.Context, assignmentID string) ([]assignment.Submission, error) {
	query, args, err := psql.Select(submissionColumns...).
		From("submission").
		Where(sq.Eq{"assignment_id": assignmentID}).
		OrderBy("submitted_at DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []submissionRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "listing submissions")
	}
	subs := make([]assignment.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.submission())
	}
	return subs, nil
}
