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
	"github.com/trezcool/darasa/core/schedule"
)

var sessionColumns = []string{
	"id", "course_id", "title", "start_time", "end_time", "room", "rrule",
	"created_at", "updated_at",
}

var sessionOrderings = map[string]string{
	"title":      "title",
	"start_time": "start_time",
	"created_at": "created_at",
}

type sessionRow struct {
	ID        string      `db:"id"`
	CourseID  string      `db:"course_id"`
	Title     string      `db:"title"`
	StartTime time.Time   `db:"start_time"`
	EndTime   time.Time   `db:"end_time"`
	Room      null.String `db:"room"`
	RRule     null.String `db:"rrule"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (row sessionRow) session() schedule.Session {
	return schedule.Session{
		ID:       row.ID,
		CourseID: row.CourseID,
		Title:    row.Title,
		// timestamps come back in UTC; reinterpret the wall-clock values locally
		StartTime: asLocal(row.StartTime),
		EndTime:   asLocal(row.EndTime),
		Room:      row.Room,
		RRule:     row.RRule,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// asLocal rebuilds t's wall-clock reading in the local zone. Used for the
// zoneless timestamp columns which hold naive local times.
func asLocal(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)
}

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateSession(ctx context.Context, sess schedule.Session) (schedule.Session, error) {
	query, args, err := psql.Insert("session").
		Columns(sessionColumns...).
		Values(
			sess.ID, sess.CourseID, sess.Title, sess.StartTime, sess.EndTime, sess.Room, sess.RRule,
			sess.CreatedAt, sess.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return schedule.Session{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return schedule.Session{}, errors.Wrap(err, "creating session")
	}
	return sess, nil
}

func (repo *scheduleRepository) GetSessionByID(ctx context.Context, id string) (schedule.Session, error) {
	query, args, err := psql.Select(sessionColumns...).From("session").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return schedule.Session{}, errors.Wrap(err, "building query")
	}

	var row sessionRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return schedule.Session{}, schedule.ErrNotFound
		}
		return schedule.Session{}, errors.Wrap(err, "getting session")
	}
	return row.session(), nil
}

func (repo *scheduleRepository) FilterSessions(ctx context.Context, filter schedule.QueryFilter, orderings ...core.DBOrdering) ([]schedule.Session, error) {
	qb := psql.Select(sessionColumns...).From("session")

	if filter.CourseID != "" {
		qb = qb.Where(sq.Eq{"course_id": filter.CourseID})
	}
	if len(filter.CourseIDs) > 0 {
		qb = qb.Where(sq.Eq{"course_id": filter.CourseIDs})
	}
	if cols := core.OrderingColumns(orderings, sessionOrderings); len(cols) > 0 {
		qb = qb.OrderBy(cols...)
	} else {
		qb = qb.OrderBy("start_time")
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	var rows []sessionRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering sessions")
	}
	sessions := make([]schedule.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.session())
	}
	return sessions, nil
}

func (repo *scheduleRepository) UpdateSession(ctx context.Context, sess schedule.Session) (schedule.Session, error) {
	query, args, err := psql.Update("session").
		Set("title", sess.Title).
		Set("start_time", sess.StartTime).
		Set("end_time", sess.EndTime).
		Set("room", sess.Room).
		Set("rrule", sess.RRule).
		Set("updated_at", sess.UpdatedAt).
		Where(sq.Eq{"id": sess.ID}).
		ToSql()
	if err != nil {
		return schedule.Session{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return schedule.Session{}, errors.Wrap(err, "updating session")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return schedule.Session{}, schedule.ErrNotFound
	}
	return repo.GetSessionByID(ctx, sess.ID)
}

func (repo *scheduleRepository) DeleteSessionsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Delete("session").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting sessions")
	}
	return nil
}
