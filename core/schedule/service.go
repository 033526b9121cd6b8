package schedule

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/calendar"
)

var ErrNotFound = errors.New("session not found")

type (
	Repository interface {
		CreateSession(ctx context.Context, sess Session) (Session, error)
		GetSessionByID(ctx context.Context, id string) (Session, error)
		FilterSessions(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Session, error)
		UpdateSession(ctx context.Context, sess Session) (Session, error)
		DeleteSessionsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, ns NewSession) (Session, error)
		GetByID(ctx context.Context, id string) (Session, error)
		Query(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]Session, error)
		Update(ctx context.Context, id string, us UpdateSession) (Session, error)
		Delete(ctx context.Context, ids ...string) error

		// Agenda expands the sessions of the given courses into concrete
		// events falling within period, sorted by start time.
		Agenda(ctx context.Context, courseIDs []string, period calendar.Period) ([]calendar.Event, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, ns NewSession) (Session, error) {
	now := time.Now().UTC()
	sess := Session{
		ID:        uuid.New().String(),
		CourseID:  ns.CourseID,
		Title:     ns.Title,
		StartTime: ns.start,
		EndTime:   ns.end,
		Room:      null.NewString(ns.Room, ns.Room != ""),
		RRule:     null.NewString(ns.RRule, ns.RRule != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateSession(ctx, sess)
}

func (svc *service) GetByID(ctx context.Context, id string) (Session, error) {
	return svc.repo.GetSessionByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]Session, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.FilterSessions(ctx, *filter, orderings...)
}

func (svc *service) Update(ctx context.Context, id string, us UpdateSession) (Session, error) {
	sess, err := svc.repo.GetSessionByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sess.Title = us.Title
	sess.StartTime = us.start
	sess.EndTime = us.end
	if us.Room != nil {
		sess.Room = null.StringFromPtr(us.Room)
	}
	if us.RRule.Valid {
		sess.RRule = null.NewString(us.RRule.String, us.RRule.String != "")
	}
	sess.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSession(ctx, sess)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSessionsByID(ctx, ids...)
}

func (svc *service) Agenda(ctx context.Context, courseIDs []string, period calendar.Period) ([]calendar.Event, error) {
	if len(courseIDs) == 0 {
		// no courses, no agenda; an empty filter would match everything
		return []calendar.Event{}, nil
	}
	sessions, err := svc.repo.FilterSessions(ctx, QueryFilter{CourseIDs: courseIDs})
	if err != nil {
		return nil, err
	}

	events := make([]calendar.Event, 0, len(sessions))
	for _, sess := range sessions {
		events = append(events, Expand(sess, period)...)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ID < events[j].ID
		}
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}
