package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) CreateSession(_ context.Context, sess schedule.Session) (schedule.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.table[sess.ID] = &sess
	return sess, nil
}

func (repo *scheduleRepository) GetSessionByID(_ context.Context, id string) (schedule.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sess, ok := repo.db.table[id]; ok {
		return *sess, nil
	}
	return schedule.Session{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) FilterSessions(_ context.Context, filter schedule.QueryFilter, orderings ...core.DBOrdering) ([]schedule.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courseIDs := make(map[string]bool, len(filter.CourseIDs))
	for _, id := range filter.CourseIDs {
		courseIDs[id] = true
	}

	var sessions []schedule.Session
	for _, sess := range repo.db.table {
		if filter.CourseID != "" && sess.CourseID != filter.CourseID {
			continue
		}
		if len(courseIDs) > 0 && !courseIDs[sess.CourseID] {
			continue
		}
		sessions = append(sessions, *sess)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartTime.Before(sessions[j].StartTime) })
	return sessions, nil
}

func (repo *scheduleRepository) UpdateSession(_ context.Context, sess schedule.Session) (schedule.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[sess.ID]; !ok {
		return schedule.Session{}, schedule.ErrNotFound
	}
	repo.db.table[sess.ID] = &sess
	return sess, nil
}

func (repo *scheduleRepository) DeleteSessionsByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
