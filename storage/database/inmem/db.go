// Package inmemdb provides map-backed repositories used by tests and
// local development where no Postgres instance is available.
package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/schedule"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		user       *userTable
		course     *courseTable
		schedule   *scheduleTable
		assignment *assignmentTable
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	courseTable struct {
		mutex       sync.RWMutex
		table       map[string]*course.Course
		enrollments map[string]map[string]course.Enrollment // courseID -> studentID
	}

	scheduleTable struct {
		mutex sync.RWMutex
		table map[string]*schedule.Session
	}

	assignmentTable struct {
		mutex       sync.RWMutex
		table       map[string]*assignment.Assignment
		attachments map[string]*assignment.Attachment
		submissions map[string]*assignment.Submission
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		course:   &courseTable{table: make(map[string]*course.Course), enrollments: make(map[string]map[string]course.Enrollment)},
		schedule: &scheduleTable{table: make(map[string]*schedule.Session)},
		assignment: &assignmentTable{
			table:       make(map[string]*assignment.Assignment),
			attachments: make(map[string]*assignment.Attachment),
			submissions: make(map[string]*assignment.Submission),
		},
	}
	return db, nil
}
