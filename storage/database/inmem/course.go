package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type courseRepository struct {
	db    *courseTable
	users *userTable
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course, users: db.user}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, crs := range repo.db.table {
		courses = append(courses, *crs)
	}
	return courses
}

func (repo *courseRepository) CheckCodeUniqueness(_ context.Context, code string, excludedCourses ...course.Course) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]bool, len(excludedCourses))
	for _, crs := range excludedCourses {
		excluded[crs.ID] = true
	}
	for _, crs := range repo.query() {
		if crs.Code == code && !excluded[crs.ID] {
			return course.ErrCodeExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(_ context.Context, filter course.QueryFilter, orderings ...core.DBOrdering) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var courses []course.Course
	for _, crs := range repo.query() {
		if repo.matchesFilter(crs, filter) {
			courses = append(courses, crs)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (repo *courseRepository) matchesFilter(crs course.Course, filter course.QueryFilter) bool {
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(crs.Code, search) && !strings.Contains(strings.ToLower(crs.Name), search) {
			return false
		}
	}
	if filter.TeacherID != "" && crs.TeacherID != filter.TeacherID {
		return false
	}
	if filter.StudentID != "" {
		if _, ok := repo.db.enrollments[crs.ID][filter.StudentID]; !ok {
			return false
		}
	}
	if filter.IsArchived != nil && crs.IsArchived != *filter.IsArchived {
		return false
	}
	return true
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course, isArchived *bool) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	origCrs, ok := repo.db.table[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	if crs.Description.Valid {
		origCrs.Description = crs.Description
	}
	if crs.Room.Valid {
		origCrs.Room = crs.Room
	}
	if isArchived != nil {
		origCrs.IsArchived = *isArchived
	}
	origCrs.Code = crs.Code
	origCrs.Name = crs.Name
	origCrs.TeacherID = crs.TeacherID
	origCrs.UpdatedAt = crs.UpdatedAt

	repo.db.table[crs.ID] = origCrs
	return *origCrs, nil
}

func (repo *courseRepository) DeleteCoursesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
		delete(repo.db.enrollments, id)
	}
	return nil
}

func (repo *courseRepository) AddStudent(_ context.Context, courseID, studentID string) (course.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.enrollments[courseID][studentID]; ok {
		return course.Enrollment{}, course.ErrAlreadyEnrolled
	}
	if repo.db.enrollments[courseID] == nil {
		repo.db.enrollments[courseID] = make(map[string]course.Enrollment)
	}
	enr := course.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
		CreatedAt: time.Now().UTC(),
	}
	repo.db.enrollments[courseID][studentID] = enr
	return enr, nil
}

func (repo *courseRepository) RemoveStudent(_ context.Context, courseID, studentID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.enrollments[courseID][studentID]; !ok {
		return course.ErrNotEnrolled
	}
	delete(repo.db.enrollments[courseID], studentID)
	return nil
}

func (repo *courseRepository) QueryStudents(_ context.Context, courseID string) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()

	students := make([]user.User, 0, len(repo.db.enrollments[courseID]))
	for studentID := range repo.db.enrollments[courseID] {
		if usr, ok := repo.users.table[studentID]; ok {
			students = append(students, *usr)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}
