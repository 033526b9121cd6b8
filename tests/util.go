package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/schedule"
	"github.com/trezcool/darasa/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	code, name, teacherID string,
) course.Course {
	now := time.Now().UTC()
	crs := course.Course{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		TeacherID: teacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	crs, err := repo.CreateCourse(context.Background(), crs)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func EnrollStudent(t *testing.T, repo course.Repository, courseID, studentID string) {
	if _, err := repo.AddStudent(context.Background(), courseID, studentID); err != nil {
		t.Fatalf("EnrollStudent() failed: %v", err)
	}
}

func CreateSession(
	t *testing.T,
	repo schedule.Repository,
	courseID, title string,
	start, end time.Time,
	rr string,
) schedule.Session {
	now := time.Now().UTC()
	sess := schedule.Session{
		ID:        uuid.New().String(),
		CourseID:  courseID,
		Title:     title,
		StartTime: start,
		EndTime:   end,
		RRule:     null.NewString(rr, rr != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess, err := repo.CreateSession(context.Background(), sess)
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return sess
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	courseID, title string,
	dueDate null.Time,
	points null.Int,
) assignment.Assignment {
	now := time.Now().UTC()
	asg := assignment.Assignment{
		ID:        uuid.New().String(),
		CourseID:  courseID,
		Title:     title,
		DueDate:   dueDate,
		Points:    points,
		CreatedAt: now,
		UpdatedAt: now,
	}
	asg, err := repo.CreateAssignment(context.Background(), asg)
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}
