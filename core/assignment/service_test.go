package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type fakeRepo struct {
	assignments map[string]Assignment
	submissions map[string]Submission // by ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		assignments: make(map[string]Assignment),
		submissions: make(map[string]Submission),
	}
}

func (r *fakeRepo) CreateAssignment(_ context.Context, asg Assignment) (Assignment, error) {
	r.assignments[asg.ID] = asg
	return asg, nil
}
func (r *fakeRepo) GetAssignmentByID(_ context.Context, id string) (Assignment, error) {
	if asg, ok := r.assignments[id]; ok {
		return asg, nil
	}
	return Assignment{}, ErrNotFound
}
func (r *fakeRepo) FilterAssignments(_ context.Context, _ QueryFilter, _ ...core.DBOrdering) ([]Assignment, error) {
	return nil, nil
}
func (r *fakeRepo) UpdateAssignment(_ context.Context, asg Assignment, _ *null.Time) (Assignment, error) {
	return asg, nil
}
func (r *fakeRepo) DeleteAssignmentsByID(_ context.Context, _ ...string) error { return nil }
func (r *fakeRepo) CreateAttachment(_ context.Context, att Attachment) (Attachment, error) {
	return att, nil
}
func (r *fakeRepo) GetAttachmentByID(_ context.Context, _ string) (Attachment, error) {
	return Attachment{}, ErrAttachmentNotFound
}
func (r *fakeRepo) GetAttachmentsByAssignmentID(_ context.Context, _ string) ([]Attachment, error) {
	return nil, nil
}
func (r *fakeRepo) DeleteAttachmentsByID(_ context.Context, _ ...string) error { return nil }
func (r *fakeRepo) UpsertSubmission(_ context.Context, sub Submission) (Submission, error) {
	for id, existing := range r.submissions {
		if existing.AssignmentID == sub.AssignmentID && existing.StudentID == sub.StudentID {
			sub.ID = id
			break
		}
	}
	r.submissions[sub.ID] = sub
	return sub, nil
}
func (r *fakeRepo) GetSubmission(_ context.Context, assignmentID, studentID string) (Submission, error) {
	for _, sub := range r.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			return sub, nil
		}
	}
	return Submission{}, ErrSubmissionNotFound
}
func (r *fakeRepo) GetSubmissionByID(_ context.Context, id string) (Submission, error) {
	if sub, ok := r.submissions[id]; ok {
		return sub, nil
	}
	return Submission{}, ErrSubmissionNotFound
}
func (r *fakeRepo) GetSubmissionsByAssignmentID(_ context.Context, assignmentID string) ([]Submission, error) {
	var subs []Submission
	for _, sub := range r.submissions {
		if sub.AssignmentID == assignmentID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (r *fakeUserRepo) CheckUsernameUniqueness(_ context.Context, _, _ string, _ ...user.User) error {
	return nil
}
func (r *fakeUserRepo) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	return usr, nil
}
func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (user.User, error) {
	if usr, ok := r.users[id]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}
func (r *fakeUserRepo) GetUserByUsername(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (r *fakeUserRepo) GetUserByEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (r *fakeUserRepo) GetUserByUsernameOrEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (r *fakeUserRepo) FilterUsers(_ context.Context, _ user.QueryFilter, _ ...core.DBOrdering) ([]user.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) UpdateUser(_ context.Context, usr user.User, _ *bool) (user.User, error) {
	return usr, nil
}
func (r *fakeUserRepo) DeleteUsersByID(_ context.Context, _ ...string) error { return nil }

type fakeMailer struct {
	sent []*core.EmailMessage
}

func (m *fakeMailer) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func TestService_Submit_lateness(t *testing.T) {
	repo := newFakeRepo()
	usrRepo := &fakeUserRepo{users: make(map[string]user.User)}
	mailer := new(fakeMailer)
	svc := NewService(repo, usrRepo, mailer, core.Conf)
	ctx := context.Background()

	onTime, err := svc.Create(ctx, NewAssignment{
		CourseID: "3b4b7a86-21f5-4d7e-9cf5-18175c4a4a31",
		Title:    "Essay",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	pastDue := onTime
	pastDue.ID = "asg-late"
	pastDue.DueDate = null.TimeFrom(time.Now().UTC().Add(-time.Hour))
	repo.assignments[pastDue.ID] = pastDue

	tests := []struct {
		name         string
		assignmentID string
		wantLate     bool
	}{
		{name: "no due date is never late", assignmentID: onTime.ID},
		{name: "past due date is late", assignmentID: pastDue.ID, wantLate: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := svc.Submit(ctx, NewSubmission{AssignmentID: tt.assignmentID, Body: "done", StudentID: "stud1"})
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if sub.IsLate != tt.wantLate {
				t.Errorf("Submit().IsLate = %v, want %v", sub.IsLate, tt.wantLate)
			}
		})
	}
}

func TestService_Submit_replacesEarlier(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeUserRepo{}, new(fakeMailer), core.Conf)
	ctx := context.Background()

	asg, err := svc.Create(ctx, NewAssignment{CourseID: "3b4b7a86-21f5-4d7e-9cf5-18175c4a4a31", Title: "Quiz"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, _ := svc.Submit(ctx, NewSubmission{AssignmentID: asg.ID, Body: "draft", StudentID: "stud1"})
	second, err := svc.Submit(ctx, NewSubmission{AssignmentID: asg.ID, Body: "final", StudentID: "stud1"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("resubmission created a new submission: got ID %q, want %q", second.ID, first.ID)
	}
	if second.Body != "final" {
		t.Errorf("Body = %q, want %q", second.Body, "final")
	}
	if subs, _ := svc.ListSubmissions(ctx, asg.ID); len(subs) != 1 {
		t.Errorf("ListSubmissions() returned %d submissions, want 1", len(subs))
	}
}

func TestService_GiveFeedback(t *testing.T) {
	repo := newFakeRepo()
	usrRepo := &fakeUserRepo{users: map[string]user.User{
		"stud1": {ID: "stud1", Name: "Eva Mendes", Email: "eva@test.cd"},
	}}
	mailer := new(fakeMailer)
	svc := NewService(repo, usrRepo, mailer, core.Conf)
	ctx := context.Background()

	points := 20
	asg, err := svc.Create(ctx, NewAssignment{
		CourseID: "3b4b7a86-21f5-4d7e-9cf5-18175c4a4a31",
		Title:    "Lab Report",
		Points:   &points,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	sub, err := svc.Submit(ctx, NewSubmission{AssignmentID: asg.ID, Body: "report", StudentID: "stud1"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// grade above max points is rejected
	if _, err = svc.GiveFeedback(ctx, sub.ID, NewFeedback{Grade: 25, TeacherID: "t1"}); err == nil {
		t.Error("GiveFeedback() with grade > points: expected error, got nil")
	}

	graded, err := svc.GiveFeedback(ctx, sub.ID, NewFeedback{Grade: 17, Comment: "Well done", TeacherID: "t1"})
	if err != nil {
		t.Fatalf("GiveFeedback() error = %v", err)
	}
	if !graded.IsGraded() {
		t.Error("IsGraded() = false, want true")
	}
	if graded.Grade.Int != 17 {
		t.Errorf("Grade = %d, want 17", graded.Grade.Int)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailer.sent))
	}
	if got := mailer.sent[0].To[0].Address; got != "eva@test.cd" {
		t.Errorf("email To = %q, want %q", got, "eva@test.cd")
	}
	if mailer.sent[0].TemplateName != "feedback" {
		t.Errorf("TemplateName = %q, want %q", mailer.sent[0].TemplateName, "feedback")
	}
}
