package assignment

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		FilterAssignments(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment, dueDate *null.Time) (Assignment, error)
		DeleteAssignmentsByID(ctx context.Context, ids ...string) error

		CreateAttachment(ctx context.Context, att Attachment) (Attachment, error)
		GetAttachmentByID(ctx context.Context, id string) (Attachment, error)
		GetAttachmentsByAssignmentID(ctx context.Context, assignmentID string) ([]Attachment, error)
		DeleteAttachmentsByID(ctx context.Context, ids ...string) error

		UpsertSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmission(ctx context.Context, assignmentID, studentID string) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		GetSubmissionsByAssignmentID(ctx context.Context, assignmentID string) ([]Submission, error)
	}

	Service interface {
		Create(ctx context.Context, na NewAssignment) (Assignment, error)
		GetByID(ctx context.Context, id string) (Assignment, error)
		Query(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]Assignment, error)
		Update(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error)
		Delete(ctx context.Context, ids ...string) error

		AddAttachment(ctx context.Context, assignmentID, fileName string, data []byte) (Attachment, error)
		GetAttachment(ctx context.Context, id string) (Attachment, error)
		ListAttachments(ctx context.Context, assignmentID string) ([]Attachment, error)
		RemoveAttachment(ctx context.Context, id string) error

		Submit(ctx context.Context, ns NewSubmission) (Submission, error)
		GetStudentSubmission(ctx context.Context, assignmentID, studentID string) (Submission, error)
		ListSubmissions(ctx context.Context, assignmentID string) ([]Submission, error)
		GiveFeedback(ctx context.Context, submissionID string, nf NewFeedback) (Submission, error)
	}

	service struct {
		repo    Repository
		usrRepo user.Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrRepo user.Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		usrRepo: usrRepo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	asg := Assignment{
		ID:          uuid.New().String(),
		CourseID:    na.CourseID,
		Title:       na.Title,
		Description: null.NewString(na.Description, na.Description != ""),
		DueDate:     na.dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if na.Points != nil {
		asg.Points = null.IntFromPtr(na.Points)
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]Assignment, error) {
	if filter == nil {
		filter = new(QueryFilter)
	}
	return svc.repo.FilterAssignments(ctx, *filter, orderings...)
}

func (svc *service) Update(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error) {
	asg := Assignment{
		ID:        id,
		Title:     ua.Title,
		UpdatedAt: time.Now().UTC(),
	}
	if ua.Description != nil {
		asg.Description = null.StringFromPtr(ua.Description)
	}
	if ua.Points != nil {
		asg.Points = null.IntFromPtr(ua.Points)
	}
	var due *null.Time
	if ua.dueSet {
		due = &ua.dueDate
	}
	return svc.repo.UpdateAssignment(ctx, asg, due)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAssignmentsByID(ctx, ids...)
}

func (svc *service) AddAttachment(ctx context.Context, assignmentID, fileName string, data []byte) (Attachment, error) {
	if _, err := svc.repo.GetAssignmentByID(ctx, assignmentID); err != nil {
		return Attachment{}, err
	}
	att := Attachment{
		ID:           uuid.New().String(),
		AssignmentID: assignmentID,
		FileName:     fileName,
		ContentType:  http.DetectContentType(data),
		Size:         int64(len(data)),
		Data:         data,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateAttachment(ctx, att)
}

func (svc *service) GetAttachment(ctx context.Context, id string) (Attachment, error) {
	return svc.repo.GetAttachmentByID(ctx, id)
}

func (svc *service) ListAttachments(ctx context.Context, assignmentID string) ([]Attachment, error) {
	return svc.repo.GetAttachmentsByAssignmentID(ctx, assignmentID)
}

func (svc *service) RemoveAttachment(ctx context.Context, id string) error {
	return svc.repo.DeleteAttachmentsByID(ctx, id)
}

// Submit records a student's answer, replacing any earlier one. Lateness
// is stamped at submission time against the assignment's due date.
func (svc *service) Submit(ctx context.Context, ns NewSubmission) (Submission, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, ns.AssignmentID)
	if err != nil {
		return Submission{}, err
	}

	now := time.Now().UTC()
	sub := Submission{
		ID:           uuid.New().String(),
		AssignmentID: asg.ID,
		StudentID:    ns.StudentID,
		Body:         ns.Body,
		IsLate:       asg.DueDate.Valid && now.After(asg.DueDate.Time.UTC()),
		SubmittedAt:  now,
	}
	return svc.repo.UpsertSubmission(ctx, sub)
}

func (svc *service) GetStudentSubmission(ctx context.Context, assignmentID, studentID string) (Submission, error) {
	return svc.repo.GetSubmission(ctx, assignmentID, studentID)
}

func (svc *service) ListSubmissions(ctx context.Context, assignmentID string) ([]Submission, error) {
	if _, err := svc.repo.GetAssignmentByID(ctx, assignmentID); err != nil {
		return nil, err
	}
	return svc.repo.GetSubmissionsByAssignmentID(ctx, assignmentID)
}

// GiveFeedback grades a submission and notifies the student by email.
func (svc *service) GiveFeedback(ctx context.Context, submissionID string, nf NewFeedback) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	asg, err := svc.repo.GetAssignmentByID(ctx, sub.AssignmentID)
	if err != nil {
		return Submission{}, err
	}
	if err = nf.Validate(asg); err != nil {
		return Submission{}, err
	}

	sub.Grade = null.IntFrom(nf.Grade)
	sub.Comment = null.NewString(nf.Comment, nf.Comment != "")
	sub.GradedAt = null.TimeFrom(time.Now().UTC())
	sub, err = svc.repo.UpsertSubmission(ctx, sub)
	if err != nil {
		return Submission{}, err
	}

	svc.sendFeedbackEmail(sub, asg)
	return sub, nil
}

func (svc *service) sendFeedbackEmail(sub Submission, asg Assignment) {
	student, err := svc.usrRepo.GetUserByID(context.Background(), sub.StudentID)
	if err != nil || student.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:      "Your work on \"" + asg.Title + "\" has been graded",
		TemplateName: "feedback",
		TemplateData: struct {
			Name            string
			AssignmentTitle string
			Grade           int
			Points          null.Int
			Comment         string
		}{student.Name, asg.Title, sub.Grade.Int, asg.Points, sub.Comment.String},
	})
}
