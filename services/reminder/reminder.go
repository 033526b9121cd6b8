// Package remindersvc sends students a daily email about assignments
// falling due within the next day.
package remindersvc

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
)

// run every day at 07:00 server time
const cronSpec = "0 7 * * *"

type Service struct {
	cron    *cron.Cron
	asgSvc  assignment.Service
	crsSvc  course.Service
	mailSvc core.EmailService
	logger  core.Logger
}

func NewService(asgSvc assignment.Service, crsSvc course.Service, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		cron:    cron.New(),
		asgSvc:  asgSvc,
		crsSvc:  crsSvc,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *Service) Start() error {
	if _, err := svc.cron.AddFunc(cronSpec, svc.RemindDueAssignments); err != nil {
		return err
	}
	svc.cron.Start()
	return nil
}

func (svc *Service) Stop() {
	ctx := svc.cron.Stop()
	<-ctx.Done()
}

// RemindDueAssignments emails every enrolled student about assignments due
// within the next 24 hours.
func (svc *Service) RemindDueAssignments() {
	ctx := context.Background()
	now := time.Now()

	assignments, err := svc.asgSvc.Query(ctx, &assignment.QueryFilter{
		DueAfter:  now,
		DueBefore: now.Add(24 * time.Hour),
	}, nil)
	if err != nil {
		svc.logger.Error("querying due assignments", err)
		return
	}

	for _, asg := range assignments {
		students, err := svc.crsSvc.Roster(ctx, asg.CourseID)
		if err != nil {
			svc.logger.Error(fmt.Sprintf("querying roster for course %s", asg.CourseID), err)
			continue
		}

		messages := make([]*core.EmailMessage, 0, len(students))
		for _, student := range students {
			if student.Email == "" {
				continue
			}
			messages = append(messages, &core.EmailMessage{
				To:           []mail.Address{{Name: student.Name, Address: student.Email}},
				Subject:      "Reminder: \"" + asg.Title + "\" is due soon",
				TemplateName: "assignment-reminder",
				TemplateData: struct {
					Name            string
					AssignmentTitle string
					DueDate         string
				}{student.Name, asg.Title, asg.DueDate.Time.Format("Mon, 02 Jan 2006 15:04")},
			})
		}
		svc.mailSvc.SendMessages(messages...)
	}
}
