package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/schedule"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	remindersvc "github.com/trezcool/darasa/services/reminder"
	"github.com/trezcool/darasa/storage/database"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, core.Conf.AppName+" ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug {
		logger = core.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	if err := run(logger); err != nil {
		logger.Fatal("api startup", err)
	}
}

func run(logger core.Logger) error {
	// set up DB
	sqlDB, err := database.Open(core.Conf)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err = database.Migrate(sqlDB); err != nil {
		return err
	}
	db := sqlx.NewDb(sqlDB, core.Conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, mailSvc, core.Conf)
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(db), usrRepo)
	schedSvc := schedule.NewService(sqlxrepos.NewScheduleRepository(db))
	asgSvc := assignment.NewService(sqlxrepos.NewAssignmentRepository(db), usrRepo, mailSvc, core.Conf)

	reminder := remindersvc.NewService(asgSvc, crsSvc, mailSvc, logger)
	if err = reminder.Start(); err != nil {
		return err
	}
	defer reminder.Stop()

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Address:       core.Conf.Server.Address(),
		Logger:        logger,
		UserSvc:       usrSvc,
		CourseSvc:     crsSvc,
		ScheduleSvc:   schedSvc,
		AssignmentSvc: asgSvc,
		SignalShutdown: func() {
			shutdown <- syscall.SIGTERM
		},
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("api listening on " + core.Conf.Server.Address())
		serverErrors <- app.Start()
	}()

	select {
	case err = <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("shutdown started", sig)
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()
		if err = app.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
