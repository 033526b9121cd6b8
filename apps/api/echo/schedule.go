package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/calendar"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/schedule"
	"github.com/trezcool/darasa/core/user"
)

type scheduleApi struct {
	svc    schedule.Service
	crsSvc course.Service
	usrSvc user.Service
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc schedule.Service, crsSvc course.Service, usrSvc user.Service) {
	api := scheduleApi{svc: svc, crsSvc: crsSvc, usrSvc: usrSvc}

	// the computed calendar grid
	sg := g.Group("/schedule", jwt)
	sg.GET("", api.grid)
	sg.GET("/ical", api.ical)

	// session management
	mg := g.Group("/sessions", jwt)
	mg.POST("", api.create, teacherMiddleware())
	mg.GET("", api.query)
	mg.GET("/:id", api.retrieve)
	mg.PUT("/:id", api.update, teacherMiddleware())
	mg.DELETE("/:id", api.destroy, teacherMiddleware())
}

type ScheduleResponse struct {
	Mode   calendar.ViewMode          `json:"mode"`
	Anchor string                     `json:"anchor"`
	calendar.Period
	Events []calendar.PositionedEvent `json:"events"`
}

// grid computes the positioned calendar for the requesting user.
//
// Query params:
//   - mode:   day | week | month | list (default week)
//   - anchor: local timestamp or date the view is centered on (default today)
//   - offset: signed number of steps to navigate from the anchor
func (api *scheduleApi) grid(ctx echo.Context) error {
	opts := calendarOptions()

	mode := calendar.ParseViewMode(ctx.QueryParam("mode"))

	anchor := calendar.NowFunc()
	if raw := ctx.QueryParam("anchor"); raw != "" {
		var err error
		if anchor, err = calendar.NormalizeLocal(raw); err != nil {
			return core.NewFieldError("anchor", err)
		}
	}

	var offset int
	if raw := ctx.QueryParam("offset"); raw != "" {
		var err error
		if offset, err = strconv.Atoi(raw); err != nil {
			return core.NewFieldError("offset", errors.New("must be an integer"))
		}
	}

	nav := calendar.NewNavigator(mode)
	nav.AnchorDate = calendar.DayFloor(anchor)
	step := 1
	if offset < 0 {
		step, offset = -1, -offset
	}
	for i := 0; i < offset; i++ {
		nav.Navigate(step)
	}
	period := nav.Period(opts)

	events, err := api.userEvents(ctx, period)
	if err != nil {
		return err
	}
	placed := calendar.PlaceEvents(events, period, opts)
	if placed == nil {
		placed = []calendar.PositionedEvent{}
	}

	return ctx.JSON(http.StatusOK, ScheduleResponse{
		Mode:   nav.Mode,
		Anchor: nav.AnchorDate.Format("2006-01-02"),
		Period: period,
		Events: placed,
	})
}

// ical serves the user's schedule as an iCalendar feed covering the
// current month view.
func (api *scheduleApi) ical(ctx echo.Context) error {
	opts := calendarOptions()
	period := calendar.ResolvePeriod(calendar.NowFunc(), calendar.ModeMonth, opts)

	events, err := api.userEvents(ctx, period)
	if err != nil {
		return err
	}

	feed := schedule.FeedICal(core.Conf.AppName, events)
	return ctx.Blob(http.StatusOK, "text/calendar", []byte(feed))
}

// userEvents expands the requesting user's course sessions within period.
func (api *scheduleApi) userEvents(ctx echo.Context, period calendar.Period) ([]calendar.Event, error) {
	courseIDs, err := api.userCourseIDs(ctx)
	if err != nil {
		return nil, err
	}
	events, err := api.svc.Agenda(ctx.Request().Context(), courseIDs, period)
	if err != nil {
		return nil, errors.Wrap(err, "expanding agenda")
	}
	return events, nil
}

// userCourseIDs resolves which courses make up the user's calendar:
// teachers see what they teach, students what they are enrolled in,
// admins everything.
func (api *scheduleApi) userCourseIDs(ctx echo.Context) ([]string, error) {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return nil, errors.Wrap(err, "getting context user")
	}

	filter := new(course.QueryFilter)
	switch {
	case ctxUsr.IsAdmin():
	case ctxUsr.IsTeacher():
		filter.TeacherID = ctxUsr.ID
	default:
		filter.StudentID = ctxUsr.ID
	}

	courses, err := api.crsSvc.Query(ctx.Request().Context(), filter, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	ids := make([]string, 0, len(courses))
	for _, crs := range courses {
		ids = append(ids, crs.ID)
	}
	return ids, nil
}

func (api *scheduleApi) create(ctx echo.Context) error {
	var data schedule.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.checkSessionCourse(ctx, data.CourseID); err != nil {
		return err
	}

	sess, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	filter := new(schedule.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.Session{})
	}
	if filter.CourseID == "" {
		// scope to the user's own courses
		courseIDs, err := api.userCourseIDs(ctx)
		if err != nil {
			return err
		}
		if len(courseIDs) == 0 {
			return ctx.JSON(http.StatusOK, []schedule.Session{})
		}
		filter.CourseIDs = courseIDs
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	sessions, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []schedule.Session{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *scheduleApi) retrieve(ctx echo.Context) error {
	sess, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding session by ID")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *scheduleApi) update(ctx echo.Context) error {
	sess, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding session by ID")
	}
	if err = api.checkSessionCourse(ctx, sess.CourseID); err != nil {
		return err
	}

	var data schedule.UpdateSession
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSession")
	}
	if err = data.Validate(sess); err != nil {
		return err
	}

	sess, err = api.svc.Update(ctx.Request().Context(), sess.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	sess, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding session by ID")
	}
	if err = api.checkSessionCourse(ctx, sess.CourseID); err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), sess.ID); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// checkSessionCourse rejects teachers scheduling on courses they do not teach.
func (api *scheduleApi) checkSessionCourse(ctx echo.Context, courseID string) error {
	crs, err := api.crsSvc.GetByID(ctx.Request().Context(), courseID)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return core.NewFieldError("course_id", course.ErrNotFound)
		}
		return errors.Wrap(err, "finding course by ID")
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsAdmin() && crs.TeacherID != ctxUsr.ID {
		return errHttpForbidden
	}
	return nil
}

// calendarOptions maps the app configuration onto the calendar engine.
func calendarOptions() calendar.Options {
	return calendar.Options{
		GridFirstHour:     core.Conf.Calendar.GridFirstHour,
		GridLastHour:      core.Conf.Calendar.GridLastHour,
		WeekStartsOn:      core.Conf.Calendar.WeekStartsOn,
		BusinessDaysOnly:  core.Conf.Calendar.BusinessDaysOnly,
		PaletteSize:       core.Conf.Calendar.PaletteSize,
		MinVisibleMinutes: core.Conf.Calendar.MinVisibleMinutes,
	}
}
