package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

// uploads are capped to keep attachment rows reasonable
const maxAttachmentSize = 10 << 20 // 10 MiB

type assignmentApi struct {
	svc    assignment.Service
	crsSvc course.Service
	usrSvc user.Service
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc assignment.Service, crsSvc course.Service, usrSvc user.Service) {
	api := assignmentApi{svc: svc, crsSvc: crsSvc, usrSvc: usrSvc}

	ag := g.Group("/assignments", jwt)
	ag.POST("", api.create, teacherMiddleware())
	ag.GET("", api.query)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, teacherMiddleware())
	dg.DELETE("", api.destroy, teacherMiddleware())

	// attachments
	dg.POST("/attachments", api.addAttachment, teacherMiddleware())
	dg.GET("/attachments", api.listAttachments)
	ag.GET("/attachments/:attID", api.downloadAttachment)
	ag.DELETE("/attachments/:attID", api.removeAttachment, teacherMiddleware())

	// submissions
	dg.POST("/submissions", api.submit)
	dg.GET("/submissions", api.listSubmissions, teacherMiddleware())
	dg.GET("/submissions/mine", api.mySubmission)
	ag.POST("/submissions/:subID/feedback", api.giveFeedback, teacherMiddleware())
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.checkCourseTeacher(ctx, data.CourseID); err != nil {
		return err
	}

	asg, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	filter := new(assignment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []assignment.Assignment{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	if filter.CourseID == "" {
		// scope to the user's own courses
		courseIDs, err := api.userCourseIDs(ctx)
		if err != nil {
			return err
		}
		if len(courseIDs) == 0 {
			return ctx.JSON(http.StatusOK, []assignment.Assignment{})
		}
		filter.CourseIDs = courseIDs
	}

	assignments, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	asg, err := api.getAssignment(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	asg, err := api.getAssignment(ctx)
	if err != nil {
		return err
	}
	if err = api.checkCourseTeacher(ctx, asg.CourseID); err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err = data.Validate(asg); err != nil {
		return err
	}

	asg, err = api.svc.Update(ctx.Request().Context(), asg.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	asg, err := api.getAssignment(ctx)
	if err != nil {
		return err
	}
	if err = api.checkCourseTeacher(ctx, asg.CourseID); err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), asg.ID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) addAttachment(ctx echo.Context) error {
	asg, err := api.getAssignment(ctx)
	if err != nil {
		return err
	}
	if err = api.checkCourseTeacher(ctx, asg.CourseID); err != nil {
		return err
	}

	fileHdr, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing `file` upload")
	}
	if fileHdr.Size > maxAttachmentSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}
	file, err := fileHdr.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return errors.Wrap(err, "reading upload")
	}

	att, err := api.svc.AddAttachment(ctx.Request().Context(), asg.ID, fileHdr.Filename, data)
	if err != nil {
		return errors.Wrap(err, "adding attachment")
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *assignmentApi) listAttachments(ctx echo.Context) error {
	asg, err := api.getAssignment(ctx)
	if err != nil {
		return err
	}
	atts, err := api.svc.ListAttachments(ctx.Request().Context(), asg.ID)
	if err != nil {
		return errors.Wrap(err, "listing attachments")
	}
	if atts == nil {
		atts = []assignment.Attachment{}
	}
	return ctx.JSON(http.StatusOK, atts)
}

func (api *assignmentApi) downloadAttachment(ctx echo.Context) error {
	att, err := api.svc.GetAttachment(ctx.Request().Context(), ctx.Param("attID"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrAttachmentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding attachment by ID")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+att.FileName+`"`)
	return ctx.Blob(http.StatusOK, att.ContentType, att.Data)
}

func (api *assignmentApi) removeAttachment(ctx echo.Context) error {
	att, err := api.svc.GetAttachment(ctx.Request().Context(), ctx.Param("attID"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrAttachmentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding attachment by ID")
	}
	if err = api.svc.RemoveAttachment(ctx.Request().Context(), att.ID); err != nil {
		return errors.Wrap(err, "removing attachment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) submit(ctx echo.Context) error {
	asg, err := api.getAssignment(ctx)
	if err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsStudent() {
		return errHttpForbidden
	}

	var data assignment.NewSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	data.AssignmentID = asg.ID
	data.StudentID = ctxUsr.ID
	if err = data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.Submit(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "submitting")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *assignmentApi) listSubmissions(ctx echo.Context) error {
	asg, err := api.getAssignment(ctx)
	if err != nil {
		return err
	}
	if err = api.checkCourseTeacher(ctx, asg.CourseID); err != nil {
		return err
	}

	subs, err := api.svc.ListSubmissions(ctx.Request().Context(), asg.ID)
	if err != nil {
		return errors.Wrap(err, "listing submissions")
	}
	if subs == nil {
		subs = []assignment.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *assignmentApi) mySubmission(ctx echo.Context) error {
	asg, err := api.getAssignment(ctx)
	if err != nil {
		return err
	}
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sub, err := api.svc.GetStudentSubmission(ctx.Request().Context(), asg.ID, ctxUsr.ID)
	if err != nil {
		if errors.Cause(err) == assignment.ErrSubmissionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding submission")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *assignmentApi) giveFeedback(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data assignment.NewFeedback
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	data.TeacherID = ctxUsr.ID

	sub, err := api.svc.GiveFeedback(ctx.Request().Context(), ctx.Param("subID"), data)
	if err != nil {
		if errors.Cause(err) == assignment.ErrSubmissionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "giving feedback")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *assignmentApi) getAssignment(ctx echo.Context) (assignment.Assignment, error) {
	asg, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return assignment.Assignment{}, errHttpNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "finding assignment by ID")
	}
	return asg, nil
}

// checkCourseTeacher rejects teachers acting on assignments of courses they
// do not teach.
func (api *assignmentApi) checkCourseTeacher(ctx echo.Context, courseID string) error {
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

// userCourseIDs mirrors the schedule API scoping: teachers their courses,
// students their enrollments, admins everything.
func (api *assignmentApi) userCourseIDs(ctx echo.Context) ([]string, error) {
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
