package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/core/user"
)

type classApi struct {
	*Deps
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := classApi{deps}

	classes := g.Group("/classes", jwt, roleMiddleware(user.RoleTeacher))
	classes.GET("", api.list)
	classes.GET("/:id", api.retrieve)
	classes.GET("/:id/attendance/:date", api.attendance)
	classes.PUT("/:id/attendance/:date", api.saveAttendance)
}

// ownClass loads the :id class of the current teacher.
func (api *classApi) ownClass(ctx echo.Context) (school.ClassSession, error) {
	usr, err := getContextUser(ctx, api.School)
	if err != nil {
		return school.ClassSession{}, err
	}
	class, err := api.School.ClassForTeacher(usr.ID, ctx.Param("id"))
	if err != nil {
		if err == school.ErrClassNotFound {
			return school.ClassSession{}, errClassNotFound
		}
		return school.ClassSession{}, err
	}
	return class, nil
}

func (api *classApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.School)
	if err != nil {
		return err
	}
	classes := api.School.GetClassesForTeacher(usr.ID)
	if classes == nil {
		classes = []school.ClassSession{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	class, err := api.ownClass(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, class)
}

func (api *classApi) attendance(ctx echo.Context) error {
	class, err := api.ownClass(ctx)
	if err != nil {
		return err
	}
	date := ctx.Param("date")
	records, ok := api.School.GetAttendance(class.ID, date)
	if !ok {
		return errNoAttendance
	}
	return ctx.JSON(http.StatusOK, school.AttendanceSheet{ClassID: class.ID, Date: date, Records: records})
}

func (api *classApi) saveAttendance(ctx echo.Context) error {
	class, err := api.ownClass(ctx)
	if err != nil {
		return err
	}

	var data attendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	sheet := school.AttendanceSheet{ClassID: class.ID, Date: ctx.Param("date"), Records: data.Records}
	if err := sheet.Validate(api.Validate); err != nil {
		return err
	}

	if err := api.School.SaveAttendance(ctx.Request().Context(), sheet.ClassID, sheet.Date, sheet.Records); err != nil {
		return errors.Wrap(err, "saving attendance")
	}
	return ctx.JSON(http.StatusOK, sheet)
}
