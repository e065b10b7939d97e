package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type teacherApi struct {
	*Deps
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := teacherApi{deps}

	teachers := g.Group("/teachers", jwt)
	teachers.GET("", api.list)
	teachers.GET("/:id", api.retrieve)
}

// list returns the staff directory. Everyone signed in may read it.
func (api *teacherApi) list(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.School.GetTeachers())
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	t, ok := api.School.GetTeacherByID(ctx.Param("id"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, t)
}
