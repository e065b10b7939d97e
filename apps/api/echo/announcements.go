package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rafidain/schoollink/core/school"
)

type announcementApi struct {
	*Deps
}

func registerAnnouncementAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := announcementApi{deps}
	g.GET("/announcements", api.list, jwt)
}

// list returns the announcements addressed to everyone or to the user's role, newest first.
func (api *announcementApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.School)
	if err != nil {
		return err
	}
	items := api.School.GetAnnouncements(usr.Role)
	if items == nil {
		items = []school.Announcement{}
	}
	return ctx.JSON(http.StatusOK, items)
}
