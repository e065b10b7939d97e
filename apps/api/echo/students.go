package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/core/user"
)

type studentApi struct {
	*Deps
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := studentApi{deps}

	students := g.Group("/students", jwt)
	students.GET("", api.list)
	students.GET("/:id", api.retrieve)
	students.GET("/:id/grades", api.grades)
	students.GET("/:id/reports", api.reports)
	students.GET("/:id/invoices", api.invoices, roleMiddleware(user.RoleParent, user.RoleTeacher))

	g.GET("/parents/:id/students", api.children, jwt, roleMiddleware(user.RoleParent, user.RoleTeacher))
}

// canView reports whether usr may see the student's records.
func canView(usr user.User, st school.Student) bool {
	switch usr.Role {
	case user.RoleTeacher:
		return true
	case user.RoleParent:
		return st.ParentID == usr.ID || usr.IsLinkedTo(st.ID)
	case user.RoleStudent:
		return st.ID == usr.ID
	}
	return false
}

func (api *studentApi) list(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.School)
	if err != nil {
		return err
	}

	var students []school.Student
	switch usr.Role {
	case user.RoleTeacher:
		students = api.School.GetAllStudents()
	case user.RoleParent:
		students = api.School.GetStudentsForParent(usr.ID)
	case user.RoleStudent:
		if st, ok := api.School.GetStudentByID(usr.ID); ok {
			students = append(students, st)
		}
	}
	if students == nil {
		students = []school.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// children lists a parent's students. Parents may only list their own.
func (api *studentApi) children(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.School)
	if err != nil {
		return err
	}
	parentID := ctx.Param("id")
	if usr.IsParent() && usr.ID != parentID {
		return errHttpForbidden
	}
	students := api.School.GetStudentsForParent(parentID)
	if students == nil {
		students = []school.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// visibleStudent loads the :id student, hiding it from users who may not see it.
func (api *studentApi) visibleStudent(ctx echo.Context) (school.Student, error) {
	usr, err := getContextUser(ctx, api.School)
	if err != nil {
		return school.Student{}, err
	}
	st, ok := api.School.GetStudentByID(ctx.Param("id"))
	if !ok || !canView(usr, st) {
		return school.Student{}, errHttpNotFound
	}
	return st, nil
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.visibleStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) grades(ctx echo.Context) error {
	st, err := api.visibleStudent(ctx)
	if err != nil {
		return err
	}
	grades := api.School.GetGradesForStudent(st.ID)
	if grades == nil {
		grades = []school.GradeItem{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *studentApi) invoices(ctx echo.Context) error {
	st, err := api.visibleStudent(ctx)
	if err != nil {
		return err
	}
	invoices := api.School.GetInvoicesForStudent(st.ID)
	if invoices == nil {
		invoices = []school.Invoice{}
	}
	return ctx.JSON(http.StatusOK, invoices)
}

func (api *studentApi) reports(ctx echo.Context) error {
	st, err := api.visibleStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.School.GetReportsForStudent(st.ID))
}
