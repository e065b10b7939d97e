package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/user"
)

type userApi struct {
	*Deps
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := userApi{deps}

	g.POST("/auth/login", api.login)
	g.GET("/roles", api.roles)
	g.POST("/users", api.register)

	users := g.Group("/users", jwt)
	users.GET("/me", api.me)
	users.GET("/:id", api.retrieve)
}

func (api *userApi) respondWithToken(ctx echo.Context, code int, usr user.User) error {
	token, err := api.Auth.GenerateToken(api.Auth.UserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, LoginResponse{Token: token, User: usr})
}

func (api *userApi) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	data.ID = core.CleanString(data.ID)
	if err := api.Validate.Struct(data); err != nil {
		return err
	}

	usr, err := api.School.Login(ctx.Request().Context(), data.ID)
	if err != nil {
		if err == user.ErrNotFound {
			return errLoginFailed
		}
		return errors.Wrap(err, "logging in")
	}
	return api.respondWithToken(ctx, http.StatusOK, usr)
}

func (api *userApi) roles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	if err := data.Validate(api.Validate); err != nil {
		return err
	}
	if data.ID != "" {
		if _, taken := api.School.GetUserByID(data.ID); taken {
			return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "this id is already taken"})
		}
	}

	usr, err := api.School.RegisterUser(ctx.Request().Context(), data.User(api.School.GenerateID))
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return api.respondWithToken(ctx, http.StatusCreated, usr)
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.School)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	if _, err := getContextUser(ctx, api.School); err != nil {
		return err
	}
	usr, ok := api.School.GetUserByID(ctx.Param("id"))
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, usr)
}
