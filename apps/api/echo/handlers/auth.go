package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rssbrudrapur/sewabase/apps/api/echo/helpers"
	"github.com/rssbrudrapur/sewabase/core/user"
)

type authApi struct {
	service *user.Service
}

func RegisterAuthAPI(g *echo.Group, svc *user.Service) {
	api := authApi{service: svc}
	g.POST("/login", api.login)
}

func (api *authApi) login(ctx echo.Context) error {
	data := new(user.LoginCredentials)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.service.Authenticate(data.Username, data.Password)
	if err != nil {
		return err
	}

	token, err := helpers.GenerateToken(helpers.GetUserClaims(usr))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"role":    usr.Role,
		"token":   token,
	})
}
