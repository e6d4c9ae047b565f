package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

type SessionRequest struct {
	Role string `json:"role" validate:"notblank"`
}

func registerSessionAPI(g *echo.Group) {
	g.POST("/session", login)
}

// login resolves the demo identity of a role. Nothing is stored: clients send the role back in the X-Role header.
func login(ctx echo.Context) error {
	var data SessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SessionRequest")
	}
	if err := core.ValidateStruct(data); err != nil {
		return err
	}
	usr, err := user.ResolveString(data.Role)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}
