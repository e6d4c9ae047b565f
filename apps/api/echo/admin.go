package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type ResetResponse struct {
	Students      int `json:"students"`
	Results       int `json:"results"`
	Fees          int `json:"fees"`
	Notifications int `json:"notifications"`
}

func registerAdminAPI(g *echo.Group, store Resetter, logger core.Logger) {
	ag := g.Group("/admin", adminMiddleware())
	ag.POST("/reset", func(ctx echo.Context) error {
		ds, err := store.Reset(ctx.Request().Context())
		if err != nil {
			return errors.Wrap(err, "resetting store")
		}
		usr, _ := contextUser(ctx)
		logger.Warn("dataset reset from the API", usr)
		return ctx.JSON(http.StatusOK, ResetResponse{
			Students:      len(ds.Students),
			Results:       len(ds.Results),
			Fees:          len(ds.Fees),
			Notifications: len(ds.Notifications),
		})
	})
}
