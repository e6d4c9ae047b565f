package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/user"
)

const (
	// roleHeader carries the role picked at login. It is trusted as is: there is no authentication.
	roleHeader     = "X-Role"
	contextUserKey = "user"
)

// roleMiddleware resolves the demo identity from the role header and lets it through if allowed(identity).
func roleMiddleware(allowed func(user.User) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			role := ctx.Request().Header.Get(roleHeader)
			if role == "" {
				return errMissingRole
			}
			usr, err := user.ResolveString(role)
			if err != nil {
				return err
			}
			if !allowed(usr) {
				return errHttpForbidden
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

func staffMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(user.User.CanEnterMarks)
}

func adminMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(user.User.IsAdmin)
}

func contextUser(ctx echo.Context) (user.User, bool) {
	usr, ok := ctx.Get(contextUserKey).(user.User)
	return usr, ok
}
