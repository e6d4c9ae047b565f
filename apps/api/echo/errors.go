package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
)

var (
	errMissingRole   = echo.NewHTTPError(http.StatusUnauthorized, "missing "+roleHeader+" header")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")

	corruptStateHint = "stored data is corrupt; reset it with POST /v1/admin/reset"
)

// statusOf maps an error to its response status code.
func statusOf(err error) int {
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &herr):
		return herr.Code
	case core.IsValidationError(err), errors.Is(err, user.ErrInvalidRole):
		return http.StatusBadRequest
	case isValidatorError(err):
		return http.StatusBadRequest
	case errors.Is(err, school.ErrStudentNotFound), errors.Is(err, school.ErrSubjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, school.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isValidatorError(err error) bool {
	_, ok := errors.Cause(err).(validator.ValidationErrors)
	return ok
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := statusOf(err)
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
		default:
			switch code {
			case http.StatusBadRequest, http.StatusNotFound:
				message = errors.Cause(err).Error()
			case http.StatusServiceUnavailable:
				message = school.ErrStorageUnavailable.Error()
				logger.Error(school.ErrStorageUnavailable.Error(), err, requestFields(ctx))
			default: // any other error is a server error
				message = http.StatusText(http.StatusInternalServerError)
				if errors.Is(err, school.ErrCorruptState) {
					message = corruptStateHint
				}
				logger.Error(http.StatusText(code), errors.Wrap(err, ctx.Path()), requestFields(ctx))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func requestFields(ctx echo.Context) map[string]interface{} {
	fields := map[string]interface{}{
		"method": ctx.Request().Method,
		"path":   ctx.Request().URL.Path,
	}
	if role := ctx.Request().Header.Get(roleHeader); role != "" {
		fields["role"] = role
	}
	return fields
}
