package helpers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/requests"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
	"github.com/rssbrudrapur/sewabase/core/user"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	ErrHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")

	errTokenSigningFailed = errors.New("failed to sign token")
)

// AppHTTPErrorHandler maps domain errors onto the API's envelope:
// {"success": false, "message": ...} with an optional field error map.
func AppHTTPErrorHandler(err error, c echo.Context) {
	var code int
	var message interface{}
	var fields map[string]string

	switch typed := err.(type) {
	case *echo.HTTPError:
		if typed == middleware.ErrJWTMissing {
			code = http.StatusUnauthorized
			message = typed.Message
			break
		}
		if typed.Internal != nil {
			if herr, ok := typed.Internal.(*echo.HTTPError); ok {
				typed = herr
			}
		}
		code = typed.Code
		message = typed.Message
	case validator.ValidationErrors:
		fields = make(map[string]string)
		for _, vErr := range typed {
			fields[vErr.Field()] = vErr.Translate(core.Translator)
		}
		code = http.StatusBadRequest
		message = "Validation failed"
	case *core.ValidationError:
		if typed.Fields != nil {
			fields = make(map[string]string)
			for _, fErr := range typed.Fields {
				fields[fErr.Field] = fErr.Error
			}
		}
		code = http.StatusBadRequest
		message = typed.Error()
		if message == "" {
			message = "Validation failed"
		}
	default:
		switch {
		case errors.Is(err, sewadar.ErrNotFound), errors.Is(err, user.ErrNotFound),
			errors.Is(err, requests.ErrNotFound):
			code = http.StatusNotFound
			message = err.Error()
		case errors.Is(err, sewadar.ErrBadgeExists), errors.Is(err, requests.ErrTrackingExists):
			code = http.StatusConflict
			message = err.Error()
		case errors.Is(err, user.ErrInvalidLogin):
			code = http.StatusUnauthorized
			message = err.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			if c.Echo().Debug {
				message = err.Error()
			}
		}
	}

	body := echo.Map{"success": false, "message": message}
	if fields != nil {
		body["errors"] = fields
	}

	// Send response
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead { // Issue #608
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}
