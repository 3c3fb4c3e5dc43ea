package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type response struct {
	Detail string `json:"detail"`
}

// HTTPErrorHandler converts typed domain failures into JSON responses.
// Internal failures (and anything untyped) are logged with their cause and
// returned as an opaque 500 so store errors never leak to clients.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		detail := "Internal server error"

		if e, ok := As(err); ok {
			status = e.HTTPStatus()
			if e.Kind != KindInternal {
				detail = e.Message
			}
		} else if he, ok := err.(*echo.HTTPError); ok {
			// Routing-level errors (404 no route, 405) and middleware errors.
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				detail = msg
			} else {
				detail = http.StatusText(he.Code)
			}
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().
				Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("internal error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, response{Detail: detail})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
