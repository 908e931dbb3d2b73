package routing

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"pratoJaEdge/internal/shared/httputil"
)

// ErrorRedirector wraps echo's error handler so an uncaught failure during a
// page navigation lands on the server-error view instead of a bare error
// payload. API and websocket requests keep the default behaviour.
func ErrorRedirector(table *Table, fallback echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		route, known := table.Match(c.Request().URL.Path)
		if !known || c.Response().Committed {
			fallback(err, c)
			return
		}

		status := http.StatusInternalServerError
		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
		}
		if status < http.StatusInternalServerError || route.Path == httputil.ServerErrorPath {
			fallback(err, c)
			return
		}

		slog.Error("navigation failed", slog.String("path", route.Path), slog.Any("error", err))
		if err := c.Redirect(http.StatusFound, httputil.ServerErrorPath); err != nil {
			fallback(err, c)
		}
	}
}
