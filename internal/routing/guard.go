package routing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	sessiondomain "pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/shared/auth"
	"pratoJaEdge/internal/shared/httputil"
)

// SessionChecker is the slice of the session store the guard consumes: map a
// request to its session and revalidate it against the upstream.
type SessionChecker interface {
	Resolve(r *http.Request, codec *auth.CookieCodec) *sessiondomain.Session
	CheckTokenValidity(ctx context.Context, sess *sessiondomain.Session) (bool, error)
}

// Guard blocks page navigation until the session's server round trip
// resolves. No protected page is served on an optimistic guess; an invalid
// session is sent to login with the attempted path preserved, a role mismatch
// to the not-authorized page, and a failed validity check to the error page
// matching the failure.
func Guard(sessions SessionChecker, codec *auth.CookieCodec, table *Table) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			route, known := table.Match(path)
			if !known {
				return next(c)
			}

			sess := sessions.Resolve(c.Request(), codec)

			if route.Path == httputil.LoginPath {
				valid, err := sessions.CheckTokenValidity(c.Request().Context(), sess)
				if err == nil && valid {
					// Already signed in; login is not for this session.
					return c.Redirect(http.StatusFound, sess.Role().HomePath())
				}
				return next(c)
			}

			if !route.RequiresAuth {
				return next(c)
			}

			valid, err := sessions.CheckTokenValidity(c.Request().Context(), sess)
			if err != nil {
				target, ok := httputil.RedirectTarget(err, path)
				if !ok {
					target = httputil.ServerErrorPath
				}
				slog.Warn("guard validity check failed",
					slog.String("path", path), slog.String("target", target), slog.Any("error", err))
				return c.Redirect(http.StatusFound, target)
			}
			if !valid {
				return c.Redirect(http.StatusFound, httputil.LoginRedirect(path))
			}
			if held := sess.Role(); route.Profile != sessiondomain.RoleUnknown && held != route.Profile {
				slog.Info("guard role mismatch",
					slog.String("path", path), slog.String("required", string(route.Profile)), slog.String("held", string(held)))
				return c.Redirect(http.StatusFound, httputil.NotAuthorizedPath)
			}
			return next(c)
		}
	}
}
