package routing

import (
	"net/http"

	"github.com/labstack/echo/v4"

	sessiondomain "pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/shared/auth"
)

// Page is the payload a navigation answers with once the guard lets it
// through: which view to render and the session the view renders for.
type Page struct {
	View    string                 `json:"view"`
	Path    string                 `json:"path"`
	Session sessiondomain.Snapshot `json:"session"`
}

// PageHandler serves the page routes behind the guard.
type PageHandler struct {
	sessions SessionChecker
	codec    *auth.CookieCodec
	table    *Table
}

func NewPageHandler(sessions SessionChecker, codec *auth.CookieCodec, table *Table) *PageHandler {
	return &PageHandler{sessions: sessions, codec: codec, table: table}
}

// Register mounts every table route behind the guard plus the catch-all.
func (h *PageHandler) Register(e *echo.Echo) {
	guard := Guard(h.sessions, h.codec, h.table)
	for _, route := range h.table.Routes() {
		e.GET(route.Path, h.page(route), guard)
	}
	e.GET("/*", h.notFound)
}

func (h *PageHandler) page(route Route) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, Page{
			View:    route.Name,
			Path:    route.Path,
			Session: h.snapshot(c),
		})
	}
}

func (h *PageHandler) notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, Page{
		View:    NotFound.Name,
		Path:    c.Request().URL.Path,
		Session: h.snapshot(c),
	})
}

func (h *PageHandler) snapshot(c echo.Context) sessiondomain.Snapshot {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if sess == nil {
		return sessiondomain.Snapshot{}
	}
	return sess.Snapshot()
}
