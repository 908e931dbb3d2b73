package transport

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"pratoJaEdge/internal/modules/notifications/application/usecase"
	"pratoJaEdge/internal/modules/notifications/infrastructure"
	sessionusecase "pratoJaEdge/internal/modules/session/application/usecase"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationHandler serves the per-session notification slot over REST and
// pushes updates through the websocket hub.
type NotificationHandler struct {
	sessions *sessionusecase.Store
	codec    *auth.CookieCodec
	channel  *usecase.Channel
	hub      *infrastructure.Hub
}

func NewNotificationHandler(sessions *sessionusecase.Store, codec *auth.CookieCodec, channel *usecase.Channel, hub *infrastructure.Hub) *NotificationHandler {
	return &NotificationHandler{sessions: sessions, codec: codec, channel: channel, hub: hub}
}

func (h *NotificationHandler) Register(api *echo.Group, ws *echo.Group) {
	api.GET("/notifications", h.Current)
	api.DELETE("/notifications", h.Dismiss)
	ws.GET("/notifications", h.Stream)
}

// Current returns the live notification, or an empty body when the slot is
// clear or already expired.
func (h *NotificationHandler) Current(c echo.Context) error {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, apiresult.Result{
			Success: false, Message: "Sessão não encontrada.", Status: http.StatusUnauthorized,
		})
	}
	note, ok := h.channel.Current(sess.ID)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, note)
}

func (h *NotificationHandler) Dismiss(c echo.Context) error {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if sess != nil {
		h.channel.Dismiss(sess.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stream upgrades the connection and attaches it to the session's fan-out.
// The current notification, when still live, is replayed so a reconnecting
// tab does not miss it.
func (h *NotificationHandler) Stream(c echo.Context) error {
	sess := h.sessions.Resolve(c.Request(), h.codec)
	if sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("ws upgrade failed", slog.String("sessionId", sess.ID), slog.Any("error", err))
		return err
	}

	client := infrastructure.NewClient(h.hub, conn, sess.ID, 8)
	h.hub.Attach(client)
	go client.WritePump()
	go client.ReadPump()

	if note, ok := h.channel.Current(sess.ID); ok {
		h.hub.Publish(sess.ID, note)
	}
	return nil
}
