package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pratoJaEdge/internal/modules/notifications/domain"
)

// Hub fans the active notification out to the browsers of a session. A
// session may hold several connections (tabs); each gets every push.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Attach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*Client]struct{})
	}
	h.sessions[c.sessionID][c] = struct{}{}
	slog.Info("ws client attached", slog.String("sessionId", c.sessionID))
}

func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.sessions[c.sessionID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.sessions, c.sessionID)
		}
	}
	c.close()
	slog.Info("ws client detached", slog.String("sessionId", c.sessionID))
}

// Publish sends the notification to every connection of the session. A client
// whose buffer is full is dropped rather than blocking the rest.
func (h *Hub) Publish(sessionID string, note domain.Notification) {
	data, err := json.Marshal(note)
	if err != nil {
		slog.Error("notification marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.sessions[sessionID]))
	for c := range h.sessions[strings.TrimSpace(sessionID)] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			go h.detach(c)
		}
	}
}

// DropSession closes every connection of a session, used when the session
// itself ends.
func (h *Hub) DropSession(sessionID string) {
	h.mu.Lock()
	clients := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

// Client is one websocket connection bound to a session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string, buf int) *Client {
	if buf <= 0 {
		buf = 8
	}
	return &Client{hub: hub, conn: conn, send: make(chan []byte, buf), sessionID: strings.TrimSpace(sessionID)}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

func (c *Client) WritePump() {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				slog.Warn("websocket ping error", slog.Any("error", err))
				return
			}
		}
	}
}

// ReadPump drains the connection until the browser goes away. Notifications
// flow one way; inbound frames only keep the connection alive.
func (c *Client) ReadPump() {
	c.conn.SetReadLimit(1 << 12)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	defer c.hub.detach(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", slog.String("sessionId", c.sessionID), slog.Any("error", err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}
