package handler

import (
	"context"
	"log/slog"
	"strings"

	catalogdomain "pratoJaEdge/internal/modules/catalog/domain"
	"pratoJaEdge/internal/modules/notifications/application/usecase"
	"pratoJaEdge/internal/modules/notifications/domain"
	sessiondomain "pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/platform/broker"
	"pratoJaEdge/internal/shared/payload"
)

// SessionFinder locates the live sessions of a user so their browsers can be
// notified.
type SessionFinder interface {
	FindByUserID(userID string) []*sessiondomain.Session
}

// CacheInvalidator drops a store cache after an out-of-band change.
type CacheInvalidator interface {
	Invalidate()
}

// DemandEventHandler reacts to demand lifecycle events: the demand cache is
// dropped so the next read refetches, and the owning user's sessions get a
// status notification.
type DemandEventHandler struct {
	topic    string
	sessions SessionFinder
	demands  CacheInvalidator
	channel  *usecase.Channel
}

func NewDemandEventHandler(topic string, sessions SessionFinder, demands CacheInvalidator, channel *usecase.Channel) *DemandEventHandler {
	if strings.TrimSpace(topic) == "" {
		topic = "demands.status"
	}
	return &DemandEventHandler{topic: topic, sessions: sessions, demands: demands, channel: channel}
}

func (h *DemandEventHandler) Topic() string { return h.topic }

func (h *DemandEventHandler) Handle(ctx context.Context, event *broker.Event) error {
	h.demands.Invalidate()

	status := demandStatus(event)
	userID := eventUserID(event)
	if userID == "" {
		slog.Debug("demand event without owner", slog.String("topic", event.Topic), slog.String("resourceId", event.ResourceID))
		return nil
	}

	note := domain.Notification{Text: statusText(status), Color: domain.ColorSuccess}
	if status == catalogdomain.DemandStatusCancelled {
		note.Color = domain.ColorError
	}

	for _, sess := range h.sessions.FindByUserID(userID) {
		h.channel.Show(sess.ID, note)
	}
	return nil
}

func demandStatus(event *broker.Event) catalogdomain.DemandStatus {
	if event.Metadata != nil {
		if status := catalogdomain.NormalizeDemandStatus(event.Metadata["status"]); status != catalogdomain.DemandStatusUnknown {
			return status
		}
	}
	data := payload.MapFromEnvelope(event.Data)
	if data == nil {
		return catalogdomain.DemandStatusUnknown
	}
	return catalogdomain.NormalizeDemandStatus(data["status"])
}

func eventUserID(event *broker.Event) string {
	if event.Metadata != nil {
		if id := strings.TrimSpace(event.Metadata["userId"]); id != "" {
			return id
		}
	}
	data := payload.MapFromEnvelope(event.Data)
	if data == nil {
		return ""
	}
	return strings.TrimSpace(payload.AsString(data["userId"]))
}

func statusText(status catalogdomain.DemandStatus) string {
	if status == catalogdomain.DemandStatusUnknown {
		return "Seu pedido foi atualizado!"
	}
	return "Seu pedido está: " + status.Label()
}
