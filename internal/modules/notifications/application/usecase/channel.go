package usecase

import (
	"strings"
	"sync"
	"time"

	"pratoJaEdge/internal/modules/notifications/domain"
	"pratoJaEdge/internal/shared/apiresult"
)

// Publisher pushes the active notification out to connected browsers.
type Publisher interface {
	Publish(sessionID string, note domain.Notification)
}

type slot struct {
	note      domain.Notification
	expiresAt time.Time
}

// Channel holds at most one notification per session. A newer message
// overwrites the held one, and a message older than the display window is
// treated as dismissed. Expiry is checked on read instead of running a timer
// per notification.
type Channel struct {
	ttl       time.Duration
	now       func() time.Time
	publisher Publisher

	mu    sync.Mutex
	slots map[string]slot
}

func NewChannel(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &Channel{ttl: ttl, now: time.Now, slots: make(map[string]slot)}
}

// SetPublisher attaches the realtime fan-out. Optional; the channel works
// poll-only without one.
func (c *Channel) SetPublisher(p Publisher) {
	c.mu.Lock()
	c.publisher = p
	c.mu.Unlock()
}

// Show replaces the session's notification.
func (c *Channel) Show(sessionID string, note domain.Notification) {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" {
		return
	}
	c.mu.Lock()
	c.slots[trimmed] = slot{note: note, expiresAt: c.now().Add(c.ttl)}
	publisher := c.publisher
	c.mu.Unlock()

	if publisher != nil {
		publisher.Publish(trimmed, note)
	}
}

// NotifyResult folds an action outcome into a notification.
func (c *Channel) NotifyResult(sessionID string, res apiresult.Result) {
	c.Show(sessionID, domain.FromResult(res))
}

// Current returns the session's live notification, if one is still inside its
// display window. Expired slots are cleaned up on the way out.
func (c *Channel) Current(sessionID string) (domain.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.slots[strings.TrimSpace(sessionID)]
	if !ok {
		return domain.Notification{}, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.slots, strings.TrimSpace(sessionID))
		return domain.Notification{}, false
	}
	return entry.note, true
}

// Dismiss drops the session's notification before its window ends.
func (c *Channel) Dismiss(sessionID string) {
	c.mu.Lock()
	delete(c.slots, strings.TrimSpace(sessionID))
	c.mu.Unlock()
}

// Forget removes every trace of a session, used when the session itself ends.
func (c *Channel) Forget(sessionID string) {
	c.Dismiss(sessionID)
}
