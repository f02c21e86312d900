package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"autopost-dashboard/domain/model"

	"github.com/gin-gonic/gin"
)

// NotificationEvent is the SSE payload for one notification.
type NotificationEvent struct {
	Type string `json:"type"`
	model.Notification
}

// Hub maintains per-user subscribers listening for notifications.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[chan NotificationEvent]struct{}
}

func NewNotificationHub() *Hub {
	return &Hub{users: make(map[string]map[chan NotificationEvent]struct{})}
}

// Serve registers an SSE stream for the authenticated user (user_id set by middleware).
func (h *Hub) Serve(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan NotificationEvent, 8)
	h.addSubscriber(userID, ch)
	defer h.removeSubscriber(userID, ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: notification\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Hub) addSubscriber(userID string, ch chan NotificationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[chan NotificationEvent]struct{})
	}
	h.users[userID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(userID string, ch chan NotificationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.users[userID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
}

// Subscribers reports how many streams a user has open.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Broadcast fans a notification out to every stream of the user. Slow
// subscribers miss events rather than block the caller.
func (h *Hub) Broadcast(userID string, n model.Notification) {
	evt := NotificationEvent{Type: "notification", Notification: n}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.users[userID] {
		select {
		case ch <- evt:
		default:
		}
	}
}
