package usecase

import (
	"sync"
	"time"

	"autopost-dashboard/domain/model"

	"github.com/google/uuid"
)

// Broadcaster receives every pushed notification for realtime delivery.
type Broadcaster interface {
	Broadcast(userID string, n model.Notification)
}

type INotificationQueue interface {
	Push(userID string, severity model.Severity, message string) model.Notification
	// List returns the live notifications of a user, oldest first.
	List(userID string) []model.Notification
	Dismiss(userID, id string) bool
}

// NotificationQueue keeps short-lived notifications per user in memory.
// Entries expire ttl after creation; expired entries are pruned on access.
type NotificationQueue struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string][]model.Notification
	hub   Broadcaster
}

func NewNotificationQueue(ttl time.Duration) *NotificationQueue {
	return &NotificationQueue{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string][]model.Notification),
	}
}

func (q *NotificationQueue) WithClock(now func() time.Time) *NotificationQueue {
	q.now = now
	return q
}

func (q *NotificationQueue) WithBroadcaster(hub Broadcaster) *NotificationQueue {
	q.hub = hub
	return q
}

func (q *NotificationQueue) Push(userID string, severity model.Severity, message string) model.Notification {
	n := model.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: q.now(),
	}

	q.mu.Lock()
	q.items[userID] = append(q.prune(userID), n)
	q.mu.Unlock()

	if q.hub != nil {
		q.hub.Broadcast(userID, n)
	}
	return n
}

func (q *NotificationQueue) List(userID string) []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	live := q.prune(userID)
	out := make([]model.Notification, len(live))
	copy(out, live)
	return out
}

func (q *NotificationQueue) Dismiss(userID, id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	live := q.prune(userID)
	for i, n := range live {
		if n.ID == id {
			q.items[userID] = append(live[:i:i], live[i+1:]...)
			return true
		}
	}
	return false
}

// prune drops expired entries. Caller holds mu.
func (q *NotificationQueue) prune(userID string) []model.Notification {
	now := q.now()
	kept := q.items[userID][:0]
	for _, n := range q.items[userID] {
		if now.Sub(n.CreatedAt) < q.ttl {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		delete(q.items, userID)
		return nil
	}
	q.items[userID] = kept
	return kept
}
