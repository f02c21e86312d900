package usecase_test

import (
	"sync"
	"testing"
	"time"

	"autopost-dashboard/domain/model"
	"autopost-dashboard/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type hubSpy struct {
	mu   sync.Mutex
	sent map[string][]model.Notification
}

func (h *hubSpy) Broadcast(userID string, n model.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sent == nil {
		h.sent = map[string][]model.Notification{}
	}
	h.sent[userID] = append(h.sent[userID], n)
}

func TestNotificationQueue_TTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	q := usecase.NewNotificationQueue(5 * time.Second).WithClock(clock.Now)

	n := q.Push("u-1", model.SeverityInfo, "Redirecting to YouTube...")
	require.NotEmpty(t, n.ID)

	clock.Advance(3 * time.Second)
	assert.Len(t, q.List("u-1"), 1)

	clock.Advance(3 * time.Second)
	assert.Empty(t, q.List("u-1"))
}

func TestNotificationQueue_OrderAndDismiss(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	hub := &hubSpy{}
	q := usecase.NewNotificationQueue(5 * time.Second).WithClock(clock.Now).WithBroadcaster(hub)

	first := q.Push("u-1", model.SeverityInfo, "one")
	second := q.Push("u-1", model.SeverityError, "two")
	q.Push("u-2", model.SeveritySuccess, "other user")

	list := q.List("u-1")
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	assert.True(t, q.Dismiss("u-1", first.ID))
	assert.False(t, q.Dismiss("u-1", first.ID))
	list = q.List("u-1")
	require.Len(t, list, 1)
	assert.Equal(t, "two", list[0].Message)

	assert.Len(t, hub.sent["u-1"], 2)
	assert.Len(t, hub.sent["u-2"], 1)
}

func TestNotificationQueue_ListReturnsCopy(t *testing.T) {
	q := usecase.NewNotificationQueue(5 * time.Second)
	q.Push("u-1", model.SeverityInfo, "original")

	list := q.List("u-1")
	list[0].Message = "changed"
	assert.Equal(t, "original", q.List("u-1")[0].Message)
}
