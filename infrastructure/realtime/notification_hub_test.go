package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autopost-dashboard/domain/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast_OnlyReachesOwner(t *testing.T) {
	h := NewNotificationHub()
	mine := make(chan NotificationEvent, 1)
	other := make(chan NotificationEvent, 1)
	h.addSubscriber("u-1", mine)
	h.addSubscriber("u-2", other)

	h.Broadcast("u-1", model.Notification{ID: "n1", Message: "hi", Severity: model.SeverityInfo})

	select {
	case evt := <-mine:
		assert.Equal(t, "n1", evt.ID)
		assert.Equal(t, "notification", evt.Type)
	default:
		t.Fatal("expected event for u-1")
	}
	assert.Len(t, other, 0)

	h.removeSubscriber("u-1", mine)
	assert.Equal(t, 0, h.Subscribers("u-1"))
}

func TestBroadcast_DoesNotBlockOnFullSubscriber(t *testing.T) {
	h := NewNotificationHub()
	ch := make(chan NotificationEvent)
	h.addSubscriber("u-1", ch)

	done := make(chan struct{})
	go func() {
		h.Broadcast("u-1", model.Notification{ID: "n1"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked")
	}
}

func TestServe_StreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHub()
	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		c.Set("user_id", "u-1")
		h.Serve(c)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ":ok\n", line)

	h.Broadcast("u-1", model.Notification{ID: "n1", Message: "Connected", Severity: model.SeveritySuccess})

	var event, data string
	for data == "" {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			data = line
		}
	}
	assert.Equal(t, "notification", event)
	assert.Contains(t, data, `"message":"Connected"`)
}

func TestServe_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHub()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/stream", nil)

	h.Serve(c)
	assert.Equal(t, http.StatusUnauthorized, c.Writer.Status())
}
