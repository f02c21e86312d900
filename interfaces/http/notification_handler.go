package http

import (
	"net/http"

	"autopost-dashboard/interfaces/middleware"
	"autopost-dashboard/usecase"

	"github.com/gin-gonic/gin"
)

type INotificationHandler interface {
	List(c *gin.Context)
	Dismiss(c *gin.Context)
	Stream(c *gin.Context)
}

// Streamer serves the realtime notification feed.
type Streamer interface {
	Serve(c *gin.Context)
}

type NotificationHandler struct {
	queue usecase.INotificationQueue
	hub   Streamer
}

func NewNotificationHandler(queue usecase.INotificationQueue, hub Streamer) INotificationHandler {
	return &NotificationHandler{queue: queue, hub: hub}
}

func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.queue.List(c.GetString(middleware.UserIDKey)))
}

func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if !h.queue.Dismiss(c.GetString(middleware.UserIDKey), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Stream(c *gin.Context) {
	h.hub.Serve(c)
}
