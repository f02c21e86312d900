package http

import (
	"net/http"

	"autopost-dashboard/infrastructure/utils"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Health(c *gin.Context)
}

type HealthHandler struct{}

func NewHealthHandler() IHealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": utils.GetCurrentTime()})
}
