package http

import (
	"net/http"

	"autopost-dashboard/domain/dto"
	"autopost-dashboard/infrastructure/logger"
	"autopost-dashboard/interfaces/middleware"
	"autopost-dashboard/usecase"

	"github.com/gin-gonic/gin"
)

type IProfileHandler interface {
	Get(c *gin.Context)
	Save(c *gin.Context)
}

type ProfileHandler struct {
	profiles  usecase.IProfileUsecase
	loginPath string
}

func NewProfileHandler(profiles usecase.IProfileUsecase, loginPath string) IProfileHandler {
	return &ProfileHandler{profiles: profiles, loginPath: loginPath}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	profile, err := h.profiles.Load(c.Request.Context(), middleware.CurrentSession(c), platform)
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Save(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	var req dto.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	profile, err := h.profiles.Save(c.Request.Context(), middleware.CurrentSession(c), platform, req)
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
