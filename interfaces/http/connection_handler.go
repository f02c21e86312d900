package http

import (
	"net/http"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"
	"autopost-dashboard/interfaces/middleware"
	"autopost-dashboard/usecase"

	"github.com/gin-gonic/gin"
)

type IConnectionHandler interface {
	Refresh(c *gin.Context)
	Stats(c *gin.Context)
	Gate(c *gin.Context)
	Overview(c *gin.Context)
}

type ConnectionHandler struct {
	state     workflowState
	pipeline  usecase.IPublishPipeline
	notifier  repository.INotifier
	loginPath string
}

func NewConnectionHandler(poller usecase.IConnectionPoller, profiles usecase.IProfileUsecase, pipeline usecase.IPublishPipeline, notifier repository.INotifier, loginPath string) IConnectionHandler {
	return &ConnectionHandler{
		state:     workflowState{profiles: profiles, poller: poller},
		pipeline:  pipeline,
		notifier:  notifier,
		loginPath: loginPath,
	}
}

// Refresh handles GET /api/:platform/connection.
func (h *ConnectionHandler) Refresh(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	conn, err := h.state.poller.Check(c.Request.Context(), platform, middleware.CurrentSession(c))
	if apperror.Is(err, apperror.KindNotAuthenticated) {
		respondError(c, h.loginPath, err)
		return
	}
	c.JSON(http.StatusOK, conn)
}

// Stats handles GET /api/:platform/stats.
func (h *ConnectionHandler) Stats(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	n, err := h.pipeline.PostsToday(c.Request.Context(), c.GetString(middleware.UserIDKey), platform)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error reading daily post counter")
		respondError(c, h.loginPath, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"platform": platform, "posts_today": n})
}

// Gate handles GET /api/:platform/gate/:tab. A denied tab also raises an
// error notification so the dashboard shows why it moved.
func (h *ConnectionHandler) Gate(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	tab, ok := usecase.ParseTab(c.Param("tab"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown tab"})
		return
	}

	session := middleware.CurrentSession(c)
	profile, conn, err := h.state.load(c.Request.Context(), session, platform)
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	decision := usecase.Guard(platform, tab, &profile, conn)
	if !decision.Allowed {
		h.notifier.Push(session.UserID, model.SeverityError, decision.Message)
	}
	c.JSON(http.StatusOK, decision)
}

// Overview handles GET /api/workflow. It reads cached connections only.
func (h *ConnectionHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()
	session := middleware.CurrentSession(c)

	rows := make([]dto.PlatformOverview, 0, len(model.AllPlatforms))
	for _, platform := range model.AllPlatforms {
		profile, err := h.state.profiles.Load(ctx, session, platform)
		if err != nil {
			respondError(c, h.loginPath, err)
			return
		}
		conn, err := h.state.poller.Cached(ctx, session.UserID, platform)
		if err != nil {
			logger.GetLogger().WithField("error", err).WithField("platform", platform).Warn("Error reading cached connection")
		}
		posts, err := h.pipeline.PostsToday(ctx, session.UserID, platform)
		if err != nil {
			logger.GetLogger().WithField("error", err).WithField("platform", platform).Error("Error reading daily post counter")
		}
		rows = append(rows, dto.PlatformOverview{
			Platform:   platform,
			Profile:    profile,
			Connection: conn,
			NextStep:   string(usecase.NextStep(&profile, conn)),
			PostsToday: posts,
		})
	}
	c.JSON(http.StatusOK, rows)
}
