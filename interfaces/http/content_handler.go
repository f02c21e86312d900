package http

import (
	"net/http"
	"strings"

	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/domain/repository"
	"autopost-dashboard/infrastructure/logger"
	"autopost-dashboard/interfaces/middleware"
	"autopost-dashboard/usecase"

	"github.com/gin-gonic/gin"
)

type IContentHandler interface {
	Draft(c *gin.Context)
	UpdateDraft(c *gin.Context)
	Generate(c *gin.Context)
	Enrich(c *gin.Context)
	SelectThumbnail(c *gin.Context)
	Publish(c *gin.Context)
	Automation(c *gin.Context)
}

type ContentHandler struct {
	pipeline  usecase.IPublishPipeline
	state     workflowState
	notifier  repository.INotifier
	loginPath string
}

func NewContentHandler(pipeline usecase.IPublishPipeline, profiles usecase.IProfileUsecase, poller usecase.IConnectionPoller, notifier repository.INotifier, loginPath string) IContentHandler {
	return &ContentHandler{
		pipeline:  pipeline,
		state:     workflowState{profiles: profiles, poller: poller},
		notifier:  notifier,
		loginPath: loginPath,
	}
}

// allowCreate gates content work like the create tab. A denied request gets
// the redirect target and an error notification saying why.
func (h *ContentHandler) allowCreate(c *gin.Context, session *model.Session, platform model.PlatformID, profile *model.BusinessProfile, conn *model.PlatformConnection) bool {
	decision := usecase.Guard(platform, usecase.TabCreate, profile, conn)
	if decision.Allowed {
		return true
	}
	h.notifier.Push(session.UserID, model.SeverityError, decision.Message)
	respondError(c, h.loginPath, decision.Err())
	return false
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return false
	}
	return true
}

// respondOperation writes the slot. A failed call still returns the slot so
// the dashboard sees a terminal status.
func (h *ContentHandler) respondOperation(c *gin.Context, op model.PublishOperation, err error) {
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

// Draft handles GET /api/:platform/draft.
func (h *ContentHandler) Draft(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.pipeline.Operation(c.GetString(middleware.UserIDKey), platform))
}

// UpdateDraft handles PUT /api/:platform/draft.
func (h *ContentHandler) UpdateDraft(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	var req dto.UpdateDraftRequest
	if !bindJSON(c, &req) {
		return
	}
	op, err := h.pipeline.UpdateDraft(c.GetString(middleware.UserIDKey), platform, req)
	h.respondOperation(c, op, err)
}

// Generate handles POST /api/:platform/generate.
func (h *ContentHandler) Generate(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	var req dto.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	session := middleware.CurrentSession(c)
	profile, conn, err := h.state.load(c.Request.Context(), session, platform)
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	if !h.allowCreate(c, session, platform, &profile, conn) {
		return
	}
	op, err := h.pipeline.Generate(c.Request.Context(), session, platform, profile, req.Topic)
	h.respondOperation(c, op, err)
}

// Enrich handles POST /api/:platform/enrich.
func (h *ContentHandler) Enrich(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	op, err := h.pipeline.Enrich(c.Request.Context(), middleware.CurrentSession(c), platform)
	h.respondOperation(c, op, err)
}

// SelectThumbnail handles POST /api/:platform/thumbnail.
func (h *ContentHandler) SelectThumbnail(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	var req dto.SelectThumbnailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	op, err := h.pipeline.SelectThumbnail(c.GetString(middleware.UserIDKey), platform, req.Index)
	h.respondOperation(c, op, err)
}

// Publish handles POST /api/:platform/publish.
func (h *ContentHandler) Publish(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	var body dto.PublishRequest
	if !bindJSON(c, &body) {
		return
	}
	session := middleware.CurrentSession(c)
	profile, conn, err := h.state.load(c.Request.Context(), session, platform)
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	if !h.allowCreate(c, session, platform, &profile, conn) {
		return
	}

	res, err := h.pipeline.Publish(c.Request.Context(), session, toPlatformRequest(platform, body), conn)
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"result":    res,
		"operation": h.pipeline.Operation(session.UserID, platform),
	})
}

// Automation handles POST /api/:platform/automation.
func (h *ContentHandler) Automation(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	var req dto.AutomationRequest
	if !bindJSON(c, &req) {
		return
	}
	session := middleware.CurrentSession(c)
	profile, conn, err := h.state.load(c.Request.Context(), session, platform)
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	decision, err := h.pipeline.StartAutomation(c.Request.Context(), session, platform, &profile, conn, req)
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "decision": decision})
}

// toPlatformRequest keeps only the fields the target platform reads.
func toPlatformRequest(platform model.PlatformID, body dto.PublishRequest) model.PlatformRequest {
	switch platform {
	case model.PlatformFacebook:
		return model.FacebookRequest{PageID: body.PageID}
	case model.PlatformInstagram:
		return model.InstagramRequest{ImageURL: body.ImageURL}
	case model.PlatformYouTube:
		if strings.EqualFold(body.Kind, "community") {
			return model.YouTubeCommunityRequest{ImageURL: body.ImageURL}
		}
		return model.YouTubeRequest{
			Title:        body.Title,
			VideoURL:     body.VideoURL,
			ThumbnailURL: body.ThumbnailURL,
			Privacy:      body.Privacy,
		}
	case model.PlatformWhatsApp:
		return model.WhatsAppRequest{PhoneNumberID: body.PhoneNumberID}
	default:
		return model.RedditRequest{Subreddit: body.Subreddit, Title: body.Title}
	}
}
