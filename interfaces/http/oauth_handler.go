package http

import (
	"net/http"
	"net/url"
	"strings"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/interfaces/middleware"
	"autopost-dashboard/usecase"

	"github.com/gin-gonic/gin"
)

type IOAuthHandler interface {
	Begin(c *gin.Context)
	Callback(c *gin.Context)
	FlowState(c *gin.Context)
}

type OAuthHandler struct {
	flow      usecase.IOAuthFlow
	loginPath string
}

func NewOAuthHandler(flow usecase.IOAuthFlow, loginPath string) IOAuthHandler {
	return &OAuthHandler{flow: flow, loginPath: loginPath}
}

// Begin handles GET /dashboard/connect/:platform and GET /api/:platform/authorize.
// Browsers are sent straight to the provider; API callers get the URL.
func (h *OAuthHandler) Begin(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	redirect, err := h.flow.BeginAuthorization(c.Request.Context(), platform, middleware.CurrentSession(c))
	if err != nil {
		respondError(c, h.loginPath, err)
		return
	}
	if middleware.WantsHTML(c) {
		c.Redirect(http.StatusFound, redirect)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect_url": redirect})
}

// Callback handles the provider return trip. The response always redirects
// to the dashboard without the one-shot query string.
func (h *OAuthHandler) Callback(c *gin.Context) {
	params, ok := parseCallback(c.Request.URL.Query(), c.Param("platform"))
	if !ok {
		c.Redirect(http.StatusSeeOther, h.cleanURL(""))
		return
	}

	session := middleware.CurrentSession(c)
	out := h.flow.HandleCallback(c.Request.Context(), params, session)
	if out.Err != nil && apperror.Is(out.Err, apperror.KindNotAuthenticated) && session == nil {
		c.Redirect(http.StatusFound, h.loginPath)
		return
	}
	c.Redirect(http.StatusSeeOther, h.cleanURL(out.CleanURL))
}

func (h *OAuthHandler) cleanURL(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// FlowState handles GET /api/:platform/oauth/state.
func (h *OAuthHandler) FlowState(c *gin.Context) {
	platform, ok := platformParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.flow.FlowState(c.GetString(middleware.UserIDKey), platform))
}

// parseCallback recognises `{platform}_connected=true&username=...`,
// `code&state` and provider `error` returns. The platform comes from the
// route, the connected flag, or the state prefix ("youtube_oauth").
func parseCallback(q url.Values, routePlatform string) (model.CallbackParams, bool) {
	var params model.CallbackParams
	raw := routePlatform
	if raw == "" {
		raw = q.Get("platform")
	}
	for _, p := range model.AllPlatforms {
		if q.Get(string(p)+"_connected") == "true" {
			params.Connected = true
			if raw == "" {
				raw = string(p)
			}
		}
	}
	params.Username = q.Get("username")
	params.Code = q.Get("code")
	params.State = q.Get("state")
	params.Error = q.Get("error")
	params.ErrorDesc = q.Get("error_description")
	if raw == "" && params.State != "" {
		raw, _, _ = strings.Cut(params.State, "_")
	}

	platform, err := model.ParsePlatform(raw)
	if err != nil {
		return params, false
	}
	params.Platform = platform

	params.Extra = map[string]string{}
	for key := range q {
		switch key {
		case "platform", "username", "code", "state", "error", "error_description", "scope":
			continue
		}
		if strings.HasSuffix(key, "_connected") {
			continue
		}
		params.Extra[key] = q.Get(key)
	}
	return params, params.HasCallback()
}
