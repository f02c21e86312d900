package http

import (
	"errors"
	"net/http"

	"autopost-dashboard/domain/apperror"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/interfaces/middleware"
	"autopost-dashboard/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotAuthenticated:
		return http.StatusUnauthorized
	case apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindBackendUnavailable:
		return http.StatusServiceUnavailable
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindOAuth, apperror.KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. A denied gate also carries where the
// dashboard should send the user.
func respondError(c *gin.Context, loginPath string, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindNotAuthenticated && middleware.WantsHTML(c) {
		c.Redirect(http.StatusFound, loginPath)
		return
	}
	body := gin.H{
		"success": false,
		"error":   string(kind),
		"message": apperror.MessageOr(err, "Something went wrong"),
	}
	var gateErr *usecase.GateError
	if errors.As(err, &gateErr) {
		body["redirect_to"] = gateErr.Decision.RedirectTo
	}
	c.JSON(statusFor(kind), body)
}

// platformParam reads :platform or answers 404.
func platformParam(c *gin.Context) (model.PlatformID, bool) {
	p, err := model.ParsePlatform(c.Param("platform"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": string(apperror.KindNotFound), "message": err.Error()})
		return "", false
	}
	return p, true
}
