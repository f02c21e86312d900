package middleware

import (
	"errors"
	"net/http"
	"strings"

	"autopost-dashboard/domain/dto"
	"autopost-dashboard/domain/model"
	"autopost-dashboard/infrastructure/logger"
	"autopost-dashboard/usecase"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const (
	SessionKey = "session"
	UserIDKey  = "user_id"
)

// CookieSource exposes request cookies as persisted client state.
type CookieSource struct {
	Ctx *gin.Context
}

func (s CookieSource) Lookup(key string) (string, bool) {
	v, err := s.Ctx.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

// Session resolves the dashboard user for every request. A verified bearer
// token wins; otherwise the session store probes the request cookies. The
// request continues either way and RequireSession decides what to reject.
func Session(secretKey string, store usecase.ISessionStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		current := bearerSession(ctx.Request.Header.Get("Authorization"), secretKey)
		if sess := store.Resolve(ctx.Request.Context(), current, CookieSource{Ctx: ctx}); sess != nil {
			ctx.Set(SessionKey, sess)
			ctx.Set(UserIDKey, sess.UserID)
		}
		ctx.Next()
	}
}

func bearerSession(authorization, secretKey string) *model.Session {
	raw, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || raw == "" || secretKey == "" {
		return nil
	}
	userClaims, token, err := getClaim(raw, secretKey)
	if err != nil || token == nil || !token.Valid {
		logger.GetLogger().WithField("reason", tokenProblem(err)).Debug("Ignoring bearer token")
		return nil
	}
	userID := model.FirstNonEmpty(userClaims.Subject, userClaims.Issuer, userClaims.UserName)
	if userID == "" {
		return nil
	}
	return &model.Session{
		UserID:      userID,
		Email:       userClaims.Email,
		DisplayName: model.FirstNonEmpty(userClaims.Name, userClaims.UserName),
		BearerToken: raw,
	}
}

func tokenProblem(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "malformed"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return "expired or not active yet"
		}
	}
	if err != nil {
		return err.Error()
	}
	return "invalid"
}

func getClaim(raw, secretKey string) (model.UserClaims, *jwt.Token, error) {
	var userClaims model.UserClaims
	token, err := jwt.ParseWithClaims(
		raw,
		&userClaims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secretKey), nil
		},
	)
	return userClaims, token, err
}

// CurrentSession returns the session set by Session, or nil.
func CurrentSession(ctx *gin.Context) *model.Session {
	v, ok := ctx.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*model.Session)
	return sess
}

// RequireSession rejects requests without a valid session. Browser
// navigations go to the login page, API calls get 401.
func RequireSession(loginPath string) gin.HandlerFunc {
	res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}
	return func(ctx *gin.Context) {
		if CurrentSession(ctx).Valid() {
			ctx.Next()
			return
		}
		if WantsHTML(ctx) {
			ctx.Redirect(http.StatusFound, loginPath)
			ctx.Abort()
			return
		}
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
	}
}

// WantsHTML reports whether the request is a top-level browser navigation.
func WantsHTML(ctx *gin.Context) bool {
	return strings.Contains(ctx.GetHeader("Accept"), "text/html")
}
