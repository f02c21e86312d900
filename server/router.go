package server

import (
	"time"

	"autopost-dashboard/infrastructure/configuration"
	httpHandler "autopost-dashboard/interfaces/http"
	"autopost-dashboard/interfaces/middleware"
	"autopost-dashboard/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	sessionStore usecase.ISessionStore,
	healthHandler httpHandler.IHealthHandler,
	oauthHandler httpHandler.IOAuthHandler,
	connectionHandler httpHandler.IConnectionHandler,
	profileHandler httpHandler.IProfileHandler,
	contentHandler httpHandler.IContentHandler,
	notificationHandler httpHandler.INotificationHandler,
) *gin.Engine {
	backend := configuration.C.Backend

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     configuration.C.Cors.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Session(configuration.C.App.SecretKey, sessionStore))

	router.GET("/healthz", healthHandler.Health)

	// The callback resolves its own session so a logged-out return still
	// lands on a clean URL.
	router.GET(backend.CallbackPath, oauthHandler.Callback)
	router.GET(backend.CallbackPath+"/:platform", oauthHandler.Callback)

	dashboard := router.Group(backend.DashboardPath)
	dashboard.Use(middleware.RequireSession(backend.LoginPath))
	dashboard.GET("/connect/:platform", oauthHandler.Begin)

	api := router.Group("api")
	api.Use(middleware.RequireSession(backend.LoginPath))
	{
		api.GET("/workflow", connectionHandler.Overview)

		api.GET("/notifications", notificationHandler.List)
		api.DELETE("/notifications/:id", notificationHandler.Dismiss)
		api.GET("/notifications/stream", notificationHandler.Stream)

		platform := api.Group("/:platform")
		platform.GET("/authorize", oauthHandler.Begin)
		platform.GET("/oauth/state", oauthHandler.FlowState)

		platform.GET("/connection", connectionHandler.Refresh)
		platform.GET("/stats", connectionHandler.Stats)
		platform.GET("/gate/:tab", connectionHandler.Gate)

		platform.GET("/profile", profileHandler.Get)
		platform.PUT("/profile", profileHandler.Save)

		platform.GET("/draft", contentHandler.Draft)
		platform.PUT("/draft", contentHandler.UpdateDraft)
		platform.POST("/generate", contentHandler.Generate)
		platform.POST("/enrich", contentHandler.Enrich)
		platform.POST("/thumbnail", contentHandler.SelectThumbnail)
		platform.POST("/publish", contentHandler.Publish)
		platform.POST("/automation", contentHandler.Automation)
	}

	return router
}
