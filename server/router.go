package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"clipcast/infrastructure/realtime"
	httpHandler "clipcast/interfaces/http"
	"clipcast/interfaces/middleware"
)

func InitiateRouter(
	connectHandler httpHandler.IConnectHandler,
	accountHandler httpHandler.ISocialAccountHandler,
	publishHandler httpHandler.IPublishHandler,
	scheduleHandler httpHandler.IScheduleHandler,
	hub *realtime.Hub,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "https://localhost:4200", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Authorization start is browser-navigated, so Auth accepts the token as
	// a query parameter there. The callback is reached by the platform's
	// redirect and cannot carry our token at all; the user comes from the
	// state parameter, authenticated by byte-equality with the cookie minted
	// at start.
	auth := router.Group("/auth")
	auth.GET("/:platform", middleware.Auth(), connectHandler.Start)
	auth.GET("/:platform/callback", connectHandler.Callback)

	api := router.Group("/api")
	api.Use(middleware.Auth())

	api.GET("/social/accounts", accountHandler.List)
	api.DELETE("/social/accounts/:id", accountHandler.Disconnect)

	api.POST("/social/publish", publishHandler.Publish)

	api.POST("/social/schedule", scheduleHandler.Create)
	api.GET("/social/schedule", scheduleHandler.List)
	api.POST("/social/schedule/:id/retry", scheduleHandler.Retry)
	api.POST("/social/schedule/process", scheduleHandler.ProcessDue)

	if hub != nil {
		api.GET("/social/events", hub.Serve)
	}

	return router
}
