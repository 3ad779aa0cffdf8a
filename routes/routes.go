package routes

import (
	"net/http"
	"time"

	"citaflow/handlers"
	"citaflow/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the inbound conversation endpoint.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/webhook")
	{
		api.POST("/whatsapp", hb.ChatWebhookHandler)
	}
}

// RegisterMessageRoutes registers the manual-send endpoint used by
// school staff tooling.
func RegisterMessageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/v1/messages")
	{
		api.Use(middleware.APITokenMiddleware())
		api.POST("", hb.SendMessageHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for operator tooling.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.APITokenMiddleware())
		adminGroup.GET("/dispatcher", hb.DispatcherStatusHandler)
		adminGroup.POST("/dispatcher/run", hb.RunDispatcherHandler)
		adminGroup.GET("/appointments/:contact", hb.AppointmentsHandler)
		adminGroup.POST("/blacklist", hb.BlacklistHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWebhookRoutes(r, hb)
	RegisterMessageRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
