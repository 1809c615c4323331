package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pulistar/alumni/internal/handlers"
)

type RouterConfig struct {
	DocumentHandler     *handlers.DocumentHandler
	NotificationHandler *handlers.NotificationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:4200",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Documents
		graduates := api.Group("/graduates/:graduateId")
		graduates.POST("/documents", cfg.DocumentHandler.Upload)
		graduates.GET("/documents", cfg.DocumentHandler.List)
		graduates.GET("/documents/unified", cfg.DocumentHandler.GetUnified)
		graduates.GET("/documents/:documentId/url", cfg.DocumentHandler.GetSignedURL)
		graduates.DELETE("/documents/:documentId", cfg.DocumentHandler.Delete)

		// Notifications
		graduates.GET("/notifications", cfg.NotificationHandler.List)
		graduates.GET("/notifications/unread-count", cfg.NotificationHandler.CountUnread)
		graduates.PATCH("/notifications/:notificationId/read", cfg.NotificationHandler.MarkRead)
		graduates.PATCH("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)
	}

	return router
}
