package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mitra/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)

	router.POST("/recommend", handler.Recommend)
	router.GET("/products", handler.ListProducts)
	router.GET("/categories", handler.Categories)

	user := router.Group("/user/:userID")
	{
		user.GET("/preferences", handler.GetUserPreferences)
		user.POST("/preferences", handler.UpdateUserPreferences)
	}

	return router
}
