package routes

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	v1 "github.com/mga-portal/api/v1"
	"github.com/mga-portal/config"
	"github.com/mga-portal/middleware"
)

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(cfg config.ServerConfig, logger *slog.Logger, handler *v1.Handler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	SetupRoutes(router, handler)
	return router
}

// SetupRoutes mounts the health check and the versioned API routes
func SetupRoutes(router *gin.Engine, handler *v1.Handler) {
	// Public routes
	router.GET("/", v1.HealthCheck)

	// API routes
	api := router.Group("/api/v1")
	v1.RegisterRoutes(api, handler)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
