package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// Page data endpoints
	router.GET("/projects", handler.ListProjects)
	router.GET("/tasks", handler.ListTasks)
}
