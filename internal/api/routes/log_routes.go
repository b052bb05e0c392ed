package routes

import (
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/handlers"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// LogRoutes handles the setup of audit-trail routes
type LogRoutes struct {
	handler   *handlers.LogHandler
	jwtSecret string
}

// NewLogRoutes creates a new LogRoutes instance
func NewLogRoutes(handler *handlers.LogHandler, jwtSecret string) *LogRoutes {
	return &LogRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all audit-trail routes
func (lr *LogRoutes) RegisterRoutes(router *gin.Engine) {
	logs := router.Group("/api/logs")
	logs.Use(middleware.NewAuthMiddleware(lr.jwtSecret))

	logs.GET("", lr.handler.GetLogs)
}
