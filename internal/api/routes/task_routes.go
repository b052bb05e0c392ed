package routes

import (
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/handlers"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// TaskRoutes handles the setup of task-related routes
type TaskRoutes struct {
	handler   *handlers.TaskHandler
	jwtSecret string
}

// NewTaskRoutes creates a new TaskRoutes instance
func NewTaskRoutes(handler *handlers.TaskHandler, jwtSecret string) *TaskRoutes {
	return &TaskRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all task-related routes
func (r *TaskRoutes) RegisterRoutes(router *gin.Engine, cache *middleware.CacheMiddleware) {
	metrics := middleware.NewMetricsMiddleware()

	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	tasks.Use(metrics.CollectMetrics())

	// Read operations with caching
	tasks.GET("", cache.CacheResponse(), r.handler.ListTasks)
	tasks.GET("/:id", cache.CacheResponse(), r.handler.GetTask)

	// Write operations with cache invalidation
	tasks.POST("", cache.CacheInvalidate("/api/tasks*"), r.handler.CreateTask)
	tasks.PUT("/:id", cache.CacheInvalidate("/api/tasks*"), r.handler.UpdateTask)
	tasks.DELETE("/:id", cache.CacheInvalidate("/api/tasks*"), r.handler.DeleteTask)
}
