package routes

import (
	"net/http"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/cache"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/persistence/postgres/connection"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// SetupHealthRoutes registers liveness, readiness and metrics endpoints
func SetupHealthRoutes(router *gin.Engine, db *connection.Database, redis *cache.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		checks := map[string]string{}
		status := http.StatusOK
		overall := "ready"

		if err := db.Ping(); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
			overall = "not ready"
		} else {
			checks["database"] = "ok"
		}

		if redis != nil {
			if err := redis.HealthCheck(c.Request.Context()); err != nil {
				checks["redis"] = err.Error()
			} else {
				checks["redis"] = "ok"
			}
		}

		c.JSON(status, HealthResponse{
			Status:    overall,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
