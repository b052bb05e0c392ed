package routes

import (
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/handlers"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// AuthRoutes handles the setup of auth-related routes
type AuthRoutes struct {
	handler   *handlers.AuthHandler
	jwtSecret string
}

// NewAuthRoutes creates a new AuthRoutes instance
func NewAuthRoutes(handler *handlers.AuthHandler, jwtSecret string) *AuthRoutes {
	return &AuthRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all auth-related routes
func (ar *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/api/auth")

	authGroup.POST("/register", ar.handler.Register)
	authGroup.POST("/login", ar.handler.Login)

	protected := authGroup.Group("")
	protected.Use(middleware.NewAuthMiddleware(ar.jwtSecret))
	protected.GET("/logout", ar.handler.Logout)
	protected.GET("/all", ar.handler.ListUsers)
}
