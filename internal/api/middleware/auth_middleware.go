package middleware

import (
	"net/http"
	"strings"

	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/logger"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var log = logger.NewLogger("info")

const (
	bearerSchema = "Bearer "

	principalKey = "principal"
	tokenKey     = "token"
)

// NewAuthMiddleware resolves the authenticated identity from the Bearer
// token. Every core operation runs behind this: no valid identity, no
// request handling.
func NewAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := authHeader[len(bearerSchema):]

		if auth.GetTokenBlacklist().IsBlacklisted(tokenString) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token has been invalidated"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			log.Error("Token validation failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(principalKey, claims.Principal())
		c.Set(tokenKey, tokenString)

		c.Next()
	}
}

// GetPrincipal retrieves the authenticated identity from the context
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}

// GetToken retrieves the raw bearer token from the context
func GetToken(c *gin.Context) (string, bool) {
	value, exists := c.Get(tokenKey)
	if !exists {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}
