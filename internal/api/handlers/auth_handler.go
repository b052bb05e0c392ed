package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/dto"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/middleware"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/config"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/security/auth"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	users user.Service
	cfg   config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users user.Service, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.users.CreateUser(c.Request.Context(), user.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) || errors.Is(err, user.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	token, err := auth.GenerateToken(created.ID, created.Username, created.Email,
		h.cfg.JWTSecret, h.cfg.JWTIssuer, h.cfg.JWTExpiryHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  UserToResponse(created),
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authenticated, err := h.users.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	token, err := auth.GenerateToken(authenticated.ID, authenticated.Username, authenticated.Email,
		h.cfg.JWTSecret, h.cfg.JWTIssuer, h.cfg.JWTExpiryHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  UserToResponse(authenticated),
	})
}

// Logout handles GET /api/auth/logout by blacklisting the presented token
// until its natural expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.GetToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	claims, err := auth.ValidateToken(token, h.cfg.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	expiry := time.Now().Add(time.Duration(h.cfg.JWTExpiryHours) * time.Hour)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	auth.GetTokenBlacklist().AddToBlacklist(token, expiry)

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// ListUsers handles GET /api/auth/all
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserToResponse(&users[i]))
	}

	c.JSON(http.StatusOK, dto.UserListResponse{Users: responses})
}
