package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/realtime"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// BoardHandler streams board events (task and log changes) to connected
// clients over a websocket.
type BoardHandler struct {
	hub       *realtime.Hub
	jwtSecret string
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

// NewBoardHandler creates a new board stream handler
func NewBoardHandler(hub *realtime.Hub, jwtSecret string, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Stream handles GET /api/board/ws. Browsers cannot set headers on a
// websocket handshake, so the token is also accepted as a query parameter.
func (h *BoardHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	claims, err := auth.ValidateToken(token, h.jwtSecret)
	if err != nil {
		h.logger.Error("WebSocket token validation failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade to WebSocket",
			zap.Error(err),
			zap.String("user_id", claims.UserID.String()))
		return
	}
	defer func() {
		ws.Close()
		h.logger.Info("Board stream closed", zap.String("user_id", claims.UserID.String()))
	}()

	ws.SetReadLimit(1024 * 4)
	ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	eventChan, cancel, err := h.hub.Subscribe()
	if err != nil {
		h.logger.Error("Failed to subscribe to board events",
			zap.Error(err),
			zap.String("user_id", claims.UserID.String()))
		ws.WriteJSON(map[string]interface{}{"error": "failed to subscribe to board events"})
		return
	}
	defer cancel()

	h.logger.Info("Board stream opened",
		zap.String("user_id", claims.UserID.String()),
		zap.String("remote_addr", c.Request.RemoteAddr))

	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	done := make(chan struct{})

	// Drain the client side; inbound data is ignored, the loop only
	// detects the close.
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure) {
					h.logger.Error("WebSocket read error",
						zap.Error(err),
						zap.String("user_id", claims.UserID.String()))
				}
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := ws.WriteJSON(event); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("user_id", claims.UserID.String()))
				return
			}

		case <-pingTicker.C:
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
