package routes

import (
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/handlers"
	"github.com/gin-gonic/gin"
)

// BoardRoutes handles the setup of the realtime board stream
type BoardRoutes struct {
	handler *handlers.BoardHandler
}

// NewBoardRoutes creates a new BoardRoutes instance
func NewBoardRoutes(handler *handlers.BoardHandler) *BoardRoutes {
	return &BoardRoutes{handler: handler}
}

// RegisterRoutes registers the websocket endpoint. Token validation happens
// in the handler because websocket clients pass credentials via query.
func (br *BoardRoutes) RegisterRoutes(router *gin.Engine) {
	board := router.Group("/api/board")
	board.GET("/ws", br.handler.Stream)
}
