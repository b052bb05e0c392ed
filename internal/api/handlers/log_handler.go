package handlers

import (
	"net/http"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/dto"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/auditlog"
	"github.com/gin-gonic/gin"
)

// LogHandler handles HTTP requests for the audit trail
type LogHandler struct {
	service auditlog.Service
}

// NewLogHandler creates a new log handler
func NewLogHandler(service auditlog.Service) *LogHandler {
	return &LogHandler{service: service}
}

// GetLogs handles GET /api/logs, newest entries first
func (h *LogHandler) GetLogs(c *gin.Context) {
	logs, err := h.service.ListLogs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch logs"})
		return
	}

	responses := make([]dto.ActionLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, LogToResponse(&logs[i]))
	}

	c.JSON(http.StatusOK, dto.ActionLogListResponse{Logs: responses})
}
