package dto

import (
	"time"

	"github.com/google/uuid"
)

// ActionLogResponse represents an audit trail entry in API responses
type ActionLogResponse struct {
	ID          uuid.UUID         `json:"id"`
	Action      string            `json:"action"`
	TaskID      uuid.UUID         `json:"task_id"`
	PerformedBy uuid.UUID         `json:"performed_by"`
	Performer   *AssigneeResponse `json:"performer,omitempty"`
	Details     string            `json:"details"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ActionLogListResponse represents the response for listing audit entries
type ActionLogListResponse struct {
	Logs []ActionLogResponse `json:"logs"`
}
