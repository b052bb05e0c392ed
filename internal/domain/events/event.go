package events

import (
	"time"

	"github.com/google/uuid"
)

// Board event names, one per task-board state change
const (
	EventTaskCreated = "task_created"
	EventTaskUpdated = "task_updated"
	EventTaskDeleted = "task_deleted"
	EventLogCreated  = "log_created"
)

// Event is the envelope fanned out to connected board clients.
type Event struct {
	Name      string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// New builds an event stamped with the current time.
func New(name string, payload interface{}) Event {
	return Event{
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// BoardEventChannel is the Redis channel for board cache-invalidation events
const BoardEventChannel = "board:events"

// BoardEvent signals other instances that cached board reads are stale.
type BoardEvent struct {
	Action    string      `json:"action"`
	TaskID    uuid.UUID   `json:"task_id"`
	UserID    uuid.UUID   `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}
