package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssigneeSelector captures the four wire states of the assigned_to field:
// absent (leave unchanged), JSON null (rebalance), empty string (explicitly
// unassign) and a concrete user id. The distinction is lost with a plain
// *uuid.UUID, so the selector records what the client actually sent.
type AssigneeSelector struct {
	provided bool
	null     bool
	cleared  bool
	id       uuid.UUID
}

// UnmarshalJSON is only invoked when the field is present in the payload.
func (a *AssigneeSelector) UnmarshalJSON(data []byte) error {
	a.provided = true

	if string(data) == "null" {
		a.null = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("assigned_to must be a user ID, empty string or null")
	}
	if s == "" {
		a.cleared = true
		return nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid user ID %q", s)
	}
	a.id = id
	return nil
}

// MarshalJSON round-trips the provided states when a rejected update is
// echoed back to the client. The absent state has no value representation;
// UpdateTaskRequest omits the field entirely in that case.
func (a AssigneeSelector) MarshalJSON() ([]byte, error) {
	switch {
	case !a.provided || a.null:
		return []byte("null"), nil
	case a.cleared:
		return json.Marshal("")
	default:
		return json.Marshal(a.id.String())
	}
}

// Provided reports whether the field was present at all.
func (a AssigneeSelector) Provided() bool { return a.provided }

// IsNull reports an explicit JSON null.
func (a AssigneeSelector) IsNull() bool { return a.null }

// IsCleared reports the empty-string sentinel.
func (a AssigneeSelector) IsCleared() bool { return a.cleared }

// UserID returns the concrete assignee id; only meaningful when the field
// was provided and neither null nor cleared.
func (a AssigneeSelector) UserID() uuid.UUID { return a.id }

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Absent fields are left untouched (partial-update semantics).
type UpdateTaskRequest struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Status       *string          `json:"status,omitempty"`
	Priority     *string          `json:"priority,omitempty"`
	AssignedTo   AssigneeSelector `json:"assigned_to"`
	LastModified *time.Time       `json:"last_modified,omitempty"`
}

// MarshalJSON omits assigned_to when the client never sent it. Rendering
// absence as an explicit null would turn a rejected update's echo into a
// rebalance request on replay.
func (r UpdateTaskRequest) MarshalJSON() ([]byte, error) {
	type updateTaskRequest UpdateTaskRequest
	shadow := struct {
		updateTaskRequest
		AssignedTo *AssigneeSelector `json:"assigned_to,omitempty"`
	}{updateTaskRequest: updateTaskRequest(r)}
	if r.AssignedTo.Provided() {
		shadow.AssignedTo = &r.AssignedTo
	}
	return json.Marshal(shadow)
}

// AssigneeResponse is the enriched assignment reference on read paths
type AssigneeResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Status       string            `json:"status"`
	Priority     string            `json:"priority"`
	AssignedTo   *uuid.UUID        `json:"assigned_to,omitempty"`
	Assignee     *AssigneeResponse `json:"assignee,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	CreatedAt    time.Time         `json:"created_at"`
}

// TaskListResponse represents the response for listing tasks
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// ConflictResponse is returned with HTTP 409 when an update loses the
// optimistic-concurrency race: the caller gets the server's current copy
// alongside the changes that were rejected.
type ConflictResponse struct {
	Message          string            `json:"message"`
	CurrentTask      TaskResponse      `json:"current_task"`
	AttemptedChanges UpdateTaskRequest `json:"attempted_changes"`
}
