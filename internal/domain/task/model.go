package task

import (
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work on the board. Status, AssignedTo and LastModified
// are written exclusively through the mutation service; LastModified is the
// sole authority for conflict detection.
type Task struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	Status       Status     `json:"status" gorm:"not null;default:'todo';index:idx_task_status"`
	Priority     Priority   `json:"priority" gorm:"not null;default:'low';index:idx_task_priority"`
	AssignedTo   *uuid.UUID `json:"assigned_to,omitempty" gorm:"type:uuid;index:idx_task_assignee"`
	LastModified time.Time  `json:"last_modified" gorm:"not null;index:idx_task_modified"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null"`

	// Assignee is filled on the read side, never persisted.
	Assignee *user.Ref `json:"assignee,omitempty" gorm:"-"`
}

// TableName specifies the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// Validate checks if the task data is valid
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidInput
	}
	if !t.Status.IsValid() {
		return ErrInvalidInput
	}
	if !t.Priority.IsValid() {
		return ErrInvalidInput
	}
	return nil
}

// BeforeCreate is called before creating a new task record
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityLow
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.LastModified.IsZero() {
		t.LastModified = time.Now()
	}
	return t.Validate()
}
