package auditlog

import (
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action classifies what a mutation did to a task
type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
	ActionEdit   Action = "edit"
	ActionMove   Action = "move"
	ActionAssign Action = "assign"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionAdd, ActionDelete, ActionEdit, ActionMove, ActionAssign:
		return true
	}
	return false
}

// ActionLog is an immutable audit record: one row per successful task
// mutation, appended after the mutation commits and never updated or
// deleted afterwards.
type ActionLog struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Action      Action    `json:"action" gorm:"not null;index:idx_actionlog_action"`
	TaskID      uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index:idx_actionlog_task"`
	PerformedBy uuid.UUID `json:"performed_by" gorm:"type:uuid;not null;index:idx_actionlog_performer"`
	Details     string    `json:"details"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index:idx_actionlog_created"`

	// Performer is filled on the read side, never persisted.
	Performer *user.Ref `json:"performer,omitempty" gorm:"-"`
}

// TableName specifies the table name for the ActionLog model
func (ActionLog) TableName() string {
	return "action_logs"
}

// BeforeCreate is called before creating a new audit record
func (l *ActionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}
