package task

import (
	"context"
	"fmt"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/auditlog"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/events"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// conflictTolerance is the window within which a client's last-known
// modification time may lag the server's without the update being treated
// as a stale write. Wall-clock comparison, so client/server skew inside
// the window passes silently.
const conflictTolerance = 500 * time.Millisecond

type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	Performer   user.Ref   `json:"-"`
}

type UpdateTaskInput struct {
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Status       *Status       `json:"status,omitempty"`
	Priority     *Priority     `json:"priority,omitempty"`
	AssignedTo   AssigneePatch `json:"-"`
	LastModified *time.Time    `json:"last_modified,omitempty"`
	Performer    user.Ref      `json:"-"`
}

// BoardPublisher pushes cache-invalidation signals to other instances.
type BoardPublisher interface {
	PublishBoardEvent(ctx context.Context, event *events.BoardEvent) error
}

type Service interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context) ([]Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID, performer user.Ref) error
}

type service struct {
	repo   Repository
	users  user.Repository
	audit  auditlog.Service
	hub    *realtime.Hub
	board  BoardPublisher
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, audit auditlog.Service, hub *realtime.Hub, board BoardPublisher, logger *zap.Logger) Service {
	return &service{repo: repo, users: users, audit: audit, hub: hub, board: board, logger: logger}
}

func (s *service) CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, ErrInvalidInput
	}
	if input.Status == "" {
		input.Status = StatusTodo
	}
	if input.Priority == "" {
		input.Priority = PriorityLow
	}
	if !input.Status.IsValid() || !input.Priority.IsValid() {
		return nil, ErrInvalidInput
	}

	task := &Task{
		ID:           uuid.New(),
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		AssignedTo:   input.AssignedTo,
		LastModified: time.Now(),
		CreatedAt:    time.Now(),
	}

	autoAssignedTo := ""
	if input.AssignedTo == nil {
		assignee, err := s.leastLoadedUser(ctx)
		if err != nil {
			return nil, err
		}
		if assignee != nil {
			id := assignee.ID
			task.AssignedTo = &id
			autoAssignedTo = assignee.Username
		}
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("created %q", task.Title)
	if autoAssignedTo != "" {
		details = fmt.Sprintf("created %q (auto-assigned to %s)", task.Title, autoAssignedTo)
	}
	s.audit.Record(ctx, auditlog.RecordInput{
		Action:      auditlog.ActionAdd,
		TaskID:      task.ID,
		PerformedBy: input.Performer.ID,
		Details:     details,
	})

	if err := s.hub.Publish(events.EventTaskCreated, task); err != nil {
		s.logger.Error("Failed to publish task_created event", zap.Error(err))
	}
	s.publishBoardEvent(ctx, events.EventTaskCreated, task.ID, input.Performer.ID)

	return task, nil
}

func (s *service) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.enrichAssignees(ctx, []*Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *service) ListTasks(ctx context.Context) ([]Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]*Task, len(tasks))
	for i := range tasks {
		refs[i] = &tasks[i]
	}
	if err := s.enrichAssignees(ctx, refs); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *service) UpdateTask(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Optimistic concurrency: only clients that supply their last-known
	// modification time are protected, and only beyond the tolerance window.
	if input.LastModified != nil {
		if task.LastModified.Sub(*input.LastModified) > conflictTolerance {
			return nil, &ConflictError{CurrentTask: task, Attempted: input}
		}
	}

	oldStatus := task.Status

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrInvalidInput
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, ErrInvalidInput
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidInput
		}
		task.Priority = *input.Priority
	}

	switch input.AssignedTo.kind {
	case assigneeUnchanged:
	case assigneeSet:
		id := input.AssignedTo.id
		task.AssignedTo = &id
	case assigneeClear:
		task.AssignedTo = nil
	case assigneeRebalance:
		assignee, err := s.leastLoadedUser(ctx)
		if err != nil {
			return nil, err
		}
		if assignee != nil {
			id := assignee.ID
			task.AssignedTo = &id
		} else {
			task.AssignedTo = nil
		}
	}

	// Stamped unconditionally: even a no-op update advances LastModified.
	task.LastModified = time.Now()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	action := auditlog.ActionEdit
	details := fmt.Sprintf("edited %q", task.Title)
	if oldStatus != task.Status {
		action = auditlog.ActionMove
		details = fmt.Sprintf("moved %q from %s → %s", task.Title, oldStatus, task.Status)
	}
	s.audit.Record(ctx, auditlog.RecordInput{
		Action:      action,
		TaskID:      task.ID,
		PerformedBy: input.Performer.ID,
		Details:     details,
	})

	if err := s.hub.Publish(events.EventTaskUpdated, task); err != nil {
		s.logger.Error("Failed to publish task_updated event", zap.Error(err))
	}
	s.publishBoardEvent(ctx, events.EventTaskUpdated, task.ID, input.Performer.ID)

	return task, nil
}

func (s *service) DeleteTask(ctx context.Context, id uuid.UUID, performer user.Ref) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, auditlog.RecordInput{
		Action:      auditlog.ActionDelete,
		TaskID:      task.ID,
		PerformedBy: performer.ID,
		Details:     fmt.Sprintf("deleted %q", task.Title),
	})

	// Deletion broadcasts the identifier only, not the full object.
	if err := s.hub.Publish(events.EventTaskDeleted, task.ID); err != nil {
		s.logger.Error("Failed to publish task_deleted event", zap.Error(err))
	}
	s.publishBoardEvent(ctx, events.EventTaskDeleted, task.ID, performer.ID)

	return nil
}

// enrichAssignees fills the read-side assignee projection for each task
// that has one.
func (s *service) enrichAssignees(ctx context.Context, tasks []*Task) error {
	ids := make([]uuid.UUID, 0, len(tasks))
	seen := make(map[uuid.UUID]struct{}, len(tasks))
	for _, t := range tasks {
		if t.AssignedTo != nil {
			if _, ok := seen[*t.AssignedTo]; !ok {
				seen[*t.AssignedTo] = struct{}{}
				ids = append(ids, *t.AssignedTo)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	assignees, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	refs := make(map[uuid.UUID]user.Ref, len(assignees))
	for i := range assignees {
		refs[assignees[i].ID] = assignees[i].AsRef()
	}

	for _, t := range tasks {
		if t.AssignedTo != nil {
			if ref, ok := refs[*t.AssignedTo]; ok {
				r := ref
				t.Assignee = &r
			}
		}
	}
	return nil
}

func (s *service) publishBoardEvent(ctx context.Context, action string, taskID, userID uuid.UUID) {
	if s.board == nil {
		return
	}
	event := &events.BoardEvent{
		Action:    action,
		TaskID:    taskID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.board.PublishBoardEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish board event", zap.Error(err))
	}
}
