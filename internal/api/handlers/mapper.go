package handlers

import (
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/dto"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/auditlog"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/task"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/security/auth"
)

func refToAssignee(ref *user.Ref) *dto.AssigneeResponse {
	if ref == nil {
		return nil
	}
	return &dto.AssigneeResponse{
		ID:       ref.ID,
		Username: ref.Username,
		Email:    ref.Email,
	}
}

// TaskToResponse converts a domain task to its API representation
func TaskToResponse(t *task.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		AssignedTo:   t.AssignedTo,
		Assignee:     refToAssignee(t.Assignee),
		LastModified: t.LastModified,
		CreatedAt:    t.CreatedAt,
	}
}

// TasksToResponse converts a list of domain tasks
func TasksToResponse(tasks []task.Task) []dto.TaskResponse {
	responses := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, TaskToResponse(&tasks[i]))
	}
	return responses
}

// UserToResponse converts a domain user to its API representation
func UserToResponse(u *user.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// LogToResponse converts an audit entry to its API representation
func LogToResponse(l *auditlog.ActionLog) dto.ActionLogResponse {
	return dto.ActionLogResponse{
		ID:          l.ID,
		Action:      string(l.Action),
		TaskID:      l.TaskID,
		PerformedBy: l.PerformedBy,
		Performer:   refToAssignee(l.Performer),
		Details:     l.Details,
		CreatedAt:   l.CreatedAt,
	}
}

func principalToRef(p auth.Principal) user.Ref {
	return user.Ref{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
	}
}
