package handlers

import (
	"errors"
	"net/http"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/dto"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/middleware"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/task"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TaskHandler handles HTTP requests for board tasks
type TaskHandler struct {
	service task.Service
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(service task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := task.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      task.Status(req.Status),
		Priority:    task.Priority(req.Priority),
		AssignedTo:  req.AssignedTo,
		Performer:   principalToRef(principal),
	}

	created, err := h.service.CreateTask(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, task.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, TaskToResponse(created))
}

// GetTask handles GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	found, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch task"})
		return
	}

	c.JSON(http.StatusOK, TaskToResponse(found))
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{Tasks: TasksToResponse(tasks)})
}

// UpdateTask handles PUT /api/tasks/:id. A stale write is answered with
// 409 and a payload carrying both the server's current copy and the
// changes that were rejected.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := task.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedTo:   assigneePatch(req.AssignedTo),
		LastModified: req.LastModified,
		Performer:    principalToRef(principal),
	}
	if req.Status != nil {
		status := task.Status(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := task.Priority(*req.Priority)
		input.Priority = &priority
	}

	updated, err := h.service.UpdateTask(c.Request.Context(), id, input)
	if err != nil {
		var conflict *task.ConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, dto.ConflictResponse{
				Message:          conflict.Error(),
				CurrentTask:      TaskToResponse(conflict.CurrentTask),
				AttemptedChanges: req,
			})
		case errors.Is(err, task.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, task.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, TaskToResponse(updated))
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	if err := h.service.DeleteTask(c.Request.Context(), id, principalToRef(principal)); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}

func assigneePatch(sel dto.AssigneeSelector) task.AssigneePatch {
	switch {
	case !sel.Provided():
		return task.AssigneeUnchanged()
	case sel.IsNull():
		return task.AssigneeRebalance()
	case sel.IsCleared():
		return task.AssigneeClear()
	default:
		return task.AssigneeSet(sel.UserID())
	}
}
