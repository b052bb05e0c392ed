package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/api/dto"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/task"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTaskService struct {
	createFn func(ctx context.Context, input task.CreateTaskInput) (*task.Task, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*task.Task, error)
	listFn   func(ctx context.Context) ([]task.Task, error)
	updateFn func(ctx context.Context, id uuid.UUID, input task.UpdateTaskInput) (*task.Task, error)
	deleteFn func(ctx context.Context, id uuid.UUID, performer user.Ref) error
}

func (s *stubTaskService) CreateTask(ctx context.Context, input task.CreateTaskInput) (*task.Task, error) {
	return s.createFn(ctx, input)
}

func (s *stubTaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return s.getFn(ctx, id)
}

func (s *stubTaskService) ListTasks(ctx context.Context) ([]task.Task, error) {
	return s.listFn(ctx)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, id uuid.UUID, input task.UpdateTaskInput) (*task.Task, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, id uuid.UUID, performer user.Ref) error {
	return s.deleteFn(ctx, id, performer)
}

func setupRouter(svc task.Service, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if authenticated {
		router.Use(func(c *gin.Context) {
			c.Set("principal", auth.Principal{
				ID:       uuid.New(),
				Username: "alice",
				Email:    "alice@example.com",
			})
		})
	}

	handler := NewTaskHandler(svc)
	router.POST("/api/tasks", handler.CreateTask)
	router.GET("/api/tasks/:id", handler.GetTask)
	router.PUT("/api/tasks/:id", handler.UpdateTask)
	router.DELETE("/api/tasks/:id", handler.DeleteTask)
	return router
}

func TestCreateTaskHandler(t *testing.T) {
	t.Run("returns 201 with the created task", func(t *testing.T) {
		svc := &stubTaskService{
			createFn: func(ctx context.Context, input task.CreateTaskInput) (*task.Task, error) {
				return &task.Task{
					ID:       uuid.New(),
					Title:    input.Title,
					Status:   task.StatusTodo,
					Priority: task.PriorityLow,
				}, nil
			},
		}
		router := setupRouter(svc, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/tasks",
			bytes.NewBufferString(`{"title":"Ship it"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Ship it", resp.Title)
	})

	t.Run("returns 400 when title is missing", func(t *testing.T) {
		svc := &stubTaskService{}
		router := setupRouter(svc, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 401 without a principal", func(t *testing.T) {
		svc := &stubTaskService{}
		router := setupRouter(svc, false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/tasks",
			bytes.NewBufferString(`{"title":"Ship it"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateTaskHandlerConflict(t *testing.T) {
	current := &task.Task{
		ID:           uuid.New(),
		Title:        "server copy",
		Status:       task.StatusInProgress,
		Priority:     task.PriorityHigh,
		LastModified: time.Now(),
	}

	svc := &stubTaskService{
		updateFn: func(ctx context.Context, id uuid.UUID, input task.UpdateTaskInput) (*task.Task, error) {
			return nil, &task.ConflictError{CurrentTask: current, Attempted: input}
		},
	}
	router := setupRouter(svc, true)

	body := `{"title":"my copy","last_modified":"2026-01-01T00:00:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+current.ID.String(),
		bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp dto.ConflictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "server copy", resp.CurrentTask.Title)
	require.NotNil(t, resp.AttemptedChanges.Title)
	assert.Equal(t, "my copy", *resp.AttemptedChanges.Title)

	// The request never touched the assignment; replaying the echoed
	// changes must not read as a rebalance request.
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	var attempted map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(fields["attempted_changes"], &attempted))
	_, present := attempted["assigned_to"]
	assert.False(t, present)
	assert.False(t, resp.AttemptedChanges.AssignedTo.Provided())
}

func TestUpdateTaskHandlerAssigneeMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected task.AssigneePatch
	}{
		{name: "absent means unchanged", body: `{}`, expected: task.AssigneeUnchanged()},
		{name: "null means rebalance", body: `{"assigned_to":null}`, expected: task.AssigneeRebalance()},
		{name: "empty string means clear", body: `{"assigned_to":""}`, expected: task.AssigneeClear()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured task.AssigneePatch
			svc := &stubTaskService{
				updateFn: func(ctx context.Context, id uuid.UUID, input task.UpdateTaskInput) (*task.Task, error) {
					captured = input.AssignedTo
					return &task.Task{ID: id, Title: "t"}, nil
				},
			}
			router := setupRouter(svc, true)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/tasks/"+uuid.NewString(),
				bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, captured)
		})
	}
}

func TestGetTaskHandlerNotFound(t *testing.T) {
	svc := &stubTaskService{
		getFn: func(ctx context.Context, id uuid.UUID) (*task.Task, error) {
			return nil, task.ErrTaskNotFound
		},
	}
	router := setupRouter(svc, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTaskHandler(t *testing.T) {
	t.Run("returns 404 for a missing task", func(t *testing.T) {
		svc := &stubTaskService{
			deleteFn: func(ctx context.Context, id uuid.UUID, performer user.Ref) error {
				return task.ErrTaskNotFound
			},
		}
		router := setupRouter(svc, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/tasks/"+uuid.NewString(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 400 for a malformed id", func(t *testing.T) {
		svc := &stubTaskService{}
		router := setupRouter(svc, true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/tasks/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
