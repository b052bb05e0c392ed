package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/realtime"
	"github.com/SubhanAlom009/realtime-kanban-backend/pkg/security/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const boardTestSecret = "board-test-secret"

func setupBoardServer(t *testing.T, hub *realtime.Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewBoardHandler(hub, boardTestSecret, zap.NewNop())
	router.GET("/api/board/ws", handler.Stream)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func boardURL(srv *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/board/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func TestBoardStreamDeliversEvents(t *testing.T) {
	hub := realtime.NewHub(4)
	srv := setupBoardServer(t, hub)

	token, err := auth.GenerateToken(uuid.New(), "alice", "alice@example.com", boardTestSecret, "kanban", 1)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(boardURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	// Inbound client data is drained, not acted on; it must not kill the stream
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ignored")))

	require.NoError(t, hub.Publish("task_updated", map[string]string{"id": uuid.NewString()}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event struct {
		Name string `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "task_updated", event.Name)
}

func TestBoardStreamClosesSubscription(t *testing.T) {
	hub := realtime.NewHub(4)
	srv := setupBoardServer(t, hub)

	token, err := auth.GenerateToken(uuid.New(), "alice", "alice@example.com", boardTestSecret, "kanban", 1)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(boardURL(srv, token), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBoardStreamRejectsBadCredentials(t *testing.T) {
	hub := realtime.NewHub(4)
	srv := setupBoardServer(t, hub)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, resp, err := websocket.DefaultDialer.Dial(boardURL(srv, tt.token), nil)
			require.Error(t, err)
			require.Nil(t, conn)
			require.NotNil(t, resp)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}
