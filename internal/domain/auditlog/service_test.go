package auditlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/user"
	"github.com/SubhanAlom009/realtime-kanban-backend/internal/infrastructure/realtime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLogRepo struct {
	entries   []ActionLog
	createErr error
}

func (r *fakeLogRepo) Create(ctx context.Context, entry *ActionLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) FindAll(ctx context.Context) ([]ActionLog, error) {
	// Newest first, matching the real query
	reversed := make([]ActionLog, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		reversed = append(reversed, r.entries[i])
	}
	return reversed, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error) {
	var found []user.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found = append(found, u)
		}
	}
	return found, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]user.User, error) {
	var all []user.User
	for _, u := range r.users {
		all = append(all, u)
	}
	return all, nil
}

func newTestService() (Service, *fakeLogRepo, *fakeUserRepo, *realtime.Hub) {
	repo := &fakeLogRepo{}
	users := &fakeUserRepo{users: make(map[uuid.UUID]user.User)}
	hub := realtime.NewHub(16)
	return NewService(repo, users, hub, zap.NewNop()), repo, users, hub
}

func TestRecordAppendsAndBroadcasts(t *testing.T) {
	svc, repo, users, hub := newTestService()

	performer := user.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	users.users[performer.ID] = performer

	eventChan, cancel, err := hub.Subscribe()
	require.NoError(t, err)
	defer cancel()

	taskID := uuid.New()
	svc.Record(context.Background(), RecordInput{
		Action:      ActionMove,
		TaskID:      taskID,
		PerformedBy: performer.ID,
		Details:     `moved "deploy" from todo → done`,
	})

	require.Len(t, repo.entries, 1)
	assert.Equal(t, ActionMove, repo.entries[0].Action)
	assert.Equal(t, taskID, repo.entries[0].TaskID)

	select {
	case event := <-eventChan:
		assert.Equal(t, "log_created", event.Name)
		entry, ok := event.Payload.(*ActionLog)
		require.True(t, ok)
		require.NotNil(t, entry.Performer)
		assert.Equal(t, "alice", entry.Performer.Username)
	case <-time.After(time.Second):
		t.Fatal("expected a log_created event")
	}
}

func TestRecordSwallowsPersistenceFailure(t *testing.T) {
	svc, repo, _, hub := newTestService()
	repo.createErr = errors.New("disk full")

	eventChan, cancel, err := hub.Subscribe()
	require.NoError(t, err)
	defer cancel()

	// Must not panic and must not broadcast
	svc.Record(context.Background(), RecordInput{
		Action:      ActionAdd,
		TaskID:      uuid.New(),
		PerformedBy: uuid.New(),
		Details:     "created \"x\"",
	})

	select {
	case <-eventChan:
		t.Fatal("failed record must not be broadcast")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRecordWithUnknownPerformer(t *testing.T) {
	svc, repo, _, _ := newTestService()

	// Entry is still persisted even when the performer cannot be resolved
	svc.Record(context.Background(), RecordInput{
		Action:      ActionDelete,
		TaskID:      uuid.New(),
		PerformedBy: uuid.New(),
		Details:     "deleted \"x\"",
	})

	require.Len(t, repo.entries, 1)
}

func TestListLogsNewestFirstWithPerformers(t *testing.T) {
	svc, _, users, _ := newTestService()

	performer := user.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	users.users[performer.ID] = performer

	svc.Record(context.Background(), RecordInput{
		Action: ActionAdd, TaskID: uuid.New(), PerformedBy: performer.ID, Details: "first",
	})
	svc.Record(context.Background(), RecordInput{
		Action: ActionEdit, TaskID: uuid.New(), PerformedBy: performer.ID, Details: "second",
	})

	logs, err := svc.ListLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "second", logs[0].Details)
	assert.Equal(t, "first", logs[1].Details)
	for _, entry := range logs {
		require.NotNil(t, entry.Performer)
		assert.Equal(t, "bob", entry.Performer.Username)
	}
}
