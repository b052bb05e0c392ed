package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	users []User
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			copied := r.users[i]
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			copied := r.users[i]
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			copied := r.users[i]
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error) {
	var found []User
	for _, id := range ids {
		for i := range r.users {
			if r.users[i].ID == id {
				found = append(found, r.users[i])
			}
		}
	}
	return found, nil
}

func (r *fakeRepo) FindAll(ctx context.Context) ([]User, error) {
	return append([]User(nil), r.users...), nil
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a user with a hashed password", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, zap.NewNop())

		created, err := svc.CreateUser(ctx, CreateUserInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", created.Username)
		assert.NotEqual(t, "secret123", created.PasswordHash)
		assert.NotEmpty(t, created.PasswordHash)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, zap.NewNop())

		_, err := svc.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "a@example.com", Password: "pw123456"})
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, CreateUserInput{Username: "other", Email: "a@example.com", Password: "pw123456"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, zap.NewNop())

		_, err := svc.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "a@example.com", Password: "pw123456"})
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "b@example.com", Password: "pw123456"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, zap.NewNop())

		_, err := svc.CreateUser(ctx, CreateUserInput{Username: "alice"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAuthenticateUser(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	_, err := svc.CreateUser(ctx, CreateUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		authenticated, err := svc.AuthenticateUser(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "alice", authenticated.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.AuthenticateUser(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.AuthenticateUser(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	svc := NewService(repo, zap.NewNop())

	created, err := svc.CreateUser(ctx, CreateUserInput{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	found, err := svc.GetUser(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetUser(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
