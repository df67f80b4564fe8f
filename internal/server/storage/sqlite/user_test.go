package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
)

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tests := []struct {
		user *models.User
		name string
	}{
		{
			name: "create active user",
			user: &models.User{
				ID:           uuid.New().String(),
				Email:        "alice@example.com",
				PasswordHash: "$2a$10$hash",
				IsActive:     true,
				CreatedAt:    time.Now().UTC(),
			},
		},
		{
			name: "create inactive user",
			user: &models.User{
				ID:           uuid.New().String(),
				Email:        "bob@example.com",
				PasswordHash: "$2a$10$other",
				IsActive:     false,
				CreatedAt:    time.Now().UTC(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.CreateUser(ctx, tt.user))

			retrieved, err := s.GetUserByID(ctx, tt.user.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, retrieved.ID)
			assert.Equal(t, tt.user.Email, retrieved.Email)
			assert.Equal(t, tt.user.PasswordHash, retrieved.PasswordHash)
			assert.Equal(t, tt.user.IsActive, retrieved.IsActive)
			assert.WithinDuration(t, tt.user.CreatedAt, retrieved.CreatedAt, time.Second)
		})
	}
}

func TestUserStorage_CreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	first := newTestUser("dup@example.com")
	require.NoError(t, s.CreateUser(ctx, first))

	second := newTestUser("dup@example.com")
	err := s.CreateUser(ctx, second)
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)

	_, err = s.GetUserByID(ctx, second.ID)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_CreateUser_EmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.CreateUser(ctx, newTestUser("Carol@example.com")))
	require.NoError(t, s.CreateUser(ctx, newTestUser("carol@example.com")))

	_, err := s.GetUserByEmail(ctx, "CAROL@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_GetUserByEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := newTestUser("dave@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	tests := []struct {
		wantError error
		name      string
		email     string
	}{
		{name: "existing user", email: "dave@example.com"},
		{name: "unknown user", email: "nobody@example.com", wantError: storage.ErrUserNotFound},
		{name: "empty email", email: "", wantError: storage.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetUserByEmail(ctx, tt.email)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, user.PasswordHash, got.PasswordHash)
		})
	}
}

func TestUserStorage_GetUserByID_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	got, err := s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.Nil(t, got)
}

func TestStorage_Ping(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	assert.NoError(t, s.Ping(context.Background()))
}

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func newTestUser(email string) *models.User {
	return &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: "$2a$10$hash",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}
