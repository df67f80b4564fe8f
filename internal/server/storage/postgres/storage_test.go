package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
)

const (
	insertUserQuery  = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*password_hash,\s*is_active,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	selectByEmail    = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*is_active,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	selectByID       = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*is_active,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	insertAudioQuery = `(?s)^INSERT\s+INTO\s+audio_files\s*\(id,\s*owner_id,\s*filename,\s*filepath,\s*size,\s*created_at\)`
	selectAudioByID  = `(?s)^SELECT\s+id,\s*owner_id,\s*filename,\s*filepath,\s*size,\s*created_at\s+FROM\s+audio_files\s+WHERE\s+id\s*=\s*\$1\s*$`
	selectAudioByOwn = `(?s)^SELECT\s+id,\s*owner_id,\s*filename,\s*filepath,\s*size,\s*created_at\s+FROM\s+audio_files\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`
)

var userColumns = []string{"id", "email", "password_hash", "is_active", "created_at"}

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return New(db), mock
}

func TestCreateUser(t *testing.T) {
	now := time.Now()
	user := &models.User{ID: "u-1", Email: "alice@example.com", PasswordHash: "$2a$10$x", IsActive: true, CreatedAt: now}

	tests := []struct {
		dbErr   error
		wantErr error
		name    string
	}{
		{name: "success"},
		{name: "unique violation", dbErr: &pgconn.PgError{Code: "23505"}, wantErr: storage.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			exp := mock.ExpectExec(insertUserQuery).
				WithArgs(user.ID, user.Email, user.PasswordHash, user.IsActive, now)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := s.CreateUser(context.Background(), user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateUser_OtherDBError(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(insertUserQuery).
		WillReturnError(&pgconn.PgError{Code: "23502"})

	err := s.CreateUser(context.Background(), &models.User{ID: "u-1", Email: "a@b.c"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrUserAlreadyExists)
	assert.Contains(t, err.Error(), "db error")
}

func TestGetUserByEmail(t *testing.T) {
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(selectByEmail).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u-1", "alice@example.com", "hash", true, now))

		got, err := s.GetUserByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u-1", got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
		assert.True(t, got.IsActive)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(selectByEmail).
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetUserByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(selectByEmail).
			WithArgs("alice@example.com").
			WillReturnError(errors.New("db down"))

		_, err := s.GetUserByEmail(context.Background(), "alice@example.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrUserNotFound)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestGetUserByID_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)
	mock.ExpectQuery(selectByID).
		WithArgs("u-404").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetUserByID(context.Background(), "u-404")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestCreateAudioFile(t *testing.T) {
	s, mock := newStorageWithMock(t)
	now := time.Now()
	file := &models.AudioFile{ID: "f-1", OwnerID: "u-1", Filename: "a.mp3", Filepath: "uploads/a.mp3", Size: 10, CreatedAt: now}

	mock.ExpectExec(insertAudioQuery).
		WithArgs("f-1", "u-1", "a.mp3", "uploads/a.mp3", int64(10), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.CreateAudioFile(context.Background(), file))
}

func TestGetAudioFile_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)
	mock.ExpectQuery(selectAudioByID).
		WithArgs("f-404").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetAudioFile(context.Background(), "f-404")
	assert.ErrorIs(t, err, storage.ErrAudioFileNotFound)
}

func TestGetUserAudioFiles(t *testing.T) {
	s, mock := newStorageWithMock(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "owner_id", "filename", "filepath", "size", "created_at"}).
		AddRow("f-2", "u-1", "b.wav", "uploads/b.wav", int64(20), now).
		AddRow("f-1", "u-1", "a.mp3", "uploads/a.mp3", int64(10), now.Add(-time.Minute))
	mock.ExpectQuery(selectAudioByOwn).WithArgs("u-1").WillReturnRows(rows)

	files, err := s.GetUserAudioFiles(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "b.wav", files[0].Filename)
	assert.Equal(t, int64(10), files[1].Size)
}

func TestGetUserAudioFiles_Empty(t *testing.T) {
	s, mock := newStorageWithMock(t)
	mock.ExpectQuery(selectAudioByOwn).
		WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "filename", "filepath", "size", "created_at"}))

	files, err := s.GetUserAudioFiles(context.Background(), "u-2")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	assert.NoError(t, New(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
