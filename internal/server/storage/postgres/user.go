package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
)

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, email, password_hash, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, is_active, created_at FROM users
		 WHERE email = $1
		 `

	return s.getUser(ctx, query, email)
}

func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, is_active, created_at FROM users
		 WHERE id = $1
		 `

	return s.getUser(ctx, query, userID)
}

func (s *Storage) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
