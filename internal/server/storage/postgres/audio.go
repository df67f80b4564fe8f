package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
)

func (s *Storage) CreateAudioFile(ctx context.Context, file *models.AudioFile) error {
	query :=
		`INSERT INTO audio_files (id, owner_id, filename, filepath, size, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := s.db.ExecContext(ctx, query,
		file.ID, file.OwnerID, file.Filename, file.Filepath, file.Size, file.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (s *Storage) GetAudioFile(ctx context.Context, id string) (*models.AudioFile, error) {
	query :=
		`SELECT id, owner_id, filename, filepath, size, created_at FROM audio_files
		 WHERE id = $1
		 `

	file := &models.AudioFile{}
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&file.ID, &file.OwnerID, &file.Filename, &file.Filepath, &file.Size, &file.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAudioFileNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (s *Storage) GetUserAudioFiles(ctx context.Context, ownerID string) ([]*models.AudioFile, error) {
	query :=
		`SELECT id, owner_id, filename, filepath, size, created_at FROM audio_files
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	files := make([]*models.AudioFile, 0)
	for rows.Next() {
		file := &models.AudioFile{}
		if err := rows.Scan(&file.ID, &file.OwnerID, &file.Filename, &file.Filepath, &file.Size, &file.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return files, nil
}
