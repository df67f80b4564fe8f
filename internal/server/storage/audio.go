package storage

import (
	"context"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
)

// AudioFileStorage defines interface for audio file metadata persistence
type AudioFileStorage interface {
	// CreateAudioFile inserts a new audio file record
	CreateAudioFile(ctx context.Context, file *models.AudioFile) error

	// GetAudioFile retrieves a record by ID
	// Returns ErrAudioFileNotFound if record doesn't exist
	GetAudioFile(ctx context.Context, id string) (*models.AudioFile, error)

	// GetUserAudioFiles retrieves all records owned by a user, newest first
	// Returns empty slice if no records found
	GetUserAudioFiles(ctx context.Context, ownerID string) ([]*models.AudioFile, error)
}

// Storage combines every repository the server needs
type Storage interface {
	UserStorage
	AudioFileStorage
	Ping(ctx context.Context) error
	Close() error
}
