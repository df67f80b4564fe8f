package models

import "time"

// AudioFile describes an uploaded audio blob and its owner.
type AudioFile struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Filename  string    `json:"filename"`
	Filepath  string    `json:"filepath"` // key inside the blob store, e.g. "uploads/track.mp3"
	Size      int64     `json:"size"`
}
