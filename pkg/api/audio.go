package api

import "time"

// AudioFileResponse describes a stored upload
type AudioFileResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Filename  string    `json:"filename"`
	Filepath  string    `json:"filepath"`
	Size      int64     `json:"size"`
}

// AudioFileListResponse is returned by GET /files/
type AudioFileListResponse struct {
	Files []AudioFileResponse `json:"files"`
}

// FileURLResponse is returned by GET /files/{file_name}
type FileURLResponse struct {
	FileURL string `json:"file_url"`
}
