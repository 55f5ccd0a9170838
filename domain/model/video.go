package model

import "time"

// Video is the edited-content record produced by the upload/transcode
// subsystem. Only the fields the publish path reads are modelled here.
type Video struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	FilePath  string    `json:"file_path"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
