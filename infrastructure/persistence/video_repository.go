package persistence

import (
	"context"
	"database/sql"

	"clipcast/domain/model"
	"clipcast/domain/repository"
)

var _ repository.IVideo = (*VideoRepository)(nil)

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	video := &model.Video{}
	err := r.db.QueryRowContext(ctx, `SELECT id, user_id, title, file_path, mime_type, size_bytes, created_at
		FROM videos WHERE id=$1`, id).
		Scan(&video.ID, &video.UserID, &video.Title, &video.FilePath, &video.MimeType, &video.SizeBytes, &video.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.NewPublishError(model.ErrKindContentNotFound, "video not found")
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}
