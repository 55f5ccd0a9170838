package persistence

import (
	"context"
	"database/sql"
	"time"

	"clipcast/domain/model"
	"clipcast/domain/repository"

	"github.com/lib/pq"
)

// Verify interface compliance
var _ repository.IScheduledPost = (*ScheduledPostRepository)(nil)

// ScheduledPostRepository persists publish intents. Status transitions are
// guarded with compare-and-swap updates so concurrent retries cannot both
// claim the same record.
type ScheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) *ScheduledPostRepository {
	return &ScheduledPostRepository{db: db}
}

const scheduledPostColumns = `id, user_id, social_account_id, video_id, caption, hashtags, scheduled_for, status, post_url, platform_post_id, failure_reason, created_at, updated_at`

func (r *ScheduledPostRepository) Create(ctx context.Context, post *model.ScheduledPost) (*model.ScheduledPost, error) {
	now := time.Now().UTC()
	stored := *post
	err := r.db.QueryRowContext(ctx, `INSERT INTO scheduled_posts
		(user_id, social_account_id, video_id, caption, hashtags, scheduled_for, status, post_url, platform_post_id, failure_reason, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
		RETURNING id, created_at, updated_at`,
		post.UserID, post.SocialAccountID, post.VideoID, post.Caption, pq.Array(post.Hashtags), post.ScheduledFor, post.Status,
		post.PostURL, post.PlatformPostID, post.FailureReason, now,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ScheduledPostRepository) GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduledPostColumns+` FROM scheduled_posts WHERE id=$1`, id)
	post, err := scanScheduledPost(row)
	if err == sql.ErrNoRows {
		return nil, model.NewPublishError(model.ErrKindNotFound, "scheduled post not found")
	}
	return post, err
}

func (r *ScheduledPostRepository) List(ctx context.Context, userID string, status *model.PostStatus, page, limit int) ([]*model.ScheduledPost, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	var rows *sql.Rows
	var err error
	if status != nil {
		if err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scheduled_posts WHERE user_id=$1 AND status=$2`, userID, *status).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = r.db.QueryContext(ctx, `SELECT `+scheduledPostColumns+` FROM scheduled_posts
			WHERE user_id=$1 AND status=$2 ORDER BY scheduled_for ASC LIMIT $3 OFFSET $4`, userID, *status, limit, offset)
	} else {
		if err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scheduled_posts WHERE user_id=$1`, userID).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = r.db.QueryContext(ctx, `SELECT `+scheduledPostColumns+` FROM scheduled_posts
			WHERE user_id=$1 ORDER BY scheduled_for ASC LIMIT $2 OFFSET $3`, userID, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*model.ScheduledPost
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, post)
	}
	return list, total, rows.Err()
}

// TryTransition is the idempotency guard for concurrent retries: the UPDATE
// only matches when the record still is in one of the from statuses, so
// exactly one caller wins.
func (r *ScheduledPostRepository) TryTransition(ctx context.Context, id int64, from []model.PostStatus, next model.PostStatus) (bool, error) {
	fromValues := make([]string, 0, len(from))
	for _, s := range from {
		if !s.CanTransitionTo(next) {
			return false, model.NewPublishErrorf(model.ErrKindConflict, "illegal transition %s -> %s", s, next)
		}
		fromValues = append(fromValues, string(s))
	}
	res, err := r.db.ExecContext(ctx, `UPDATE scheduled_posts
		SET status=$1, failure_reason=NULL, updated_at=$2
		WHERE id=$3 AND status = ANY($4)`,
		next, time.Now().UTC(), id, pq.Array(fromValues))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *ScheduledPostRepository) MarkPublished(ctx context.Context, id int64, postURL, platformPostID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scheduled_posts
		SET status=$1, post_url=$2, platform_post_id=$3, failure_reason=NULL, updated_at=$4
		WHERE id=$5`,
		model.PostStatusPublished, postURL, platformPostID, time.Now().UTC(), id)
	return err
}

func (r *ScheduledPostRepository) MarkDraft(ctx context.Context, id int64, postURL string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scheduled_posts
		SET status=$1, post_url=$2, failure_reason=NULL, updated_at=$3
		WHERE id=$4`,
		model.PostStatusDraft, postURL, time.Now().UTC(), id)
	return err
}

func (r *ScheduledPostRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE scheduled_posts
		SET status=$1, failure_reason=$2, updated_at=$3
		WHERE id=$4`,
		model.PostStatusFailed, reason, time.Now().UTC(), id)
	return err
}

func (r *ScheduledPostRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+scheduledPostColumns+` FROM scheduled_posts
		WHERE status=$1 AND scheduled_for <= $2 ORDER BY scheduled_for ASC LIMIT $3`,
		model.PostStatusScheduled, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.ScheduledPost
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, post)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScheduledPost(row rowScanner) (*model.ScheduledPost, error) {
	post := &model.ScheduledPost{}
	var hashtags pq.StringArray
	var postURL, platformPostID, failureReason sql.NullString
	err := row.Scan(
		&post.ID, &post.UserID, &post.SocialAccountID, &post.VideoID,
		&post.Caption, &hashtags, &post.ScheduledFor, &post.Status,
		&postURL, &platformPostID, &failureReason,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	post.Hashtags = []string(hashtags)
	if postURL.Valid {
		post.PostURL = &postURL.String
	}
	if platformPostID.Valid {
		post.PlatformPostID = &platformPostID.String
	}
	if failureReason.Valid {
		post.FailureReason = &failureReason.String
	}
	return post, nil
}
