package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/repurposer/internal/models"
)

type ScheduledPostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) error
	GetByID(ctx context.Context, id string) (*models.ScheduledPost, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.ScheduledPost, error)
	ListByUserIDBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.ScheduledPost, error)
	ListPendingByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.ScheduledPost, error)
	UpdatePostStatus(ctx context.Context, postID, from, to string) (bool, error)
	UpdateSchedule(ctx context.Context, postID, content string, scheduledFor time.Time) error
	CheckByUserID(ctx context.Context, postID, userID string) (bool, error)
	Remove(ctx context.Context, id string) error
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

const scheduledPostColumns = `id, user_id, platform, content, scheduled_for, status,
	COALESCE(original_content_id::text, ''), COALESCE(repurposed_content_id::text, ''), created_at, updated_at`

func (r *scheduledPostRepository) Create(ctx context.Context, tx *sql.Tx, post *models.ScheduledPost) error {
	query := `
		INSERT INTO scheduled_posts (user_id, platform, content, scheduled_for, status, original_content_id, repurposed_content_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	args := []any{
		post.UserID,
		post.Platform,
		post.Content,
		post.ScheduledFor,
		post.Status,
		nullIfEmpty(post.OriginalContentID),
		nullIfEmpty(post.RepurposedContentID),
	}

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id string) (*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE id = $1`

	post, err := scanScheduledPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *scheduledPostRepository) ListByUserID(ctx context.Context, userID string) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + scheduledPostColumns + ` FROM scheduled_posts WHERE user_id = $1 ORDER BY scheduled_for ASC`
	return r.list(ctx, query, userID)
}

// ListByUserIDBetween returns posts scheduled in [from, to).
func (r *scheduledPostRepository) ListByUserIDBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.ScheduledPost, error) {
	query := `
		SELECT ` + scheduledPostColumns + `
		FROM scheduled_posts
		WHERE user_id = $1 AND scheduled_for >= $2 AND scheduled_for < $3
		ORDER BY scheduled_for ASC
	`
	return r.list(ctx, query, userID, from, to)
}

// ListPendingByTimeInterval returns pending posts due before finalTime,
// including overdue ones.
func (r *scheduledPostRepository) ListPendingByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.ScheduledPost, error) {
	query := `
		SELECT ` + scheduledPostColumns + `
		FROM scheduled_posts
		WHERE status = $1
		AND ((scheduled_for BETWEEN $2 AND $3) OR (scheduled_for < $2))
		ORDER BY scheduled_for ASC
	`
	return r.list(ctx, query, models.PostStatusPending, initialTime, finalTime)
}

func (r *scheduledPostRepository) list(ctx context.Context, query string, args ...any) ([]*models.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []*models.ScheduledPost{}
	for rows.Next() {
		post, err := scanScheduledPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

// UpdatePostStatus moves a post from one status to another. It reports false
// when the post was not in the from status, so only one caller wins a claim.
func (r *scheduledPostRepository) UpdatePostStatus(ctx context.Context, postID, from, to string) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), postID, from)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return n == 1, nil
}

// UpdateSchedule only touches pending posts.
func (r *scheduledPostRepository) UpdateSchedule(ctx context.Context, postID, content string, scheduledFor time.Time) error {
	query := `
		UPDATE scheduled_posts
		SET content = $1,
			scheduled_for = $2,
			updated_at = $3
		WHERE id = $4 AND status = $5
	`
	_, err := r.db.ExecContext(ctx, query, content, scheduledFor, time.Now(), postID, models.PostStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) CheckByUserID(ctx context.Context, postID, userID string) (bool, error) {
	query := "SELECT 1 FROM scheduled_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *scheduledPostRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM scheduled_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func scanScheduledPost(s scanner) (*models.ScheduledPost, error) {
	var post models.ScheduledPost
	err := s.Scan(
		&post.ID,
		&post.UserID,
		&post.Platform,
		&post.Content,
		&post.ScheduledFor,
		&post.Status,
		&post.OriginalContentID,
		&post.RepurposedContentID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
