package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/repurposer/internal/models"
)

type OriginalContentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, oc *models.OriginalContent) error
	GetByID(ctx context.Context, id string) (*models.OriginalContent, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.OriginalContent, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

type originalContentRepository struct {
	db *sql.DB
}

func NewOriginalContentRepository(db *sql.DB) OriginalContentRepository {
	return &originalContentRepository{db: db}
}

const originalContentColumns = `id, user_id, title, content_type, content_url, content_text, file_path, file_type, created_at, updated_at`

func (r *originalContentRepository) Create(ctx context.Context, tx *sql.Tx, oc *models.OriginalContent) error {
	query := `
		INSERT INTO original_content (user_id, title, content_type, content_url, content_text, file_path, file_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	args := []any{oc.UserID, oc.Title, oc.ContentType, oc.ContentURL, oc.ContentText, oc.FilePath, oc.FileType}

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&oc.ID, &oc.CreatedAt, &oc.UpdatedAt)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&oc.ID, &oc.CreatedAt, &oc.UpdatedAt)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *originalContentRepository) GetByID(ctx context.Context, id string) (*models.OriginalContent, error) {
	query := `SELECT ` + originalContentColumns + ` FROM original_content WHERE id = $1`

	oc, err := scanOriginalContent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return oc, nil
}

func (r *originalContentRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.OriginalContent, error) {
	query := `
		SELECT ` + originalContentColumns + `
		FROM original_content
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	items := []*models.OriginalContent{}
	for rows.Next() {
		oc, err := scanOriginalContent(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, oc)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return items, nil
}

func (r *originalContentRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM original_content WHERE user_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOriginalContent(s scanner) (*models.OriginalContent, error) {
	var oc models.OriginalContent
	err := s.Scan(
		&oc.ID,
		&oc.UserID,
		&oc.Title,
		&oc.ContentType,
		&oc.ContentURL,
		&oc.ContentText,
		&oc.FilePath,
		&oc.FileType,
		&oc.CreatedAt,
		&oc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &oc, nil
}
