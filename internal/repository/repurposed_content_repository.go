package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/repurposer/internal/models"
)

type RepurposedContentRepository interface {
	Create(ctx context.Context, tx *sql.Tx, rc *models.RepurposedContent) error
	CreateNextVersion(ctx context.Context, rc *models.RepurposedContent) error
	GetByID(ctx context.Context, id string) (*models.RepurposedContent, error)
	ListByOriginalIDs(ctx context.Context, originalIDs []string) ([]*models.RepurposedContent, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.RepurposedListItem, error)
	SetPublished(ctx context.Context, id string, published bool) error
}

var ErrOriginalNotFound = errors.New("original content not found")

type repurposedContentRepository struct {
	db *sql.DB
}

func NewRepurposedContentRepository(db *sql.DB) RepurposedContentRepository {
	return &repurposedContentRepository{db: db}
}

const repurposedContentColumns = `id, original_content_id, output_type, tone, content, character_count, version, is_published, created_at, updated_at`

// Create inserts rc with the next version number for its (original, platform)
// pair. Callers that may race should hold the original row lock, see
// CreateNextVersion.
func (r *repurposedContentRepository) Create(ctx context.Context, tx *sql.Tx, rc *models.RepurposedContent) error {
	query := `
		INSERT INTO repurposed_content (original_content_id, output_type, tone, content, character_count, version)
		VALUES ($1, $2, $3, $4, $5, (
			SELECT COALESCE(MAX(version), 0) + 1
			FROM repurposed_content
			WHERE original_content_id = $1 AND output_type = $2
		))
		RETURNING id, version, is_published, created_at, updated_at
	`
	args := []any{rc.OriginalContentID, rc.OutputType, rc.Tone, rc.Content, rc.CharacterCount}

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&rc.ID, &rc.Version, &rc.IsPublished, &rc.CreatedAt, &rc.UpdatedAt)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&rc.ID, &rc.Version, &rc.IsPublished, &rc.CreatedAt, &rc.UpdatedAt)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

// CreateNextVersion locks the parent original row so concurrent inserts for
// the same original get distinct, gapless version numbers.
func (r *repurposedContentRepository) CreateNextVersion(ctx context.Context, rc *models.RepurposedContent) (err error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM original_content WHERE id = $1 FOR UPDATE`, rc.OriginalContentID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			err = ErrOriginalNotFound
		}
		slog.Info(err.Error())
		return err
	}

	if err = r.Create(ctx, tx, rc); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *repurposedContentRepository) GetByID(ctx context.Context, id string) (*models.RepurposedContent, error) {
	query := `SELECT ` + repurposedContentColumns + ` FROM repurposed_content WHERE id = $1`

	rc, err := scanRepurposedContent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return rc, nil
}

// ListByOriginalIDs loads the children of several originals in one query,
// ordered by platform then version.
func (r *repurposedContentRepository) ListByOriginalIDs(ctx context.Context, originalIDs []string) ([]*models.RepurposedContent, error) {
	if len(originalIDs) == 0 {
		return []*models.RepurposedContent{}, nil
	}

	query := `
		SELECT ` + repurposedContentColumns + `
		FROM repurposed_content
		WHERE original_content_id = ANY($1)
		ORDER BY original_content_id, output_type, version ASC, created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(originalIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	items := []*models.RepurposedContent{}
	for rows.Next() {
		rc, err := scanRepurposedContent(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, rc)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return items, nil
}

func (r *repurposedContentRepository) ListByUserID(ctx context.Context, userID string) ([]*models.RepurposedListItem, error) {
	query := `
		SELECT rc.id, rc.original_content_id, rc.output_type, rc.tone, rc.content, rc.character_count,
			rc.version, rc.is_published, rc.created_at, rc.updated_at, oc.title, oc.content_type
		FROM repurposed_content rc
		JOIN original_content oc ON oc.id = rc.original_content_id
		WHERE oc.user_id = $1
		ORDER BY rc.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	items := []*models.RepurposedListItem{}
	for rows.Next() {
		var it models.RepurposedListItem
		err := rows.Scan(
			&it.ID,
			&it.OriginalContentID,
			&it.OutputType,
			&it.Tone,
			&it.Content,
			&it.CharacterCount,
			&it.Version,
			&it.IsPublished,
			&it.CreatedAt,
			&it.UpdatedAt,
			&it.OriginalTitle,
			&it.OriginalContentType,
		)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, &it)
	}

	return items, nil
}

func (r *repurposedContentRepository) SetPublished(ctx context.Context, id string, published bool) error {
	query := `
		UPDATE repurposed_content
		SET is_published = $1,
			updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, published, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func scanRepurposedContent(s scanner) (*models.RepurposedContent, error) {
	var rc models.RepurposedContent
	err := s.Scan(
		&rc.ID,
		&rc.OriginalContentID,
		&rc.OutputType,
		&rc.Tone,
		&rc.Content,
		&rc.CharacterCount,
		&rc.Version,
		&rc.IsPublished,
		&rc.CreatedAt,
		&rc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}
