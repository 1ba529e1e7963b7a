package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/repurposer/internal/models"
)

type OrphanedObjectRepository interface {
	Create(ctx context.Context, key, reason string) (int64, error)
	List(ctx context.Context, maxAttempts, limit int) ([]*models.OrphanedObject, error)
	IncrementAttempts(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
}

type orphanedObjectRepository struct {
	db *sql.DB
}

func NewOrphanedObjectRepository(db *sql.DB) OrphanedObjectRepository {
	return &orphanedObjectRepository{db: db}
}

func (r *orphanedObjectRepository) Create(ctx context.Context, key, reason string) (int64, error) {
	query := `
		INSERT INTO orphaned_objects (object_key, reason)
		VALUES ($1, $2)
		ON CONFLICT (object_key) DO UPDATE SET reason = EXCLUDED.reason
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, key, reason).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

// List returns the oldest records still under maxAttempts first.
func (r *orphanedObjectRepository) List(ctx context.Context, maxAttempts, limit int) ([]*models.OrphanedObject, error) {
	query := `
		SELECT id, object_key, reason, attempts, created_at
		FROM orphaned_objects
		WHERE attempts < $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, maxAttempts, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var objects []*models.OrphanedObject
	for rows.Next() {
		var o models.OrphanedObject
		if err := rows.Scan(&o.ID, &o.ObjectKey, &o.Reason, &o.Attempts, &o.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		objects = append(objects, &o)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return objects, nil
}

func (r *orphanedObjectRepository) IncrementAttempts(ctx context.Context, id int64) error {
	query := `UPDATE orphaned_objects SET attempts = attempts + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *orphanedObjectRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM orphaned_objects WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
