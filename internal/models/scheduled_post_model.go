package models

import "time"

type ScheduledPost struct {
	ID                  string    `db:"id" json:"id"`
	UserID              string    `db:"user_id" json:"user_id"`
	Platform            string    `db:"platform" json:"platform"`
	Content             string    `db:"content" json:"content"`
	ScheduledFor        time.Time `db:"scheduled_for" json:"scheduled_for"`
	Status              string    `db:"status" json:"status"` // pending, published, failed
	OriginalContentID   string    `db:"original_content_id" json:"original_content_id"`
	RepurposedContentID string    `db:"repurposed_content_id" json:"repurposed_content_id"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusPending    = "pending"
	PostStatusPublishing = "publishing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
)
