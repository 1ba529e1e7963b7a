package models

import "time"

type OriginalContent struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	ContentType string    `db:"content_type" json:"content_type"`
	ContentURL  string    `db:"content_url" json:"content_url"`
	ContentText string    `db:"content_text" json:"content_text"`
	FilePath    *string   `db:"file_path" json:"file_path"`
	FileType    *string   `db:"file_type" json:"file_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	RepurposedContent []*RepurposedContent `db:"-" json:"repurposed_content"`
}

type RepurposedContent struct {
	ID                string    `db:"id" json:"id"`
	OriginalContentID string    `db:"original_content_id" json:"original_content_id"`
	OutputType        string    `db:"output_type" json:"output_type"`
	Tone              string    `db:"tone" json:"tone"`
	Content           string    `db:"content" json:"content"`
	CharacterCount    int       `db:"character_count" json:"character_count"`
	Version           int       `db:"version" json:"version"`
	IsPublished       bool      `db:"is_published" json:"is_published"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// RepurposedListItem is a repurposed row joined with its original's title.
type RepurposedListItem struct {
	RepurposedContent
	OriginalTitle       string `db:"original_title" json:"original_title"`
	OriginalContentType string `db:"original_content_type" json:"original_content_type"`
}

const (
	ContentTypeImage    = "image"
	ContentTypeDocument = "document"
	ContentTypeArticle  = "article"
	ContentTypeVideo    = "video"
	ContentTypeAudio    = "audio"
	ContentTypeText     = "text"
)
