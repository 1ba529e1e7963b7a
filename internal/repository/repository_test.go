package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var originalCols = []string{"id", "user_id", "title", "content_type", "content_url", "content_text", "file_path", "file_type", "created_at", "updated_at"}

func TestOriginalContentListByUserIDPages(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOriginalContentRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(originalCols)
	for _, id := range []string{"o6", "o7", "o8"} {
		rows.AddRow(id, "u1", "image to Social Media", "image", "https://cdn/x", "data", nil, nil, now, now)
	}
	mock.ExpectQuery("FROM original_content").
		WithArgs("u1", 5, 5).
		WillReturnRows(rows)

	items, err := repo.ListByUserID(context.Background(), "u1", 5, 5)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "o6", items[0].ID)
	assert.Nil(t, items[0].FilePath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOriginalContentCountByUserID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOriginalContentRepository(db)

	mock.ExpectQuery("SELECT COUNT").WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	count, err := repo.CountByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}

func TestOriginalContentGetByIDMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOriginalContentRepository(db)

	mock.ExpectQuery("FROM original_content WHERE id").WithArgs("nope").WillReturnRows(sqlmock.NewRows(originalCols))

	oc, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, oc)
}

func TestOriginalContentCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOriginalContentRepository(db)
	now := time.Now()
	path := "k-file.png"
	mime := "image/png"

	mock.ExpectQuery("INSERT INTO original_content").
		WithArgs("u1", "image to Social Media", "image", "https://cdn/k", "data:...", path, mime).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("o1", now, now))

	oc := &models.OriginalContent{
		UserID:      "u1",
		Title:       "image to Social Media",
		ContentType: "image",
		ContentURL:  "https://cdn/k",
		ContentText: "data:...",
		FilePath:    &path,
		FileType:    &mime,
	}
	require.NoError(t, repo.Create(context.Background(), nil, oc))
	assert.Equal(t, "o1", oc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepurposedCreateNextVersion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepurposedContentRepository(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM original_content WHERE id = \\$1 FOR UPDATE").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("o1"))
	mock.ExpectQuery("INSERT INTO repurposed_content").
		WithArgs("o1", "twitter", "casual", "1. hi", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "is_published", "created_at", "updated_at"}).
			AddRow("r3", 3, false, now, now))
	mock.ExpectCommit()

	rc := &models.RepurposedContent{OriginalContentID: "o1", OutputType: "twitter", Tone: "casual", Content: "1. hi", CharacterCount: 5}
	require.NoError(t, repo.CreateNextVersion(context.Background(), rc))
	assert.Equal(t, "r3", rc.ID)
	assert.Equal(t, 3, rc.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepurposedCreateNextVersionMissingOriginal(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepurposedContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("gone").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.CreateNextVersion(context.Background(), &models.RepurposedContent{OriginalContentID: "gone"})
	assert.ErrorIs(t, err, ErrOriginalNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepurposedCreateNextVersionInsertFails(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepurposedContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("o1").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("o1"))
	mock.ExpectQuery("INSERT INTO repurposed_content").WillReturnError(errors.New("constraint violated"))
	mock.ExpectRollback()

	err := repo.CreateNextVersion(context.Background(), &models.RepurposedContent{OriginalContentID: "o1", OutputType: "linkedin"})
	assert.EqualError(t, err, "constraint violated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepurposedListByOriginalIDs(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepurposedContentRepository(db)
	now := time.Now()

	cols := []string{"id", "original_content_id", "output_type", "tone", "content", "character_count", "version", "is_published", "created_at", "updated_at"}
	mock.ExpectQuery("WHERE original_content_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r1", "o1", "twitter", "casual", "a", 1, 1, false, now, now).
			AddRow("r2", "o2", "linkedin", "casual", "b", 1, 1, false, now, now))

	items, err := repo.ListByOriginalIDs(context.Background(), []string{"o1", "o2"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	empty, err := repo.ListByOriginalIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostCreateStoresNullReferences(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduledPostRepository(db)
	now := time.Now()
	at := now.Add(time.Hour)

	mock.ExpectQuery("INSERT INTO scheduled_posts").
		WithArgs("u1", "twitter", "hello", at, "pending", nil, "r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("p1", now, now))

	post := &models.ScheduledPost{UserID: "u1", Platform: "twitter", Content: "hello", ScheduledFor: at, Status: "pending", RepurposedContentID: "r1"}
	require.NoError(t, repo.Create(context.Background(), nil, post))
	assert.Equal(t, "p1", post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostListByUserIDBetween(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduledPostRepository(db)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	cols := []string{"id", "user_id", "platform", "content", "scheduled_for", "status", "original_content_id", "repurposed_content_id", "created_at", "updated_at"}
	mock.ExpectQuery("scheduled_for >= \\$2 AND scheduled_for < \\$3").
		WithArgs("u1", from, to).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p1", "u1", "twitter", "hi", from.Add(9*time.Hour), "pending", "o1", "r1", from, from))

	posts, err := repo.ListByUserIDBetween(context.Background(), "u1", from, to)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduledPostCheckByUserID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduledPostRepository(db)

	mock.ExpectQuery("SELECT 1 FROM scheduled_posts").WithArgs("p1", "u2").WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := repo.CheckByUserID(context.Background(), "p1", "u2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrphanedObjectCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrphanedObjectRepository(db)

	mock.ExpectQuery("INSERT INTO orphaned_objects").
		WithArgs("k-file.png", "insert failed").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Create(context.Background(), "k-file.png", "insert failed")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestOrphanedObjectListSkipsExhausted(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrphanedObjectRepository(db)
	now := time.Now()

	mock.ExpectQuery("WHERE attempts < \\$1").
		WithArgs(10, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "object_key", "reason", "attempts", "created_at"}).
			AddRow(int64(3), "k-new.png", "insert failed", 0, now))

	objects, err := repo.List(context.Background(), 10, 100)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "k-new.png", objects[0].ObjectKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrphanedObjectListRowError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewOrphanedObjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "object_key", "reason", "attempts", "created_at"}).
		AddRow(int64(1), "k", "r", 0, time.Now()).
		RowError(0, errors.New("connection reset"))
	mock.ExpectQuery("FROM orphaned_objects").WillReturnRows(rows)

	_, err := repo.List(context.Background(), 10, 100)
	assert.EqualError(t, err, "connection reset")
}

func TestScheduledPostUpdatePostStatusClaims(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduledPostRepository(db)

	mock.ExpectExec("WHERE id = \\$3 AND status = \\$4").
		WithArgs("publishing", sqlmock.AnyArg(), "p1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("WHERE id = \\$3 AND status = \\$4").
		WithArgs("publishing", sqlmock.AnyArg(), "p1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.UpdatePostStatus(context.Background(), "p1", models.PostStatusPending, models.PostStatusPublishing)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.UpdatePostStatus(context.Background(), "p1", models.PostStatusPending, models.PostStatusPublishing)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepurposedGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepurposedContentRepository(db)
	now := time.Now()

	cols := []string{"id", "original_content_id", "output_type", "tone", "content", "character_count", "version", "is_published", "created_at", "updated_at"}
	mock.ExpectQuery("FROM repurposed_content WHERE id = \\$1").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("r1", "o1", "twitter", "casual", "a", 1, 2, false, now, now))
	mock.ExpectQuery("FROM repurposed_content WHERE id = \\$1").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows(cols))

	rc, err := repo.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "o1", rc.OriginalContentID)

	missing, err := repo.GetByID(context.Background(), "gone")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}
