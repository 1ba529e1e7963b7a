package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/maheshrc27/repurposer/internal/platform"
	"github.com/maheshrc27/repurposer/internal/repository"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 50
)

type OriginalPage struct {
	Items    []*models.OriginalContent `json:"items"`
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	HasMore  bool                      `json:"has_more"`
}

type ContentService interface {
	CreateOriginal(ctx context.Context, userID string, src *Source) (*models.OriginalContent, error)
	CreateRepurposed(ctx context.Context, originalID string, p platform.Platform, tone, text string) (*models.RepurposedContent, error)
	ListOriginals(ctx context.Context, userID string, page, pageSize int) (*OriginalPage, error)
	GetOriginal(ctx context.Context, userID, id string) (*models.OriginalContent, error)
	ListRepurposed(ctx context.Context, userID string) ([]*models.RepurposedListItem, error)
}

type contentService struct {
	oc      repository.OriginalContentRepository
	rc      repository.RepurposedContentRepository
	orphans repository.OrphanedObjectRepository
	storage ObjectStorage
}

func NewContentService(
	oc repository.OriginalContentRepository,
	rc repository.RepurposedContentRepository,
	orphans repository.OrphanedObjectRepository,
	storage ObjectStorage) ContentService {
	return &contentService{
		oc:      oc,
		rc:      rc,
		orphans: orphans,
		storage: storage,
	}
}

// CreateOriginal uploads the source then inserts its row. If the insert
// fails the object is deleted again, or recorded as orphaned when that
// delete fails too.
func (s *contentService) CreateOriginal(ctx context.Context, userID string, src *Source) (*models.OriginalContent, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if src == nil {
		return nil, ErrEmptyInput
	}

	key := objectKey(src.FileName)
	if err := s.storage.Upload(ctx, key, src.Data, src.MIMEType); err != nil {
		return nil, &UploadError{Err: err}
	}

	contentURL := src.SourceURL
	if contentURL == "" {
		contentURL = s.storage.PublicURL(key)
	}

	filePath := key
	fileType := src.MIMEType
	oc := &models.OriginalContent{
		UserID:      userID,
		Title:       src.ContentType + " to Social Media",
		ContentType: src.ContentType,
		ContentURL:  contentURL,
		ContentText: src.Text,
		FilePath:    &filePath,
		FileType:    &fileType,
	}

	if err := s.oc.Create(ctx, nil, oc); err != nil {
		s.discardObject(ctx, key, err)
		return nil, &InsertError{Prefix: originalInsertPrefix, Err: err}
	}

	slog.Info("original content created", "id", oc.ID, "content_type", oc.ContentType, "key", key)
	return oc, nil
}

func (s *contentService) discardObject(ctx context.Context, key string, cause error) {
	err := s.storage.Delete(ctx, key)
	if err == nil {
		return
	}

	slog.Error("failed to delete uploaded object", "key", key, "error", err)
	if _, err := s.orphans.Create(ctx, key, cause.Error()); err != nil {
		slog.Error("failed to record orphaned object", "key", key, "error", err)
	}
}

func objectKey(fileName string) string {
	name := strings.ReplaceAll(filepath.Base(fileName), " ", "_")
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return uuid.NewString() + "-" + name
}

func (s *contentService) CreateRepurposed(ctx context.Context, originalID string, p platform.Platform, tone, text string) (*models.RepurposedContent, error) {
	rc := &models.RepurposedContent{
		OriginalContentID: originalID,
		OutputType:        string(p),
		Tone:              tone,
		Content:           text,
		CharacterCount:    platform.CharacterCount(text),
	}

	if err := s.rc.CreateNextVersion(ctx, rc); err != nil {
		return nil, &InsertError{Prefix: insertPrefix, Err: err}
	}

	return rc, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func (s *contentService) ListOriginals(ctx context.Context, userID string, page, pageSize int) (*OriginalPage, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	page, pageSize = normalizePage(page, pageSize)

	total, err := s.oc.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting content: %w", err)
	}

	items, err := s.oc.ListByUserID(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing content: %w", err)
	}

	if err := s.attachChildren(ctx, items); err != nil {
		return nil, err
	}

	return &OriginalPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  page*pageSize < total,
	}, nil
}

func (s *contentService) attachChildren(ctx context.Context, items []*models.OriginalContent) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	byID := make(map[string]*models.OriginalContent, len(items))
	for _, it := range items {
		it.RepurposedContent = []*models.RepurposedContent{}
		ids = append(ids, it.ID)
		byID[it.ID] = it
	}

	children, err := s.rc.ListByOriginalIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error listing repurposed content: %w", err)
	}
	for _, c := range children {
		if parent, ok := byID[c.OriginalContentID]; ok {
			parent.RepurposedContent = append(parent.RepurposedContent, c)
		}
	}
	return nil
}

func (s *contentService) GetOriginal(ctx context.Context, userID, id string) (*models.OriginalContent, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if !validID(id) {
		return nil, ErrNotFound
	}

	oc, err := s.oc.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting content: %w", err)
	}
	if oc == nil || oc.UserID != userID {
		return nil, ErrNotFound
	}

	if err := s.attachChildren(ctx, []*models.OriginalContent{oc}); err != nil {
		return nil, err
	}
	return oc, nil
}

func (s *contentService) ListRepurposed(ctx context.Context, userID string) ([]*models.RepurposedListItem, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	items, err := s.rc.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing repurposed content: %w", err)
	}
	return items, nil
}
