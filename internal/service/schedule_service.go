package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/maheshrc27/repurposer/internal/platform"
	"github.com/maheshrc27/repurposer/internal/repository"
)

// Enqueuer hands a pending post to the delayed publish queue.
type Enqueuer interface {
	EnqueuePublish(ctx context.Context, postID string, at time.Time) error
}

type ScheduleInput struct {
	Platform            platform.Platform
	Content             string
	ScheduledFor        time.Time
	OriginalContentID   string
	RepurposedContentID string
}

type ScheduleSummary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPlatform map[string]int `json:"by_platform"`
	Upcoming   int            `json:"upcoming"`
}

type ScheduleService interface {
	SchedulePost(ctx context.Context, userID string, in ScheduleInput) (*models.ScheduledPost, error)
	ListScheduled(ctx context.Context, userID string) ([]*models.ScheduledPost, error)
	ListScheduledOn(ctx context.Context, userID string, day time.Time) ([]*models.ScheduledPost, error)
	Summary(ctx context.Context, userID string, now time.Time) (*ScheduleSummary, error)
	Reschedule(ctx context.Context, userID, postID, content string, at time.Time) (*models.ScheduledPost, error)
	CancelScheduled(ctx context.Context, userID, postID string) error
}

type scheduleService struct {
	pr repository.ScheduledPostRepository
	oc repository.OriginalContentRepository
	rc repository.RepurposedContentRepository
	q  Enqueuer
}

func NewScheduleService(pr repository.ScheduledPostRepository, oc repository.OriginalContentRepository, rc repository.RepurposedContentRepository, q Enqueuer) ScheduleService {
	return &scheduleService{pr: pr, oc: oc, rc: rc, q: q}
}

// SchedulePost stores a pending snapshot of the content. A failed enqueue is
// not fatal: the pending post job picks the row up later.
func (s *scheduleService) SchedulePost(ctx context.Context, userID string, in ScheduleInput) (*models.ScheduledPost, error) {
	if userID == "" {
		slog.Info(ErrUnauthenticated.Error())
		return nil, ErrUnauthenticated
	}
	if !in.Platform.Valid() {
		return nil, fmt.Errorf("%w: %q", platform.ErrUnknownPlatform, string(in.Platform))
	}
	if strings.TrimSpace(in.Content) == "" {
		slog.Info(ErrEmptyContent.Error())
		return nil, ErrEmptyContent
	}

	originalID, err := s.ownReferences(ctx, userID, in.OriginalContentID, in.RepurposedContentID)
	if err != nil {
		return nil, err
	}

	post := &models.ScheduledPost{
		UserID:              userID,
		Platform:            string(in.Platform),
		Content:             in.Content,
		ScheduledFor:        in.ScheduledFor,
		Status:              models.PostStatusPending,
		OriginalContentID:   originalID,
		RepurposedContentID: in.RepurposedContentID,
	}

	if err := s.pr.Create(ctx, nil, post); err != nil {
		return nil, &InsertError{Prefix: insertPrefix, Err: err}
	}

	if s.q != nil {
		if err := s.q.EnqueuePublish(ctx, post.ID, post.ScheduledFor); err != nil {
			slog.Error("failed to enqueue scheduled post", "post_id", post.ID, "error", err)
		}
	}

	return post, nil
}

// ownReferences checks that the linked content belongs to userID and that a
// repurposed row is a child of the given original. It returns the original id,
// filled in from the repurposed row when only that was given.
func (s *scheduleService) ownReferences(ctx context.Context, userID, originalID, repurposedID string) (string, error) {
	if repurposedID != "" {
		if !validID(repurposedID) {
			return "", ErrNotFound
		}
		rc, err := s.rc.GetByID(ctx, repurposedID)
		if err != nil {
			return "", fmt.Errorf("error getting repurposed content: %w", err)
		}
		if rc == nil {
			return "", ErrNotFound
		}
		if originalID == "" {
			originalID = rc.OriginalContentID
		} else if rc.OriginalContentID != originalID {
			slog.Info("repurposed content does not belong to original", "repurposed_id", repurposedID, "original_id", originalID)
			return "", ErrNotFound
		}
	}
	if originalID == "" {
		return "", nil
	}
	if !validID(originalID) {
		return "", ErrNotFound
	}

	oc, err := s.oc.GetByID(ctx, originalID)
	if err != nil {
		return "", fmt.Errorf("error getting content: %w", err)
	}
	if oc == nil || oc.UserID != userID {
		return "", ErrNotFound
	}
	return originalID, nil
}

func (s *scheduleService) ListScheduled(ctx context.Context, userID string) ([]*models.ScheduledPost, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	posts, err := s.pr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing scheduled posts: %w", err)
	}
	return posts, nil
}

// ListScheduledOn returns the posts of one calendar day in day's location.
func (s *scheduleService) ListScheduledOn(ctx context.Context, userID string, day time.Time) ([]*models.ScheduledPost, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	posts, err := s.pr.ListByUserIDBetween(ctx, userID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("error listing scheduled posts: %w", err)
	}
	return posts, nil
}

func (s *scheduleService) Summary(ctx context.Context, userID string, now time.Time) (*ScheduleSummary, error) {
	posts, err := s.ListScheduled(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Summarize(posts, now), nil
}

// Summarize counts posts by status and platform. Upcoming is the number of
// pending posts due within the next seven days.
func Summarize(posts []*models.ScheduledPost, now time.Time) *ScheduleSummary {
	sum := &ScheduleSummary{
		ByStatus:   map[string]int{},
		ByPlatform: map[string]int{},
	}
	horizon := now.AddDate(0, 0, 7)
	for _, p := range posts {
		sum.Total++
		sum.ByStatus[p.Status]++
		sum.ByPlatform[p.Platform]++
		if p.Status == models.PostStatusPending && !p.ScheduledFor.Before(now) && p.ScheduledFor.Before(horizon) {
			sum.Upcoming++
		}
	}
	return sum
}

func (s *scheduleService) ownPost(ctx context.Context, userID, postID string) (*models.ScheduledPost, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if !validID(postID) {
		return nil, ErrNotFound
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		return nil, ErrNotFound
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Reschedule edits a pending post and enqueues it for the new time.
func (s *scheduleService) Reschedule(ctx context.Context, userID, postID, content string, at time.Time) (*models.ScheduledPost, error) {
	post, err := s.ownPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPending {
		return nil, ErrNotPending
	}
	if strings.TrimSpace(content) == "" {
		content = post.Content
	}

	if err := s.pr.UpdateSchedule(ctx, postID, content, at); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	post.Content = content
	post.ScheduledFor = at

	if s.q != nil {
		if err := s.q.EnqueuePublish(ctx, post.ID, at); err != nil {
			slog.Error("failed to enqueue rescheduled post", "post_id", post.ID, "error", err)
		}
	}
	return post, nil
}

func (s *scheduleService) CancelScheduled(ctx context.Context, userID, postID string) error {
	post, err := s.ownPost(ctx, userID, postID)
	if err != nil {
		return err
	}
	if post.Status != models.PostStatusPending {
		return ErrNotPending
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post: %w", err)
	}
	return nil
}

var ErrInvalidDateTime = errors.New("invalid date or time")

// CombineDateTime joins a calendar date ("2006-01-02") and a time of day
// ("15:04") in loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateTime, err)
	}
	return t, nil
}

// GroupByDay buckets posts by their local calendar date, each bucket in time order.
func GroupByDay(posts []*models.ScheduledPost, loc *time.Location) map[string][]*models.ScheduledPost {
	days := make(map[string][]*models.ScheduledPost)
	for _, p := range posts {
		key := p.ScheduledFor.In(loc).Format("2006-01-02")
		days[key] = append(days[key], p)
	}
	for _, bucket := range days {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].ScheduledFor.Before(bucket[j].ScheduledFor)
		})
	}
	return days
}
