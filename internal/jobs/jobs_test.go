package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/maheshrc27/repurposer/internal/repository"
	"github.com/stretchr/testify/assert"
)

type stubOrphans struct {
	repository.OrphanedObjectRepository
	objects     []*models.OrphanedObject
	removed     []int64
	incremented []int64
}

func (s *stubOrphans) List(context.Context, int, int) ([]*models.OrphanedObject, error) {
	return s.objects, nil
}

func (s *stubOrphans) IncrementAttempts(_ context.Context, id int64) error {
	s.incremented = append(s.incremented, id)
	return nil
}

func (s *stubOrphans) Remove(_ context.Context, id int64) error {
	s.removed = append(s.removed, id)
	return nil
}

type stubStorage struct {
	failKeys map[string]bool
	deleted  []string
}

func (s *stubStorage) Upload(context.Context, string, []byte, string) error {
	return nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	if s.failKeys[key] {
		return errors.New("access denied")
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubStorage) PublicURL(key string) string {
	return key
}

func TestOrphanCleanupJob(t *testing.T) {
	orphans := &stubOrphans{objects: []*models.OrphanedObject{
		{ID: 1, ObjectKey: "a"},
		{ID: 2, ObjectKey: "b"},
		{ID: 3, ObjectKey: "c", Attempts: orphanMaxAttempts},
	}}
	storage := &stubStorage{failKeys: map[string]bool{"b": true}}

	NewOrphanCleanupJob(orphans, storage).Run()

	assert.Equal(t, []string{"a"}, storage.deleted)
	assert.Equal(t, []int64{1}, orphans.removed)
	assert.Equal(t, []int64{2}, orphans.incremented)
}

type stubPending struct {
	repository.ScheduledPostRepository
	posts    []*models.ScheduledPost
	from, to time.Time
}

func (s *stubPending) ListPendingByTimeInterval(_ context.Context, from, to time.Time) ([]*models.ScheduledPost, error) {
	s.from, s.to = from, to
	return s.posts, nil
}

type stubEnqueuer struct {
	mu    sync.Mutex
	calls map[string]time.Time
	err   error
}

func (q *stubEnqueuer) EnqueuePublish(_ context.Context, postID string, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls[postID] = at
	return q.err
}

func TestPendingPostJob(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubPending{posts: []*models.ScheduledPost{
		{ID: "overdue", ScheduledFor: now.Add(-time.Hour)},
		{ID: "soon", ScheduledFor: now.Add(10 * time.Minute)},
	}}
	q := &stubEnqueuer{calls: map[string]time.Time{}}

	j := NewPendingPostJob(repo, q)
	j.now = func() time.Time { return now }
	j.Run()

	assert.Equal(t, now, repo.from)
	assert.Equal(t, now.Add(30*time.Minute), repo.to)
	assert.Equal(t, now.Add(-time.Hour), q.calls["overdue"])
	assert.Equal(t, now.Add(10*time.Minute), q.calls["soon"])
}

func TestPendingPostJobKeepsGoingOnError(t *testing.T) {
	repo := &stubPending{posts: []*models.ScheduledPost{{ID: "a"}, {ID: "b"}}}
	q := &stubEnqueuer{calls: map[string]time.Time{}, err: errors.New("redis down")}

	NewPendingPostJob(repo, q).Run()
	assert.Len(t, q.calls, 2)
}
