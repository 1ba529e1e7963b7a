package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maheshrc27/repurposer/internal/generator"
	"github.com/maheshrc27/repurposer/internal/models"
)

var errStub = errors.New("stub failure")

type memOriginals struct {
	mu        sync.Mutex
	rows      []*models.OriginalContent
	createErr error
	clock     time.Time
}

func (m *memOriginals) Create(_ context.Context, _ *sql.Tx, oc *models.OriginalContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.clock.IsZero() {
		m.clock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	m.clock = m.clock.Add(time.Minute)
	oc.ID = uuid.NewString()
	oc.CreatedAt = m.clock
	oc.UpdatedAt = m.clock
	m.rows = append(m.rows, oc)
	return nil
}

func (m *memOriginals) GetByID(_ context.Context, id string) (*models.OriginalContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			cp := *r
			cp.RepurposedContent = nil
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memOriginals) ListByUserID(_ context.Context, userID string, limit, offset int) ([]*models.OriginalContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var own []*models.OriginalContent
	for _, r := range m.rows {
		if r.UserID == userID {
			cp := *r
			own = append(own, &cp)
		}
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].CreatedAt.After(own[j].CreatedAt) })
	if offset >= len(own) {
		return nil, nil
	}
	end := offset + limit
	if end > len(own) {
		end = len(own)
	}
	return own[offset:end], nil
}

func (m *memOriginals) CountByUserID(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memRepurposed struct {
	mu    sync.Mutex
	rows  []*models.RepurposedContent
	calls int
	// failOn makes the n-th CreateNextVersion call (1-based) fail.
	failOn int
	clock  time.Time
}

func (m *memRepurposed) Create(ctx context.Context, _ *sql.Tx, rc *models.RepurposedContent) error {
	return m.CreateNextVersion(ctx, rc)
}

func (m *memRepurposed) CreateNextVersion(_ context.Context, rc *models.RepurposedContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failOn > 0 && m.calls == m.failOn {
		return errStub
	}
	version := 1
	for _, r := range m.rows {
		if r.OriginalContentID == rc.OriginalContentID && r.OutputType == rc.OutputType && r.Version >= version {
			version = r.Version + 1
		}
	}
	if m.clock.IsZero() {
		m.clock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	m.clock = m.clock.Add(time.Second)
	rc.ID = uuid.NewString()
	rc.Version = version
	rc.CreatedAt = m.clock
	rc.UpdatedAt = m.clock
	m.rows = append(m.rows, rc)
	return nil
}

func (m *memRepurposed) GetByID(_ context.Context, id string) (*models.RepurposedContent, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memRepurposed) ListByOriginalIDs(_ context.Context, ids []string) ([]*models.RepurposedContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.RepurposedContent
	for _, r := range m.rows {
		if want[r.OriginalContentID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepurposed) ListByUserID(_ context.Context, _ string) ([]*models.RepurposedListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.RepurposedListItem, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, &models.RepurposedListItem{RepurposedContent: *r})
	}
	return out, nil
}

func (m *memRepurposed) SetPublished(_ context.Context, id string, published bool) error {
	for _, r := range m.rows {
		if r.ID == id {
			r.IsPublished = published
			return nil
		}
	}
	return nil
}

type memOrphans struct {
	keys      []string
	createErr error
}

func (m *memOrphans) Create(_ context.Context, key, _ string) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.keys = append(m.keys, key)
	return int64(len(m.keys)), nil
}

func (m *memOrphans) List(context.Context, int, int) ([]*models.OrphanedObject, error) {
	return nil, nil
}

func (m *memOrphans) IncrementAttempts(context.Context, int64) error {
	return nil
}

func (m *memOrphans) Remove(context.Context, int64) error {
	return nil
}

type memStorage struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (s *memStorage) Upload(_ context.Context, key string, body []byte, _ string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.objects[key] = body
	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type memScheduled struct {
	rows      []*models.ScheduledPost
	createErr error
	creates   int
}

func (m *memScheduled) Create(_ context.Context, _ *sql.Tx, post *models.ScheduledPost) error {
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	post.ID = uuid.NewString()
	m.rows = append(m.rows, post)
	return nil
}

func (m *memScheduled) GetByID(_ context.Context, id string) (*models.ScheduledPost, error) {
	for _, p := range m.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memScheduled) ListByUserID(_ context.Context, userID string) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, p := range m.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	return out, nil
}

func (m *memScheduled) ListByUserIDBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.ScheduledPost, error) {
	all, _ := m.ListByUserID(ctx, userID)
	var out []*models.ScheduledPost
	for _, p := range all {
		if !p.ScheduledFor.Before(from) && p.ScheduledFor.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memScheduled) ListPendingByTimeInterval(_ context.Context, _, to time.Time) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, p := range m.rows {
		if p.Status == models.PostStatusPending && !p.ScheduledFor.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memScheduled) UpdatePostStatus(_ context.Context, id, from, to string) (bool, error) {
	for _, p := range m.rows {
		if p.ID == id {
			if p.Status != from {
				return false, nil
			}
			p.Status = to
			return true, nil
		}
	}
	return false, fmt.Errorf("post %s not found", id)
}

func (m *memScheduled) UpdateSchedule(_ context.Context, id, content string, at time.Time) error {
	for _, p := range m.rows {
		if p.ID == id && p.Status == models.PostStatusPending {
			p.Content = content
			p.ScheduledFor = at
			return nil
		}
	}
	return fmt.Errorf("post %s not found", id)
}

func (m *memScheduled) CheckByUserID(_ context.Context, id, userID string) (bool, error) {
	for _, p := range m.rows {
		if p.ID == id {
			return p.UserID == userID, nil
		}
	}
	return false, nil
}

func (m *memScheduled) Remove(_ context.Context, id string) error {
	for i, p := range m.rows {
		if p.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type enqueueCall struct {
	PostID string
	At     time.Time
}

type stubEnqueuer struct {
	calls []enqueueCall
	err   error
}

func (q *stubEnqueuer) EnqueuePublish(_ context.Context, postID string, at time.Time) error {
	q.calls = append(q.calls, enqueueCall{PostID: postID, At: at})
	return q.err
}

// recordingLLM returns a fixed response and keeps the last request.
type recordingLLM struct {
	response string
	err      error
	last     generator.Request
	calls    int
}

func (r *recordingLLM) Complete(_ context.Context, req generator.Request) (string, error) {
	r.calls++
	r.last = req
	return r.response, r.err
}
