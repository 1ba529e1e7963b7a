package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/maheshrc27/repurposer/internal/repository"
	"github.com/maheshrc27/repurposer/internal/service"
)

// PendingPostJob puts pending posts due soon back on the queue, covering
// posts whose enqueue failed at schedule time.
type PendingPostJob struct {
	pr repository.ScheduledPostRepository
	q  service.Enqueuer
	// Window is how far ahead of now posts are picked up.
	Window time.Duration
	now    func() time.Time
}

func NewPendingPostJob(pr repository.ScheduledPostRepository, q service.Enqueuer) *PendingPostJob {
	return &PendingPostJob{
		pr:     pr,
		q:      q,
		Window: 30 * time.Minute,
		now:    time.Now,
	}
}

func (c *PendingPostJob) Run() {
	c.RunContext(context.Background())
}

func (c *PendingPostJob) RunContext(ctx context.Context) {
	currentTime := c.now()
	posts, err := c.pr.ListPendingByTimeInterval(ctx, currentTime, currentTime.Add(c.Window))
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, post := range posts {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(post *models.ScheduledPost) {
			defer wg.Done()
			defer func() { <-semaphore }()

			// Overdue posts keep their slot so the task id stays stable
			// across runs; asynq processes a past ProcessAt right away.
			if err := c.q.EnqueuePublish(ctx, post.ID, post.ScheduledFor); err != nil {
				slog.Info("Unable to enqueue pending post", "post_id", post.ID, "error", err)
			}
		}(post)
	}

	wg.Wait()
}
