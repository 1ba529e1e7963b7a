package job

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/maheshrc27/repurposer/internal/repository"
	"github.com/maheshrc27/repurposer/internal/service"
)

const (
	orphanBatchSize   = 100
	orphanMaxAttempts = 10
)

// OrphanCleanupJob retries deleting objects whose upload was kept after the
// matching row insert failed.
type OrphanCleanupJob struct {
	or      repository.OrphanedObjectRepository
	storage service.ObjectStorage
}

func NewOrphanCleanupJob(or repository.OrphanedObjectRepository, storage service.ObjectStorage) *OrphanCleanupJob {
	return &OrphanCleanupJob{
		or:      or,
		storage: storage,
	}
}

func (c *OrphanCleanupJob) Run() {
	c.RunContext(context.Background())
}

func (c *OrphanCleanupJob) RunContext(ctx context.Context) {
	objects, err := c.or.List(ctx, orphanMaxAttempts, orphanBatchSize)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, obj := range objects {
		c.cleanup(ctx, obj)
	}
}

func (c *OrphanCleanupJob) cleanup(ctx context.Context, obj *models.OrphanedObject) {
	if obj.Attempts >= orphanMaxAttempts {
		return
	}

	if err := c.storage.Delete(ctx, obj.ObjectKey); err != nil {
		slog.Info("Unable to delete orphaned object", "key", obj.ObjectKey, "error", err)
		if err := c.or.IncrementAttempts(ctx, obj.ID); err != nil {
			slog.Info(err.Error())
		}
		return
	}

	if err := c.or.Remove(ctx, obj.ID); err != nil {
		slog.Info(err.Error())
	}
}
