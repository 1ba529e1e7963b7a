package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler puts publish tasks on the asynq queue.
type Scheduler struct {
	client taskEnqueuer
}

func NewScheduler(client *asynq.Client) *Scheduler {
	return &Scheduler{client: client}
}

func publishTaskID(postID string, at time.Time) string {
	return "publish:" + postID + ":" + at.UTC().Format(time.RFC3339)
}

// EnqueuePublish schedules the post for processing at the given time. The
// task id includes the time, so re-enqueueing the same slot is a no-op while
// a reschedule gets its own task.
func (s *Scheduler) EnqueuePublish(ctx context.Context, postID string, at time.Time) error {
	taskPayload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	_, err = s.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(at),
		asynq.TaskID(publishTaskID(postID, at)),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Task scheduled: post %s at %s", postID, at.Format(time.RFC3339))
	return nil
}
