package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/repurposer/internal/models"
)

// Publisher delivers a post to its platform.
type Publisher interface {
	Publish(ctx context.Context, post *models.ScheduledPost) error
}

// LogPublisher records the delivery in the log only.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, post *models.ScheduledPost) error {
	slog.Info("publishing post", "post_id", post.ID, "platform", post.Platform, "chars", len([]rune(post.Content)))
	return nil
}

func (j *Queue) HandlePublishTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	return j.PublishPost(ctx, payload.PostID)
}

// PublishPost claims a pending post, then moves it to published or failed.
// Posts that were cancelled, rescheduled for later or claimed by another run
// are skipped.
func (j *Queue) PublishPost(ctx context.Context, postID string) error {
	post, err := j.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		slog.Info("post not found, skipping", "post_id", postID)
		return nil
	}
	if post.Status != models.PostStatusPending {
		slog.Info("post is not pending, skipping", "post_id", postID, "status", post.Status)
		return nil
	}
	if post.ScheduledFor.After(time.Now().Add(time.Minute)) {
		slog.Info("post was rescheduled, skipping", "post_id", postID)
		return nil
	}

	claimed, err := j.pr.UpdatePostStatus(ctx, postID, models.PostStatusPending, models.PostStatusPublishing)
	if err != nil {
		return err
	}
	if !claimed {
		slog.Info("post already claimed, skipping", "post_id", postID)
		return nil
	}

	if err := j.pub.Publish(ctx, post); err != nil {
		slog.Error("failed to publish post", "post_id", postID, "error", err)
		if _, uErr := j.pr.UpdatePostStatus(ctx, postID, models.PostStatusPublishing, models.PostStatusFailed); uErr != nil {
			return uErr
		}
		return nil
	}

	if _, err := j.pr.UpdatePostStatus(ctx, postID, models.PostStatusPublishing, models.PostStatusPublished); err != nil {
		return err
	}

	if post.RepurposedContentID != "" && j.rc != nil {
		if err := j.rc.SetPublished(ctx, post.RepurposedContentID, true); err != nil {
			slog.Info(err.Error())
		}
	}
	return nil
}
