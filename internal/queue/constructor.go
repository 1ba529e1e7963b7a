package queue

import (
	"github.com/maheshrc27/repurposer/internal/repository"
)

type Queue struct {
	pr  repository.ScheduledPostRepository
	rc  repository.RepurposedContentRepository
	pub Publisher
}

func NewQueue(
	pr repository.ScheduledPostRepository,
	rc repository.RepurposedContentRepository,
	pub Publisher) *Queue {
	if pub == nil {
		pub = LogPublisher{}
	}
	return &Queue{
		pr:  pr,
		rc:  rc,
		pub: pub,
	}
}

const TaskTypePublishPost = "post:publish"

type PublishPostPayload struct {
	PostID string `json:"post_id"`
}
