package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
)

// FeedCache хранит снимок заданий из хранилища. Сбрасывается после каждой записи.
type FeedCache interface {
	GetFeed(ctx context.Context, key string) ([]*entity.Job, bool)
	SetFeed(ctx context.Context, key string, jobs []*entity.Job)
	InvalidateFeed(ctx context.Context)
}

// EventPublisher рассылает события подписчикам темы.
type EventPublisher interface {
	Publish(topic, event string, data any)
}

type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

const (
	TopicFeed = "feed"

	EventJobCreated  = "job_created"
	EventJobUpdated  = "job_updated"
	EventJobAccepted = "job_accepted"
	EventJobFilled   = "job_filled"
)

func JobTopic(id uuid.UUID) string {
	return "job:" + id.String()
}

// JobEvent передаётся подписчикам в событиях о задании.
type JobEvent struct {
	JobID         uuid.UUID             `json:"jobId"`
	Title         string                `json:"title"`
	Status        valueobject.JobStatus `json:"status"`
	WorkersNeeded int                   `json:"workersNeeded"`
	AcceptedCount int                   `json:"acceptedCount"`
	WorkerID      *uuid.UUID            `json:"workerId,omitempty"`
	WorkerName    string                `json:"workerName,omitempty"`
}

func newJobEvent(j *entity.Job) JobEvent {
	return JobEvent{
		JobID:         j.ID,
		Title:         j.Title,
		Status:        j.Status,
		WorkersNeeded: j.WorkersNeeded,
		AcceptedCount: len(j.AcceptedBy),
	}
}

type noopCache struct{}

func (noopCache) GetFeed(context.Context, string) ([]*entity.Job, bool) { return nil, false }
func (noopCache) SetFeed(context.Context, string, []*entity.Job)        {}
func (noopCache) InvalidateFeed(context.Context)                        {}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, any) {}

func cacheOrNoop(c FeedCache) FeedCache {
	if c == nil {
		return noopCache{}
	}
	return c
}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
