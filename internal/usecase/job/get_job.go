package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/status"
)

// GetJobUseCase отдаёт задание и засчитывает просмотр.
type GetJobUseCase struct {
	jobRepo repository.JobRepository
	cache   FeedCache
	clock   Clock
}

func NewGetJobUseCase(jobRepo repository.JobRepository, cache FeedCache, clock Clock) *GetJobUseCase {
	return &GetJobUseCase{jobRepo: jobRepo, cache: cacheOrNoop(cache), clock: clock}
}

func (uc *GetJobUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	if _, err := uc.jobRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	// Просмотры влияют на статус в ленте.
	uc.cache.InvalidateFeed(ctx)

	job, err := uc.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status.Refresh(job, uc.clock.now())
	return job, nil
}
