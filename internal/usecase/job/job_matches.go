package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/status"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
)

type JobMatchesOutput struct {
	Job      *entity.Job
	Matches  []match.Result
	Insights match.Insights
}

// GetJobMatchesUseCase подбирает лучших кандидатов на задание.
type GetJobMatchesUseCase struct {
	jobRepo      repository.JobRepository
	workerRepo   repository.WorkerRepository
	defaultLimit int
	clock        Clock
}

func NewGetJobMatchesUseCase(
	jobRepo repository.JobRepository,
	workerRepo repository.WorkerRepository,
	defaultLimit int,
	clock Clock,
) *GetJobMatchesUseCase {
	if defaultLimit <= 0 {
		defaultLimit = match.DefaultLimit
	}
	return &GetJobMatchesUseCase{
		jobRepo:      jobRepo,
		workerRepo:   workerRepo,
		defaultLimit: defaultLimit,
		clock:        clock,
	}
}

func (uc *GetJobMatchesUseCase) Execute(ctx context.Context, jobID uuid.UUID, limit int) (*JobMatchesOutput, error) {
	if limit <= 0 {
		limit = uc.defaultLimit
	}

	job, err := uc.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	status.Refresh(job, uc.clock.now())

	workers, err := uc.workerRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить работников")
	}

	matches := match.TopMatches(workers, job, limit)
	return &JobMatchesOutput{
		Job:      job,
		Matches:  matches,
		Insights: match.Analyze(job, matches),
	}, nil
}
