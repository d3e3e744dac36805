package worker

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/status"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postjob-backend/internal/validation"
)

// MatchJobsInput: нужен WorkerID или Phone. При обоих используется WorkerID.
type MatchJobsInput struct {
	WorkerID *uuid.UUID
	Phone    string
	Limit    int
}

type MatchJobsOutput struct {
	Worker  *entity.Worker
	Matches []match.JobResult
}

// MatchJobsUseCase подбирает работнику подходящие открытые задания.
type MatchJobsUseCase struct {
	workerRepo   repository.WorkerRepository
	jobRepo      repository.JobRepository
	defaultLimit int
	clock        Clock
}

func NewMatchJobsUseCase(
	workerRepo repository.WorkerRepository,
	jobRepo repository.JobRepository,
	defaultLimit int,
	clock Clock,
) *MatchJobsUseCase {
	if defaultLimit <= 0 {
		defaultLimit = match.DefaultLimit
	}
	return &MatchJobsUseCase{
		workerRepo:   workerRepo,
		jobRepo:      jobRepo,
		defaultLimit: defaultLimit,
		clock:        clock,
	}
}

func (uc *MatchJobsUseCase) Execute(ctx context.Context, input MatchJobsInput) (*MatchJobsOutput, error) {
	w, err := uc.findWorker(ctx, input)
	if err != nil {
		return nil, err
	}

	jobs, err := uc.jobRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить задания")
	}
	now := uc.clock.now()
	for _, j := range jobs {
		status.Refresh(j, now)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = uc.defaultLimit
	}

	return &MatchJobsOutput{
		Worker:  w,
		Matches: match.JobsForWorker(w, jobs, limit),
	}, nil
}

func (uc *MatchJobsUseCase) findWorker(ctx context.Context, input MatchJobsInput) (*entity.Worker, error) {
	if input.WorkerID != nil {
		return uc.workerRepo.FindByID(ctx, *input.WorkerID)
	}

	phone := validation.NormalizePhone(input.Phone)
	if phone == "" {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "нужен идентификатор работника или телефон")
	}
	return uc.workerRepo.FindByPhone(ctx, phone)
}
