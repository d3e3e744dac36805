package worker

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
)

type Profile struct {
	Worker     *entity.Worker
	TrustScore int
}

type GetWorkerUseCase struct {
	workerRepo repository.WorkerRepository
}

func NewGetWorkerUseCase(workerRepo repository.WorkerRepository) *GetWorkerUseCase {
	return &GetWorkerUseCase{workerRepo: workerRepo}
}

func (uc *GetWorkerUseCase) Execute(ctx context.Context, id uuid.UUID) (*Profile, error) {
	w, err := uc.workerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Profile{Worker: w, TrustScore: match.TrustScore(w)}, nil
}

type ListWorkersUseCase struct {
	workerRepo repository.WorkerRepository
}

func NewListWorkersUseCase(workerRepo repository.WorkerRepository) *ListWorkersUseCase {
	return &ListWorkersUseCase{workerRepo: workerRepo}
}

func (uc *ListWorkersUseCase) Execute(ctx context.Context) ([]*Profile, error) {
	workers, err := uc.workerRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить работников")
	}

	profiles := make([]*Profile, len(workers))
	for i, w := range workers {
		profiles[i] = &Profile{Worker: w, TrustScore: match.TrustScore(w)}
	}
	return profiles, nil
}
