package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
)

type WorkerRepository interface {
	List(ctx context.Context) ([]*entity.Worker, error)
	Replace(ctx context.Context, workers []*entity.Worker) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Worker, error)
	// FindByPhone возвращает apperror.ErrWorkerNotFound, если работника с таким номером нет.
	FindByPhone(ctx context.Context, phone string) (*entity.Worker, error)
	Create(ctx context.Context, worker *entity.Worker) error
	Update(ctx context.Context, worker *entity.Worker) error
}
