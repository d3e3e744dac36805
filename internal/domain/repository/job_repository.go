package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
)

type JobRepository interface {
	List(ctx context.Context) ([]*entity.Job, error)
	Replace(ctx context.Context, jobs []*entity.Job) error
	// FindByID и IncrementViews возвращают apperror.ErrJobNotFound, если задания нет.
	// Внутри транзакции FindByID блокирует строку до её завершения.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	Create(ctx context.Context, job *entity.Job) error
	Update(ctx context.Context, job *entity.Job) error
	IncrementViews(ctx context.Context, id uuid.UUID) (int, error)
}
