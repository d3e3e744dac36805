package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
)

type WorkerRepository struct {
	store *Store
}

func (r *WorkerRepository) List(ctx context.Context) ([]*entity.Worker, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	workers := make([]*entity.Worker, len(r.store.workers))
	for i, w := range r.store.workers {
		workers[i] = w.Clone()
	}
	return workers, nil
}

func (r *WorkerRepository) Replace(ctx context.Context, workers []*entity.Worker) error {
	unlock := r.store.lockWrites(ctx)
	defer unlock()

	copies := make([]*entity.Worker, len(workers))
	seen := make(map[string]struct{}, len(workers))
	for i, w := range workers {
		if _, dup := seen[w.Phone]; dup {
			return apperror.New(apperror.ErrCodeConflict, "телефон работника повторяется: "+w.Phone)
		}
		seen[w.Phone] = struct{}{}
		copies[i] = w.Clone()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.setWorkers(copies)
	return nil
}

func (r *WorkerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Worker, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i, ok := r.store.workerIndex[id]
	if !ok {
		return nil, apperror.ErrWorkerNotFound
	}
	return r.store.workers[i].Clone(), nil
}

func (r *WorkerRepository) FindByPhone(ctx context.Context, phone string) (*entity.Worker, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.phoneIndex[phone]
	if !ok {
		return nil, apperror.ErrWorkerNotFound
	}
	return r.store.workers[r.store.workerIndex[id]].Clone(), nil
}

func (r *WorkerRepository) Create(ctx context.Context, worker *entity.Worker) error {
	unlock := r.store.lockWrites(ctx)
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.phoneIndex[worker.Phone]; exists {
		return apperror.New(apperror.ErrCodeConflict, "работник с таким телефоном уже существует")
	}
	if _, exists := r.store.workerIndex[worker.ID]; exists {
		return apperror.New(apperror.ErrCodeConflict, "работник с таким идентификатором уже существует")
	}

	r.store.workerIndex[worker.ID] = len(r.store.workers)
	r.store.phoneIndex[worker.Phone] = worker.ID
	r.store.workers = append(r.store.workers, worker.Clone())
	return nil
}

func (r *WorkerRepository) Update(ctx context.Context, worker *entity.Worker) error {
	unlock := r.store.lockWrites(ctx)
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i, ok := r.store.workerIndex[worker.ID]
	if !ok {
		return apperror.ErrWorkerNotFound
	}
	if owner, taken := r.store.phoneIndex[worker.Phone]; taken && owner != worker.ID {
		return apperror.New(apperror.ErrCodeConflict, "работник с таким телефоном уже существует")
	}

	delete(r.store.phoneIndex, r.store.workers[i].Phone)
	r.store.phoneIndex[worker.Phone] = worker.ID
	r.store.workers[i] = worker.Clone()
	return nil
}
