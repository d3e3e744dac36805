package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
)

// JobRepository отдаёт копии заданий, поэтому вызывающий код может менять их свободно.
type JobRepository struct {
	store *Store
}

func (r *JobRepository) List(ctx context.Context) ([]*entity.Job, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	jobs := make([]*entity.Job, len(r.store.jobs))
	for i, j := range r.store.jobs {
		jobs[i] = j.Clone()
	}
	return jobs, nil
}

func (r *JobRepository) Replace(ctx context.Context, jobs []*entity.Job) error {
	unlock := r.store.lockWrites(ctx)
	defer unlock()

	copies := make([]*entity.Job, len(jobs))
	for i, j := range jobs {
		copies[i] = j.Clone()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.setJobs(copies)
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i, ok := r.store.jobIndex[id]
	if !ok {
		return nil, apperror.ErrJobNotFound
	}
	return r.store.jobs[i].Clone(), nil
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	unlock := r.store.lockWrites(ctx)
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.jobIndex[job.ID]; exists {
		return apperror.New(apperror.ErrCodeConflict, "задание с таким идентификатором уже существует")
	}
	r.store.jobIndex[job.ID] = len(r.store.jobs)
	r.store.jobs = append(r.store.jobs, job.Clone())
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.Job) error {
	unlock := r.store.lockWrites(ctx)
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i, ok := r.store.jobIndex[job.ID]
	if !ok {
		return apperror.ErrJobNotFound
	}
	r.store.jobs[i] = job.Clone()
	return nil
}

func (r *JobRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int, error) {
	unlock := r.store.lockWrites(ctx)
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i, ok := r.store.jobIndex[id]
	if !ok {
		return 0, apperror.ErrJobNotFound
	}
	r.store.jobs[i].RecordView()
	return r.store.jobs[i].Views, nil
}
