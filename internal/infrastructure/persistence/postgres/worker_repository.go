package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/lib/pq"
)

type WorkerRepository struct {
	store *Store
}

// Значки не хранятся: они пересчитываются из показателей при чтении.
type workerRow struct {
	ID              uuid.UUID      `db:"id"`
	Name            string         `db:"name"`
	Phone           string         `db:"phone"`
	Skills          pq.StringArray `db:"skills"`
	Location        string         `db:"location"`
	JobsCompleted   int            `db:"jobs_completed"`
	ResponseRate    float64        `db:"response_rate"`
	AvgResponseTime float64        `db:"avg_response_time"`
	Reliability     float64        `db:"reliability"`
	AcceptedJobs    pq.StringArray `db:"accepted_jobs"`
	CreatedAt       time.Time      `db:"created_at"`
}

const workerColumns = `id, name, phone, skills, location, jobs_completed, response_rate, avg_response_time,
	reliability, accepted_jobs, created_at`

const insertWorkerQuery = `
	INSERT INTO workers (` + workerColumns + `)
	VALUES (:id, :name, :phone, :skills, :location, :jobs_completed, :response_rate, :avg_response_time,
	        :reliability, :accepted_jobs, :created_at)
`

func (r *WorkerRepository) List(ctx context.Context) ([]*entity.Worker, error) {
	var rows []workerRow
	query := `SELECT ` + workerColumns + ` FROM workers ORDER BY created_at, id`
	if err := r.store.conn(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить работников")
	}

	workers := make([]*entity.Worker, 0, len(rows))
	for _, row := range rows {
		w, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, nil
}

func (r *WorkerRepository) Replace(ctx context.Context, workers []*entity.Worker) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		q := r.store.conn(ctx)
		if _, err := q.ExecContext(ctx, `DELETE FROM workers`); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось очистить работников")
		}
		for _, w := range workers {
			if _, err := q.NamedExecContext(ctx, insertWorkerQuery, newWorkerRow(w)); err != nil {
				if isUniqueViolation(err) {
					return apperror.New(apperror.ErrCodeConflict, "телефон работника повторяется: "+w.Phone)
				}
				return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить работника")
			}
		}
		return nil
	})
}

func (r *WorkerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Worker, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *WorkerRepository) FindByPhone(ctx context.Context, phone string) (*entity.Worker, error) {
	return r.findOne(ctx, `phone = $1`, phone)
}

func (r *WorkerRepository) findOne(ctx context.Context, where string, arg interface{}) (*entity.Worker, error) {
	var row workerRow
	query := `SELECT ` + workerColumns + ` FROM workers WHERE ` + where + lockClause(ctx)

	err := r.store.conn(ctx).GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrWorkerNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить работника")
	}
	return row.toEntity()
}

func (r *WorkerRepository) Create(ctx context.Context, worker *entity.Worker) error {
	if _, err := r.store.conn(ctx).NamedExecContext(ctx, insertWorkerQuery, newWorkerRow(worker)); err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "работник с таким телефоном уже существует")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать работника")
	}
	return nil
}

func (r *WorkerRepository) Update(ctx context.Context, worker *entity.Worker) error {
	query := `
		UPDATE workers
		SET name = :name, phone = :phone, skills = :skills, location = :location,
		    jobs_completed = :jobs_completed, response_rate = :response_rate,
		    avg_response_time = :avg_response_time, reliability = :reliability, accepted_jobs = :accepted_jobs
		WHERE id = :id
	`
	result, err := r.store.conn(ctx).NamedExecContext(ctx, query, newWorkerRow(worker))
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "работник с таким телефоном уже существует")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить работника")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if affected == 0 {
		return apperror.ErrWorkerNotFound
	}
	return nil
}

func newWorkerRow(w *entity.Worker) workerRow {
	return workerRow{
		ID:              w.ID,
		Name:            w.Name,
		Phone:           w.Phone,
		Skills:          pq.StringArray(valueobject.SkillStrings(w.Skills)),
		Location:        w.Location,
		JobsCompleted:   w.Stats.JobsCompleted,
		ResponseRate:    w.Stats.ResponseRate,
		AvgResponseTime: w.Stats.AvgResponseTime,
		Reliability:     w.Stats.Reliability,
		AcceptedJobs:    uuidStrings(w.AcceptedJobs),
		CreatedAt:       w.CreatedAt,
	}
}

func (row workerRow) toEntity() (*entity.Worker, error) {
	acceptedJobs, err := parseUUIDs(row.AcceptedJobs)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждён список принятых заданий")
	}

	skills := make([]valueobject.SkillTag, len(row.Skills))
	for i, s := range row.Skills {
		skills[i] = valueobject.SkillTag(s)
	}

	w := &entity.Worker{
		ID:       row.ID,
		Name:     row.Name,
		Phone:    row.Phone,
		Skills:   skills,
		Location: row.Location,
		Stats: valueobject.WorkerStats{
			JobsCompleted:   row.JobsCompleted,
			ResponseRate:    row.ResponseRate,
			AvgResponseTime: row.AvgResponseTime,
			Reliability:     row.Reliability,
		},
		AcceptedJobs: acceptedJobs,
		CreatedAt:    row.CreatedAt,
	}
	w.RefreshBadges()
	return w, nil
}
