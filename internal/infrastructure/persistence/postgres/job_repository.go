package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/lib/pq"
)

type JobRepository struct {
	store *Store
}

type jobRow struct {
	ID            uuid.UUID      `db:"id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	Status        string         `db:"status"`
	WorkersNeeded int            `db:"workers_needed"`
	Duration      int            `db:"duration"`
	DurationType  string         `db:"duration_type"`
	Location      string         `db:"location"`
	Pay           string         `db:"pay"`
	Skills        pq.StringArray `db:"skills"`
	PosterName    string         `db:"poster_name"`
	PosterPhone   string         `db:"poster_phone"`
	AcceptedBy    pq.StringArray `db:"accepted_by"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	Views         int            `db:"views"`
	MatchScores   string         `db:"match_scores"`
}

const jobColumns = `id, title, description, status, workers_needed, duration, duration_type, location, pay,
	skills, poster_name, poster_phone, accepted_by, created_at, updated_at, views, match_scores`

const insertJobQuery = `
	INSERT INTO jobs (` + jobColumns + `)
	VALUES (:id, :title, :description, :status, :workers_needed, :duration, :duration_type, :location, :pay,
	        :skills, :poster_name, :poster_phone, :accepted_by, :created_at, :updated_at, :views, :match_scores)
`

func (r *JobRepository) List(ctx context.Context) ([]*entity.Job, error) {
	var rows []jobRow
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at, id`
	if err := r.store.conn(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить задания")
	}

	jobs := make([]*entity.Job, 0, len(rows))
	for _, row := range rows {
		job, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Replace заменяет все задания снимком.
func (r *JobRepository) Replace(ctx context.Context, jobs []*entity.Job) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		q := r.store.conn(ctx)
		if _, err := q.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось очистить задания")
		}
		for _, job := range jobs {
			row, err := newJobRow(job)
			if err != nil {
				return err
			}
			if _, err := q.NamedExecContext(ctx, insertJobQuery, row); err != nil {
				return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить задание")
			}
		}
		return nil
	})
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	var row jobRow
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1` + lockClause(ctx)

	err := r.store.conn(ctx).GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrJobNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить задание")
	}
	return row.toEntity()
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	row, err := newJobRow(job)
	if err != nil {
		return err
	}

	if _, err := r.store.conn(ctx).NamedExecContext(ctx, insertJobQuery, row); err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.ErrCodeConflict, "задание с таким идентификатором уже существует")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать задание")
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.Job) error {
	row, err := newJobRow(job)
	if err != nil {
		return err
	}

	query := `
		UPDATE jobs
		SET title = :title, description = :description, status = :status, workers_needed = :workers_needed,
		    duration = :duration, duration_type = :duration_type, location = :location, pay = :pay,
		    skills = :skills, poster_name = :poster_name, poster_phone = :poster_phone,
		    accepted_by = :accepted_by, updated_at = :updated_at, views = :views, match_scores = :match_scores
		WHERE id = :id
	`
	result, err := r.store.conn(ctx).NamedExecContext(ctx, query, row)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить задание")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if affected == 0 {
		return apperror.ErrJobNotFound
	}
	return nil
}

// IncrementViews увеличивает счётчик одним запросом, без чтения строки.
func (r *JobRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int, error) {
	var views int
	err := r.store.conn(ctx).GetContext(ctx, &views,
		`UPDATE jobs SET views = views + 1 WHERE id = $1 RETURNING views`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperror.ErrJobNotFound
	}
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось засчитать просмотр")
	}
	return views, nil
}

func newJobRow(j *entity.Job) (jobRow, error) {
	scores := make(map[string]int, len(j.MatchScores))
	for id, score := range j.MatchScores {
		scores[id.String()] = score
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return jobRow{}, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать оценки совпадения")
	}

	return jobRow{
		ID:            j.ID,
		Title:         j.Title,
		Description:   j.Description,
		Status:        string(j.Status),
		WorkersNeeded: j.WorkersNeeded,
		Duration:      j.Duration,
		DurationType:  string(j.DurationType),
		Location:      j.Location,
		Pay:           j.Pay,
		Skills:        pq.StringArray(valueobject.SkillStrings(j.Skills)),
		PosterName:    j.Poster.Name,
		PosterPhone:   j.Poster.Phone,
		AcceptedBy:    uuidStrings(j.AcceptedBy),
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
		Views:         j.Views,
		MatchScores:   string(raw),
	}, nil
}

func (row jobRow) toEntity() (*entity.Job, error) {
	acceptedBy, err := parseUUIDs(row.AcceptedBy)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждён список принявших работников")
	}

	skills := make([]valueobject.SkillTag, len(row.Skills))
	for i, s := range row.Skills {
		skills[i] = valueobject.SkillTag(s)
	}

	var scores map[uuid.UUID]int
	if len(row.MatchScores) > 0 {
		var raw map[string]int
		if err := json.Unmarshal([]byte(row.MatchScores), &raw); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждены оценки совпадения")
		}
		scores = make(map[uuid.UUID]int, len(raw))
		for k, v := range raw {
			id, err := uuid.Parse(k)
			if err != nil {
				return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждены оценки совпадения")
			}
			scores[id] = v
		}
	}

	return &entity.Job{
		ID:            row.ID,
		Title:         row.Title,
		Description:   row.Description,
		Status:        valueobject.JobStatus(row.Status),
		WorkersNeeded: row.WorkersNeeded,
		Duration:      row.Duration,
		DurationType:  valueobject.DurationType(row.DurationType),
		Location:      row.Location,
		Pay:           row.Pay,
		Skills:        skills,
		Poster:        entity.Poster{Name: row.PosterName, Phone: row.PosterPhone},
		AcceptedBy:    acceptedBy,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		Views:         row.Views,
		MatchScores:   scores,
	}, nil
}

func uuidStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
