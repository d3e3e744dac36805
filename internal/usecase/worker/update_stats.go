package worker

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

type UpdateStatsInput struct {
	WorkerID uuid.UUID
	Stats    valueobject.WorkerStats
}

// UpdateStatsUseCase заменяет показатели работника. Значки пересчитываются,
// а сохранённые оценки совпадения обновляются во всех открытых заданиях.
type UpdateStatsUseCase struct {
	workerRepo repository.WorkerRepository
	jobRepo    repository.JobRepository
	tx         repository.Transactor
	feed       FeedInvalidator
}

func NewUpdateStatsUseCase(
	workerRepo repository.WorkerRepository,
	jobRepo repository.JobRepository,
	tx repository.Transactor,
	feed FeedInvalidator,
) *UpdateStatsUseCase {
	return &UpdateStatsUseCase{
		workerRepo: workerRepo,
		jobRepo:    jobRepo,
		tx:         tx,
		feed:       feed,
	}
}

func (uc *UpdateStatsUseCase) Execute(ctx context.Context, input UpdateStatsInput) (*Profile, error) {
	if err := input.Stats.Validate(); err != nil {
		return nil, err
	}

	var (
		w        *entity.Worker
		rescored int
	)
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		w, err = uc.workerRepo.FindByID(ctx, input.WorkerID)
		if err != nil {
			return err
		}
		if err := w.UpdateStats(input.Stats); err != nil {
			return err
		}
		if err := uc.workerRepo.Update(ctx, w); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить работника")
		}

		jobs, err := uc.jobRepo.List(ctx)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить задания")
		}
		for _, j := range jobs {
			if j.IsClosed() {
				continue
			}
			j.SetMatchScore(w.ID, match.Score(w, j))
			if err := uc.jobRepo.Update(ctx, j); err != nil {
				return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить оценки задания")
			}
			rescored++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.feed != nil {
		uc.feed.InvalidateFeed(ctx)
	}

	logger.Log.WithFields(logrus.Fields{
		"worker_id":     w.ID,
		"badges":        len(w.Badges),
		"jobs_rescored": rescored,
	}).Info("показатели работника обновлены")

	return &Profile{Worker: w, TrustScore: match.TrustScore(w)}, nil
}
