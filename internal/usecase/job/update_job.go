package job

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/status"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postjob-backend/internal/validation"
	"github.com/sirupsen/logrus"
)

// UpdateJobInput содержит правки заказчика. nil означает "не менять".
type UpdateJobInput struct {
	JobID         uuid.UUID
	Status        *string
	Title         *string
	Description   *string
	Location      *string
	Pay           *string
	WorkersNeeded *int
	Duration      *int
	DurationType  *string
	Skills        []string
}

type UpdateJobUseCase struct {
	jobRepo    repository.JobRepository
	workerRepo repository.WorkerRepository
	tx         repository.Transactor
	cache      FeedCache
	publisher  EventPublisher
	clock      Clock
}

func NewUpdateJobUseCase(
	jobRepo repository.JobRepository,
	workerRepo repository.WorkerRepository,
	tx repository.Transactor,
	cache FeedCache,
	publisher EventPublisher,
	clock Clock,
) *UpdateJobUseCase {
	return &UpdateJobUseCase{
		jobRepo:    jobRepo,
		workerRepo: workerRepo,
		tx:         tx,
		cache:      cacheOrNoop(cache),
		publisher:  publisherOrNoop(publisher),
		clock:      clock,
	}
}

func (uc *UpdateJobUseCase) Execute(ctx context.Context, input UpdateJobInput) (*entity.Job, error) {
	changes, err := input.toChanges()
	if err != nil {
		return nil, err
	}

	var newStatus valueobject.JobStatus
	if input.Status != nil {
		if newStatus, err = valueobject.NewJobStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	now := uc.clock.now()
	var job *entity.Job

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		job, err = uc.jobRepo.FindByID(ctx, input.JobID)
		if err != nil {
			return err
		}

		rescore, err := job.Update(changes, now)
		if err != nil {
			return err
		}

		if input.WorkersNeeded != nil {
			if err := validation.ValidateWorkersNeeded(*input.WorkersNeeded); err != nil {
				return apperror.New(apperror.ErrCodeValidation, err.Error())
			}
			if err := job.ChangeWorkersNeeded(*input.WorkersNeeded, now); err != nil {
				return err
			}
		}

		if newStatus != "" {
			if err := job.ChangeStatus(newStatus, now); err != nil {
				return err
			}
		}

		if rescore {
			workers, err := uc.workerRepo.List(ctx)
			if err != nil {
				return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить работников")
			}
			job.SetMatchScores(match.AllWorkers(job, workers))
		}

		if err := uc.jobRepo.Update(ctx, job); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить задание")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	status.Refresh(job, now)

	uc.cache.InvalidateFeed(ctx)
	event := newJobEvent(job)
	uc.publisher.Publish(TopicFeed, EventJobUpdated, event)
	uc.publisher.Publish(JobTopic(job.ID), EventJobUpdated, event)

	logger.Log.WithFields(logrus.Fields{
		"job_id": job.ID,
		"status": job.Status,
	}).Info("задание обновлено")

	return job, nil
}

func (in UpdateJobInput) toChanges() (entity.JobChanges, error) {
	var c entity.JobChanges

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := validation.ValidateJobTitle(title); err != nil {
			return c, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		c.Title = &title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if err := validation.ValidateJobDescription(description); err != nil {
			return c, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		c.Description = &description
	}
	if in.Location != nil {
		location := strings.TrimSpace(*in.Location)
		if err := validation.ValidateLocation(location, true); err != nil {
			return c, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		c.Location = &location
	}
	if in.Pay != nil {
		pay := strings.TrimSpace(*in.Pay)
		if err := validation.ValidatePay(pay); err != nil {
			return c, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		c.Pay = &pay
	}
	if in.Duration != nil {
		if err := validation.ValidateDuration(*in.Duration); err != nil {
			return c, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		c.Duration = in.Duration
	}
	if in.DurationType != nil {
		d, err := valueobject.NewDurationType(*in.DurationType)
		if err != nil {
			return c, err
		}
		c.DurationType = &d
	}
	if in.Skills != nil {
		if err := validation.ValidateSkillsCount(len(in.Skills)); err != nil {
			return c, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
		skills, err := valueobject.NewSkillTags(in.Skills)
		if err != nil {
			return c, err
		}
		c.Skills = skills
	}

	return c, nil
}
