package job

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postjob-backend/internal/validation"
	"github.com/sirupsen/logrus"
)

type AcceptJobInput struct {
	JobID    uuid.UUID
	Name     string
	Phone    string
	Skills   []string
	Location string
}

type AcceptJobOutput struct {
	Job           *entity.Job
	Worker        *entity.Worker
	WorkerCreated bool
}

type AcceptJobUseCase struct {
	jobRepo    repository.JobRepository
	workerRepo repository.WorkerRepository
	tx         repository.Transactor
	cache      FeedCache
	publisher  EventPublisher
	clock      Clock
}

func NewAcceptJobUseCase(
	jobRepo repository.JobRepository,
	workerRepo repository.WorkerRepository,
	tx repository.Transactor,
	cache FeedCache,
	publisher EventPublisher,
	clock Clock,
) *AcceptJobUseCase {
	return &AcceptJobUseCase{
		jobRepo:    jobRepo,
		workerRepo: workerRepo,
		tx:         tx,
		cache:      cacheOrNoop(cache),
		publisher:  publisherOrNoop(publisher),
		clock:      clock,
	}
}

// Execute закрепляет работника за заданием. Работник ищется по телефону
// и создаётся при первом отклике. Всё выполняется в одной транзакции,
// поэтому параллельные отклики не превышают число мест.
func (uc *AcceptJobUseCase) Execute(ctx context.Context, input AcceptJobInput) (*AcceptJobOutput, error) {
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	phone := validation.NormalizePhone(input.Phone)

	if err := validation.ValidatePhone(phone); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePersonName(name); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLocation(location, false); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateSkillsCount(len(input.Skills)); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	skills, err := valueobject.NewSkillTags(input.Skills)
	if err != nil {
		return nil, err
	}

	now := uc.clock.now()
	out := &AcceptJobOutput{}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		job, err := uc.jobRepo.FindByID(ctx, input.JobID)
		if err != nil {
			return err
		}
		if err := job.CheckOpen(); err != nil {
			return err
		}

		worker, err := uc.workerRepo.FindByPhone(ctx, phone)
		switch {
		case apperror.IsNotFound(err):
			worker, err = entity.NewWorker(name, phone, skills, location, now)
			if err != nil {
				return err
			}
			out.WorkerCreated = true
		case err != nil:
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось найти работника")
		}

		if err := job.Accept(worker.ID, now); err != nil {
			return err
		}
		worker.RecordAcceptance(job.ID)

		if out.WorkerCreated {
			err = uc.workerRepo.Create(ctx, worker)
		} else {
			err = uc.workerRepo.Update(ctx, worker)
		}
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить работника")
		}
		if err := uc.jobRepo.Update(ctx, job); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить задание")
		}

		out.Job = job
		out.Worker = worker
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateFeed(ctx)
	uc.publishAccepted(out)

	logger.Log.WithFields(logrus.Fields{
		"job_id":         out.Job.ID,
		"worker_id":      out.Worker.ID,
		"worker_created": out.WorkerCreated,
		"accepted":       len(out.Job.AcceptedBy),
		"workers_needed": out.Job.WorkersNeeded,
	}).Info("задание принято")

	return out, nil
}

func (uc *AcceptJobUseCase) publishAccepted(out *AcceptJobOutput) {
	event := newJobEvent(out.Job)
	workerID := out.Worker.ID
	event.WorkerID = &workerID
	event.WorkerName = out.Worker.Name

	uc.publisher.Publish(TopicFeed, EventJobAccepted, event)
	uc.publisher.Publish(JobTopic(out.Job.ID), EventJobAccepted, event)

	if out.Job.Status == valueobject.JobStatusFilled {
		uc.publisher.Publish(TopicFeed, EventJobFilled, event)
		uc.publisher.Publish(JobTopic(out.Job.ID), EventJobFilled, event)
		logger.Log.WithField("job_id", out.Job.ID).Info("все места на задании заняты")
	}
}
