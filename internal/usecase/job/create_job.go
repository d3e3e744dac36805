package job

import (
	"context"
	"strings"

	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postjob-backend/internal/validation"
	"github.com/sirupsen/logrus"
)

type CreateJobInput struct {
	Title         string
	Description   string
	WorkersNeeded int
	Duration      int
	DurationType  string
	Location      string
	Pay           string
	Skills        []string
	PosterName    string
	PosterPhone   string
}

type CreateJobUseCase struct {
	jobRepo    repository.JobRepository
	workerRepo repository.WorkerRepository
	tx         repository.Transactor
	cache      FeedCache
	publisher  EventPublisher
	clock      Clock
}

func NewCreateJobUseCase(
	jobRepo repository.JobRepository,
	workerRepo repository.WorkerRepository,
	tx repository.Transactor,
	cache FeedCache,
	publisher EventPublisher,
	clock Clock,
) *CreateJobUseCase {
	return &CreateJobUseCase{
		jobRepo:    jobRepo,
		workerRepo: workerRepo,
		tx:         tx,
		cache:      cacheOrNoop(cache),
		publisher:  publisherOrNoop(publisher),
		clock:      clock,
	}
}

func (uc *CreateJobUseCase) Execute(ctx context.Context, input CreateJobInput) (*entity.Job, error) {
	params, err := input.toParams()
	if err != nil {
		return nil, err
	}

	job, err := entity.NewJob(params, uc.clock.now())
	if err != nil {
		return nil, err
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		workers, err := uc.workerRepo.List(ctx)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить работников")
		}
		job.SetMatchScores(match.AllWorkers(job, workers))

		if err := uc.jobRepo.Create(ctx, job); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать задание")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateFeed(ctx)
	uc.publisher.Publish(TopicFeed, EventJobCreated, newJobEvent(job))

	logger.Log.WithFields(logrus.Fields{
		"job_id":         job.ID,
		"workers_needed": job.WorkersNeeded,
		"matched":        len(job.MatchScores),
	}).Info("задание создано")

	return job, nil
}

func (in CreateJobInput) toParams() (entity.NewJobParams, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	location := strings.TrimSpace(in.Location)
	pay := strings.TrimSpace(in.Pay)
	posterName := strings.TrimSpace(in.PosterName)
	posterPhone := validation.NormalizePhone(in.PosterPhone)

	checks := []error{
		validation.ValidateJobTitle(title),
		validation.ValidateJobDescription(description),
		validation.ValidateWorkersNeeded(in.WorkersNeeded),
		validation.ValidateDuration(in.Duration),
		validation.ValidateLocation(location, true),
		validation.ValidatePay(pay),
		validation.ValidateSkillsCount(len(in.Skills)),
		validation.ValidatePersonName(posterName),
		validation.ValidatePhone(posterPhone),
	}
	for _, err := range checks {
		if err != nil {
			return entity.NewJobParams{}, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	durationType, err := valueobject.NewDurationType(in.DurationType)
	if err != nil {
		return entity.NewJobParams{}, err
	}
	skills, err := valueobject.NewSkillTags(in.Skills)
	if err != nil {
		return entity.NewJobParams{}, err
	}

	return entity.NewJobParams{
		Title:         title,
		Description:   description,
		WorkersNeeded: in.WorkersNeeded,
		Duration:      in.Duration,
		DurationType:  durationType,
		Location:      location,
		Pay:           pay,
		Skills:        skills,
		Poster:        entity.Poster{Name: posterName, Phone: posterPhone},
	}, nil
}
