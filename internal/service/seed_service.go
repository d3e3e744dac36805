package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/validation"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SeedFile соответствует YAML-файлу с начальными данными.
type SeedFile struct {
	Workers []SeedWorker `yaml:"workers"`
	Jobs    []SeedJob    `yaml:"jobs"`
}

type SeedWorker struct {
	// Key связывает работника с acceptedBy в заданиях.
	Key      string    `yaml:"key"`
	Name     string    `yaml:"name"`
	Phone    string    `yaml:"phone"`
	Skills   []string  `yaml:"skills"`
	Location string    `yaml:"location"`
	Stats    SeedStats `yaml:"stats"`
}

type SeedStats struct {
	JobsCompleted   int     `yaml:"jobsCompleted"`
	ResponseRate    float64 `yaml:"responseRate"`
	AvgResponseTime float64 `yaml:"avgResponseTime"`
	Reliability     float64 `yaml:"reliability"`
}

type SeedJob struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	WorkersNeeded int      `yaml:"workersNeeded"`
	Duration      int      `yaml:"duration"`
	DurationType  string   `yaml:"durationType"`
	Location      string   `yaml:"location"`
	Pay           string   `yaml:"pay"`
	Skills        []string `yaml:"skills"`
	PosterName    string   `yaml:"posterName"`
	PosterPhone   string   `yaml:"posterPhone"`
	// AgeMinutes сдвигает createdAt в прошлое, чтобы лента сразу показывала разные статусы.
	AgeMinutes int      `yaml:"ageMinutes"`
	Views      int      `yaml:"views"`
	Cancelled  bool     `yaml:"cancelled"`
	AcceptedBy []string `yaml:"acceptedBy"`
}

// SeedResult показывает, сколько записей загружено.
type SeedResult struct {
	Jobs    int `json:"jobs"`
	Workers int `json:"workers"`
}

type feedInvalidator interface {
	InvalidateFeed(ctx context.Context)
}

// SeedService заменяет содержимое хранилища данными из YAML-файла.
type SeedService struct {
	jobRepo    repository.JobRepository
	workerRepo repository.WorkerRepository
	tx         repository.Transactor
	feed       feedInvalidator
	path       string
	now        func() time.Time
}

func NewSeedService(
	jobRepo repository.JobRepository,
	workerRepo repository.WorkerRepository,
	tx repository.Transactor,
	feed feedInvalidator,
	path string,
) *SeedService {
	return &SeedService{
		jobRepo:    jobRepo,
		workerRepo: workerRepo,
		tx:         tx,
		feed:       feed,
		path:       path,
		now:        time.Now,
	}
}

// LoadSeedFile читает и разбирает YAML.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed service: не удалось прочитать %s: %w", path, err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*SeedFile, error) {
	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("seed service: некорректный YAML: %w", err)
	}
	return &file, nil
}

// Reset перечитывает файл и полностью заменяет задания и работников.
func (s *SeedService) Reset(ctx context.Context) (*SeedResult, error) {
	file, err := LoadSeedFile(s.path)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, file)
}

// Apply заменяет содержимое хранилища в одной транзакции.
func (s *SeedService) Apply(ctx context.Context, file *SeedFile) (*SeedResult, error) {
	jobs, workers, err := BuildSeed(file, s.now())
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.workerRepo.Replace(ctx, workers); err != nil {
			return fmt.Errorf("seed service: работники: %w", err)
		}
		if err := s.jobRepo.Replace(ctx, jobs); err != nil {
			return fmt.Errorf("seed service: задания: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.InvalidateFeed(ctx)
	}

	logger.Log.WithFields(logrus.Fields{
		"jobs":    len(jobs),
		"workers": len(workers),
	}).Info("хранилище заполнено начальными данными")

	return &SeedResult{Jobs: len(jobs), Workers: len(workers)}, nil
}

// BuildSeed превращает файл в сущности: проверяет поля, проставляет принятия
// и считает оценки совпадения для каждого задания.
func BuildSeed(file *SeedFile, now time.Time) ([]*entity.Job, []*entity.Worker, error) {
	workers := make([]*entity.Worker, 0, len(file.Workers))
	byKey := make(map[string]*entity.Worker, len(file.Workers))

	for i, sw := range file.Workers {
		w, err := buildWorker(sw, now)
		if err != nil {
			return nil, nil, fmt.Errorf("seed service: работник #%d: %w", i+1, err)
		}
		if sw.Key != "" {
			if _, dup := byKey[sw.Key]; dup {
				return nil, nil, fmt.Errorf("seed service: повторный ключ работника %q", sw.Key)
			}
			byKey[sw.Key] = w
		}
		workers = append(workers, w)
	}

	jobs := make([]*entity.Job, 0, len(file.Jobs))
	for i, sj := range file.Jobs {
		j, err := buildJob(sj, byKey, now)
		if err != nil {
			return nil, nil, fmt.Errorf("seed service: задание #%d: %w", i+1, err)
		}
		j.SetMatchScores(match.AllWorkers(j, workers))
		jobs = append(jobs, j)
	}

	return jobs, workers, nil
}

func buildWorker(sw SeedWorker, now time.Time) (*entity.Worker, error) {
	phone := validation.NormalizePhone(sw.Phone)
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, err
	}
	skills, err := valueobject.NewSkillTags(sw.Skills)
	if err != nil {
		return nil, err
	}

	w, err := entity.NewWorker(strings.TrimSpace(sw.Name), phone, skills, strings.TrimSpace(sw.Location), now)
	if err != nil {
		return nil, err
	}

	stats := valueobject.WorkerStats(sw.Stats)
	if stats == (valueobject.WorkerStats{}) {
		stats = valueobject.DefaultWorkerStats()
	}
	if err := w.UpdateStats(stats); err != nil {
		return nil, err
	}
	return w, nil
}

func buildJob(sj SeedJob, byKey map[string]*entity.Worker, now time.Time) (*entity.Job, error) {
	durationType, err := valueobject.NewDurationType(sj.DurationType)
	if err != nil {
		return nil, err
	}
	skills, err := valueobject.NewSkillTags(sj.Skills)
	if err != nil {
		return nil, err
	}
	if sj.AgeMinutes < 0 {
		return nil, fmt.Errorf("ageMinutes не может быть отрицательным")
	}

	created := now.Add(-time.Duration(sj.AgeMinutes) * time.Minute)
	j, err := entity.NewJob(entity.NewJobParams{
		Title:         strings.TrimSpace(sj.Title),
		Description:   strings.TrimSpace(sj.Description),
		WorkersNeeded: sj.WorkersNeeded,
		Duration:      sj.Duration,
		DurationType:  durationType,
		Location:      strings.TrimSpace(sj.Location),
		Pay:           strings.TrimSpace(sj.Pay),
		Skills:        skills,
		Poster: entity.Poster{
			Name:  strings.TrimSpace(sj.PosterName),
			Phone: validation.NormalizePhone(sj.PosterPhone),
		},
	}, created)
	if err != nil {
		return nil, err
	}
	j.Views = sj.Views

	for _, key := range sj.AcceptedBy {
		w, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("неизвестный работник %q в acceptedBy", key)
		}
		if err := j.Accept(w.ID, created); err != nil {
			return nil, fmt.Errorf("принятие %q: %w", key, err)
		}
		w.RecordAcceptance(j.ID)
	}

	if sj.Cancelled {
		if err := j.ChangeStatus(valueobject.JobStatusCancelled, created); err != nil {
			return nil, err
		}
	}
	return j, nil
}
