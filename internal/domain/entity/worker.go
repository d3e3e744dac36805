package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
)

type Worker struct {
	ID           uuid.UUID
	Name         string
	Phone        string
	Skills       []valueobject.SkillTag
	Location     string
	Badges       []valueobject.BadgeType
	Stats        valueobject.WorkerStats
	AcceptedJobs []uuid.UUID
	CreatedAt    time.Time
}

func NewWorker(name, phone string, skills []valueobject.SkillTag, location string, now time.Time) (*Worker, error) {
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "имя работника обязательно")
	}
	if phone == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "телефон работника обязателен")
	}

	stats := valueobject.DefaultWorkerStats()
	return &Worker{
		ID:           uuid.New(),
		Name:         name,
		Phone:        phone,
		Skills:       append([]valueobject.SkillTag{}, skills...),
		Location:     location,
		Badges:       valueobject.DeriveBadges(stats),
		Stats:        stats,
		AcceptedJobs: []uuid.UUID{},
		CreatedAt:    now,
	}, nil
}

// UpdateStats заменяет показатели и пересчитывает значки.
func (w *Worker) UpdateStats(stats valueobject.WorkerStats) error {
	if err := stats.Validate(); err != nil {
		return err
	}
	w.Stats = stats
	w.Badges = valueobject.DeriveBadges(stats)
	return nil
}

// RefreshBadges приводит значки в соответствие с текущими показателями.
func (w *Worker) RefreshBadges() {
	w.Badges = valueobject.DeriveBadges(w.Stats)
}

func (w *Worker) RecordAcceptance(jobID uuid.UUID) {
	w.AcceptedJobs = append(w.AcceptedJobs, jobID)
}

func (w *Worker) HasBadge(badge valueobject.BadgeType) bool {
	for _, b := range w.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

func (w *Worker) HasSkill(skill valueobject.SkillTag) bool {
	for _, s := range w.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

func (w *Worker) HasAcceptedJob(jobID uuid.UUID) bool {
	for _, id := range w.AcceptedJobs {
		if id == jobID {
			return true
		}
	}
	return false
}

func (w *Worker) Clone() *Worker {
	c := *w
	c.Skills = append([]valueobject.SkillTag(nil), w.Skills...)
	c.Badges = append([]valueobject.BadgeType(nil), w.Badges...)
	c.AcceptedJobs = append([]uuid.UUID{}, w.AcceptedJobs...)
	return &c
}
