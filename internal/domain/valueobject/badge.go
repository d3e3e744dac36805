package valueobject

import "github.com/ignatzorin/postjob-backend/internal/pkg/apperror"

type BadgeType string

const (
	BadgeReliable BadgeType = "reliable"
	BadgeSkilled  BadgeType = "skilled"
	BadgeFast     BadgeType = "fast"
	BadgeVerified BadgeType = "verified"
)

// MaxBadges ограничивает число различных значков работника.
const MaxBadges = 4

// WorkerStats содержит показатели, из которых выводятся значки.
type WorkerStats struct {
	JobsCompleted   int
	ResponseRate    float64 // 0-100
	AvgResponseTime float64 // минуты
	Reliability     float64 // 0-100
}

// DefaultWorkerStats возвращает показатели нового работника, созданного при первом принятии задания.
func DefaultWorkerStats() WorkerStats {
	return WorkerStats{
		JobsCompleted:   0,
		ResponseRate:    100,
		AvgResponseTime: 5,
		Reliability:     100,
	}
}

func (s WorkerStats) Validate() error {
	if s.JobsCompleted < 0 {
		return apperror.New(apperror.ErrCodeValidation, "количество выполненных заданий не может быть отрицательным")
	}
	if s.ResponseRate < 0 || s.ResponseRate > 100 {
		return apperror.New(apperror.ErrCodeValidation, "процент ответов должен быть от 0 до 100")
	}
	if s.Reliability < 0 || s.Reliability > 100 {
		return apperror.New(apperror.ErrCodeValidation, "надёжность должна быть от 0 до 100")
	}
	if s.AvgResponseTime < 0 {
		return apperror.New(apperror.ErrCodeValidation, "среднее время ответа не может быть отрицательным")
	}
	return nil
}

// DeriveBadges вычисляет значки по показателям. Правила независимы друг от друга.
func DeriveBadges(stats WorkerStats) []BadgeType {
	badges := make([]BadgeType, 0, MaxBadges)

	if stats.Reliability >= 80 && stats.JobsCompleted >= 5 {
		badges = append(badges, BadgeReliable)
	}
	if stats.JobsCompleted >= 20 {
		badges = append(badges, BadgeSkilled)
	}
	if stats.AvgResponseTime < 10 && stats.ResponseRate >= 90 {
		badges = append(badges, BadgeFast)
	}
	if stats.JobsCompleted >= 50 && stats.Reliability >= 95 {
		badges = append(badges, BadgeVerified)
	}

	return badges
}
