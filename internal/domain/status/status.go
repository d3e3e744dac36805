// Package status вычисляет отображаемый статус задания по его возрасту,
// скорости просмотров и доле занятых мест.
package status

import (
	"math"
	"time"

	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
)

const (
	hotViewsPerHour     = 10.0
	hotMaxHours         = 4
	hotAcceptanceRate   = 0.5
	fillingAcceptance   = 0.3
	newMaxAgeMinutes    = 60.0
	minAgeHours         = 0.1
	urgencyWeightFactor = 20
	maxUrgency          = 100
)

// Determine возвращает статус задания на момент now.
// Заполненное и отменённое задание не пересчитываются.
func Determine(job *entity.Job, now time.Time) valueobject.JobStatus {
	if job.Status.IsTerminal() {
		return job.Status
	}

	ageMinutes := now.Sub(job.CreatedAt).Minutes()
	ageHours := ageMinutes / 60
	acceptanceRate := job.AcceptanceRate()
	viewsPerHour := float64(job.Views) / math.Max(ageHours, minAgeHours)

	if viewsPerHour > hotViewsPerHour ||
		(job.DurationType == valueobject.DurationHours && job.Duration <= hotMaxHours) ||
		acceptanceRate > hotAcceptanceRate {
		return valueobject.JobStatusHot
	}

	if acceptanceRate > fillingAcceptance && len(job.AcceptedBy) > 0 {
		return valueobject.JobStatusFilling
	}

	if ageMinutes < newMaxAgeMinutes {
		return valueobject.JobStatusNew
	}

	// Категории "устаревшее" нет: старое задание без спроса остаётся новым.
	return valueobject.JobStatusNew
}

var urgencyWeights = map[valueobject.JobStatus]int{
	valueobject.JobStatusHot:       3,
	valueobject.JobStatusFilling:   3,
	valueobject.JobStatusNew:       2,
	valueobject.JobStatusFilled:    0,
	valueobject.JobStatusCancelled: 0,
}

// UrgencyScore используется только для сортировки ленты.
// Статус задания должен быть уже пересчитан через Determine.
func UrgencyScore(job *entity.Job) int {
	score := float64(urgencyWeights[job.Status] * urgencyWeightFactor)

	switch {
	case job.DurationType == valueobject.DurationHours && job.Duration <= hotMaxHours:
		score += 30
	case job.DurationType == valueobject.DurationHours:
		score += 20
	case job.DurationType == valueobject.DurationDays && job.Duration <= 1:
		score += 15
	}

	score += job.AcceptanceRate() * 30

	return int(math.Min(math.Round(score), maxUrgency))
}

// Info содержит подписи статуса для клиента.
type Info struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Urgency     int    `json:"urgency"`
}

var infos = map[valueobject.JobStatus]Info{
	valueobject.JobStatusHot:       {Label: "HOT", Description: "High demand - act fast!", Urgency: 3},
	valueobject.JobStatusNew:       {Label: "NEW", Description: "Just posted", Urgency: 2},
	valueobject.JobStatusFilling:   {Label: "FILLING FAST", Description: "Workers are accepting", Urgency: 3},
	valueobject.JobStatusFilled:    {Label: "FILLED", Description: "No longer available", Urgency: 0},
	valueobject.JobStatusCancelled: {Label: "CANCELLED", Description: "Job cancelled", Urgency: 0},
}

// Describe возвращает подписи статуса. Неизвестный статус показывается как новый.
func Describe(s valueobject.JobStatus) Info {
	if info, ok := infos[s]; ok {
		return info
	}
	return infos[valueobject.JobStatusNew]
}

// Refresh записывает в задание вычисленный статус.
func Refresh(job *entity.Job, now time.Time) {
	job.Status = Determine(job, now)
}

// SortRank задаёт порядок ленты по статусу: горячие, новые, набирающие.
func SortRank(s valueobject.JobStatus) int {
	switch s {
	case valueobject.JobStatusHot:
		return 0
	case valueobject.JobStatusNew:
		return 1
	case valueobject.JobStatusFilling:
		return 2
	case valueobject.JobStatusFilled:
		return 3
	default:
		return 4
	}
}
