package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
)

// UpdateStatsRequest заменяет показатели целиком, поэтому все поля обязательны.
type UpdateStatsRequest struct {
	JobsCompleted   *int     `json:"jobsCompleted" binding:"required"`
	ResponseRate    *float64 `json:"responseRate" binding:"required"`
	AvgResponseTime *float64 `json:"avgResponseTime" binding:"required"`
	Reliability     *float64 `json:"reliability" binding:"required"`
}

func (r UpdateStatsRequest) ToStats() valueobject.WorkerStats {
	return valueobject.WorkerStats{
		JobsCompleted:   *r.JobsCompleted,
		ResponseRate:    *r.ResponseRate,
		AvgResponseTime: *r.AvgResponseTime,
		Reliability:     *r.Reliability,
	}
}

type StatsDTO struct {
	JobsCompleted   int     `json:"jobsCompleted"`
	ResponseRate    float64 `json:"responseRate"`
	AvgResponseTime float64 `json:"avgResponseTime"`
	Reliability     float64 `json:"reliability"`
}

type WorkerResponse struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone"`
	Skills       []string    `json:"skills"`
	Location     string      `json:"location"`
	Badges       []string    `json:"badges"`
	Stats        StatsDTO    `json:"stats"`
	AcceptedJobs []uuid.UUID `json:"acceptedJobs"`
	CreatedAt    time.Time   `json:"createdAt"`
	TrustScore   int         `json:"trustScore"`
}

func ToWorkerResponse(w *entity.Worker) WorkerResponse {
	badges := make([]string, 0, len(w.Badges))
	for _, b := range w.Badges {
		badges = append(badges, string(b))
	}
	accepted := w.AcceptedJobs
	if accepted == nil {
		accepted = []uuid.UUID{}
	}

	return WorkerResponse{
		ID:       w.ID,
		Name:     w.Name,
		Phone:    w.Phone,
		Skills:   valueobject.SkillStrings(w.Skills),
		Location: w.Location,
		Badges:   badges,
		Stats: StatsDTO{
			JobsCompleted:   w.Stats.JobsCompleted,
			ResponseRate:    w.Stats.ResponseRate,
			AvgResponseTime: w.Stats.AvgResponseTime,
			Reliability:     w.Stats.Reliability,
		},
		AcceptedJobs: accepted,
		CreatedAt:    w.CreatedAt,
		TrustScore:   match.TrustScore(w),
	}
}

func ToWorkerResponses(workers []*entity.Worker) []WorkerResponse {
	out := make([]WorkerResponse, 0, len(workers))
	for _, w := range workers {
		out = append(out, ToWorkerResponse(w))
	}
	return out
}
