package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/status"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
)

type CreateJobRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	WorkersNeeded int      `json:"workersNeeded" binding:"required"`
	Duration      int      `json:"duration" binding:"required"`
	DurationType  string   `json:"durationType" binding:"required"`
	Location      string   `json:"location"`
	Pay           string   `json:"pay"`
	Skills        []string `json:"skills"`
	PosterName    string   `json:"posterName" binding:"required"`
	PosterPhone   string   `json:"posterPhone" binding:"required"`
}

// UpdateJobRequest описывает частичное изменение. Отсутствующие поля не меняются.
type UpdateJobRequest struct {
	Status        *string  `json:"status"`
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Location      *string  `json:"location"`
	Pay           *string  `json:"pay"`
	WorkersNeeded *int     `json:"workersNeeded"`
	Duration      *int     `json:"duration"`
	DurationType  *string  `json:"durationType"`
	Skills        []string `json:"skills"`
}

type AcceptJobRequest struct {
	Name     string   `json:"name" binding:"required"`
	Phone    string   `json:"phone" binding:"required"`
	Skills   []string `json:"skills"`
	Location string   `json:"location"`
}

type PosterDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type JobResponse struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Status        string            `json:"status"`
	StatusInfo    status.Info       `json:"statusInfo"`
	Urgency       int               `json:"urgency"`
	WorkersNeeded int               `json:"workersNeeded"`
	AcceptedCount int               `json:"acceptedCount"`
	SpotsLeft     int               `json:"spotsLeft"`
	Duration      int               `json:"duration"`
	DurationType  string            `json:"durationType"`
	Location      string            `json:"location"`
	Pay           string            `json:"pay"`
	Skills        []string          `json:"skills"`
	Poster        PosterDTO         `json:"poster"`
	AcceptedBy    []uuid.UUID       `json:"acceptedBy"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Views         int               `json:"views"`
	MatchScores   map[uuid.UUID]int `json:"matchScores,omitempty"`
}

type CreateJobResponse struct {
	Job                  JobResponse `json:"job"`
	ManageToken          string      `json:"manageToken"`
	ManageTokenExpiresAt time.Time   `json:"manageTokenExpiresAt"`
}

type AcceptJobResponse struct {
	Job           JobResponse    `json:"job"`
	Worker        WorkerResponse `json:"worker"`
	WorkerCreated bool           `json:"workerCreated"`
}

// ToJobResponse ожидает задание с уже пересчитанным статусом.
func ToJobResponse(job *entity.Job) JobResponse {
	acceptedBy := job.AcceptedBy
	if acceptedBy == nil {
		acceptedBy = []uuid.UUID{}
	}
	spotsLeft := job.WorkersNeeded - len(job.AcceptedBy)
	if spotsLeft < 0 {
		spotsLeft = 0
	}

	return JobResponse{
		ID:            job.ID,
		Title:         job.Title,
		Description:   job.Description,
		Status:        string(job.Status),
		StatusInfo:    status.Describe(job.Status),
		Urgency:       status.UrgencyScore(job),
		WorkersNeeded: job.WorkersNeeded,
		AcceptedCount: len(job.AcceptedBy),
		SpotsLeft:     spotsLeft,
		Duration:      job.Duration,
		DurationType:  string(job.DurationType),
		Location:      job.Location,
		Pay:           job.Pay,
		Skills:        valueobject.SkillStrings(job.Skills),
		Poster:        PosterDTO{Name: job.Poster.Name, Phone: job.Poster.Phone},
		AcceptedBy:    acceptedBy,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
		Views:         job.Views,
		MatchScores:   job.MatchScores,
	}
}

func ToJobResponses(jobs []*entity.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, ToJobResponse(j))
	}
	return out
}
