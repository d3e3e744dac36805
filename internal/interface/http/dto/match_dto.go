package dto

import (
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/match"
)

type WorkerMatchDTO struct {
	Worker  WorkerResponse `json:"worker"`
	Score   int            `json:"score"`
	Reasons []string       `json:"reasons"`
}

type JobMatchDTO struct {
	Job     JobResponse `json:"job"`
	Score   int         `json:"score"`
	Reasons []string    `json:"reasons"`
}

type JobMatchesResponse struct {
	Job      JobResponse      `json:"job"`
	Matches  []WorkerMatchDTO `json:"matches"`
	Insights match.Insights   `json:"insights"`
}

type WorkerJobsResponse struct {
	Worker  WorkerResponse `json:"worker"`
	Matches []JobMatchDTO  `json:"matches"`
}

func ToJobMatchesResponse(job *entity.Job, matches []match.Result, insights match.Insights) JobMatchesResponse {
	out := make([]WorkerMatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, WorkerMatchDTO{
			Worker:  ToWorkerResponse(m.Worker),
			Score:   m.Score,
			Reasons: m.Reasons,
		})
	}
	return JobMatchesResponse{Job: ToJobResponse(job), Matches: out, Insights: insights}
}

func ToWorkerJobsResponse(worker *entity.Worker, matches []match.JobResult) WorkerJobsResponse {
	out := make([]JobMatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, JobMatchDTO{
			Job:     ToJobResponse(m.Job),
			Score:   m.Score,
			Reasons: m.Reasons,
		})
	}
	return WorkerJobsResponse{Worker: ToWorkerResponse(worker), Matches: out}
}
