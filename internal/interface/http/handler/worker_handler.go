package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/dto"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/response"
	"github.com/ignatzorin/postjob-backend/internal/usecase/worker"
)

type WorkerHandler struct {
	getWorkerUC   *worker.GetWorkerUseCase
	listWorkersUC *worker.ListWorkersUseCase
	updateStatsUC *worker.UpdateStatsUseCase
	matchJobsUC   *worker.MatchJobsUseCase
}

func NewWorkerHandler(
	getWorkerUC *worker.GetWorkerUseCase,
	listWorkersUC *worker.ListWorkersUseCase,
	updateStatsUC *worker.UpdateStatsUseCase,
	matchJobsUC *worker.MatchJobsUseCase,
) *WorkerHandler {
	return &WorkerHandler{
		getWorkerUC:   getWorkerUC,
		listWorkersUC: listWorkersUC,
		updateStatsUC: updateStatsUC,
		matchJobsUC:   matchJobsUC,
	}
}

func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	profiles, err := h.listWorkersUC.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.WorkerResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, dto.ToWorkerResponse(p.Worker))
	}
	response.Success(c, out)
}

func (h *WorkerHandler) GetWorker(c *gin.Context) {
	workerID, ok := parseID(c, "id", "некорректный ID работника")
	if !ok {
		return
	}

	profile, err := h.getWorkerUC.Execute(c.Request.Context(), workerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToWorkerResponse(profile.Worker))
}

// UpdateStats обрабатывает PUT /api/workers/:id/stats.
func (h *WorkerHandler) UpdateStats(c *gin.Context) {
	workerID, ok := parseID(c, "id", "некорректный ID работника")
	if !ok {
		return
	}

	var req dto.UpdateStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "укажите все показатели работника")
		return
	}

	profile, err := h.updateStatsUC.Execute(c.Request.Context(), worker.UpdateStatsInput{
		WorkerID: workerID,
		Stats:    req.ToStats(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, dto.ToWorkerResponse(profile.Worker), "показатели обновлены")
}

// MatchJobs обрабатывает GET /api/match?workerId=...|phone=...
func (h *WorkerHandler) MatchJobs(c *gin.Context) {
	input := worker.MatchJobsInput{Phone: c.Query("phone")}

	if raw := c.Query("workerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "некорректный workerId")
			return
		}
		input.WorkerID = &id
	}

	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	input.Limit = limit

	out, err := h.matchJobsUC.Execute(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToWorkerJobsResponse(out.Worker, out.Matches))
}
