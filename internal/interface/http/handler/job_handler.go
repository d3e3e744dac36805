package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/dto"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/response"
	"github.com/ignatzorin/postjob-backend/internal/usecase/job"
)

// PosterTokenIssuer выпускает токен управления заданием для заказчика.
type PosterTokenIssuer interface {
	Issue(jobID uuid.UUID, phone string) (string, time.Time, error)
}

type JobHandler struct {
	createJobUC  *job.CreateJobUseCase
	getJobUC     *job.GetJobUseCase
	listJobsUC   *job.ListJobsUseCase
	updateJobUC  *job.UpdateJobUseCase
	acceptJobUC  *job.AcceptJobUseCase
	jobMatchesUC *job.GetJobMatchesUseCase
	tokens       PosterTokenIssuer
}

func NewJobHandler(
	createJobUC *job.CreateJobUseCase,
	getJobUC *job.GetJobUseCase,
	listJobsUC *job.ListJobsUseCase,
	updateJobUC *job.UpdateJobUseCase,
	acceptJobUC *job.AcceptJobUseCase,
	jobMatchesUC *job.GetJobMatchesUseCase,
	tokens PosterTokenIssuer,
) *JobHandler {
	return &JobHandler{
		createJobUC:  createJobUC,
		getJobUC:     getJobUC,
		listJobsUC:   listJobsUC,
		updateJobUC:  updateJobUC,
		acceptJobUC:  acceptJobUC,
		jobMatchesUC: jobMatchesUC,
		tokens:       tokens,
	}
}

// ListJobs обрабатывает GET /api/jobs.
func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.listJobsUC.Execute(c.Request.Context(), job.ListJobsInput{
		Skills:       splitList(c.Query("skills")),
		DurationType: c.Query("durationType"),
		Search:       c.Query("search"),
		Statuses:     splitList(c.Query("status")),
		PosterPhone:  c.Query("posterPhone"),
		Sort:         c.Query("sort"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponses(jobs))
}

// CreateJob обрабатывает POST /api/jobs и возвращает токен управления.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createJobUC.Execute(c.Request.Context(), job.CreateJobInput{
		Title:         req.Title,
		Description:   req.Description,
		WorkersNeeded: req.WorkersNeeded,
		Duration:      req.Duration,
		DurationType:  req.DurationType,
		Location:      req.Location,
		Pay:           req.Pay,
		Skills:        req.Skills,
		PosterName:    req.PosterName,
		PosterPhone:   req.PosterPhone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	token, exp, err := h.tokens.Issue(created.ID, created.Poster.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.CreateJobResponse{
		Job:                  dto.ToJobResponse(created),
		ManageToken:          token,
		ManageTokenExpiresAt: exp,
	}, "задание опубликовано")
}

// GetJob обрабатывает GET /api/jobs/:id. Каждый запрос считается просмотром.
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := parseID(c, "id", "некорректный ID задания")
	if !ok {
		return
	}

	j, err := h.getJobUC.Execute(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponse(j))
}

// UpdateJob обрабатывает PATCH /api/jobs/:id. Доступ проверяет PosterAuth.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID, ok := parseID(c, "id", "некорректный ID задания")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	updated, err := h.updateJobUC.Execute(c.Request.Context(), job.UpdateJobInput{
		JobID:         jobID,
		Status:        req.Status,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Pay:           req.Pay,
		WorkersNeeded: req.WorkersNeeded,
		Duration:      req.Duration,
		DurationType:  req.DurationType,
		Skills:        req.Skills,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, dto.ToJobResponse(updated), "задание обновлено")
}

// AcceptJob обрабатывает POST /api/jobs/:id/accept.
func (h *JobHandler) AcceptJob(c *gin.Context) {
	jobID, ok := parseID(c, "id", "некорректный ID задания")
	if !ok {
		return
	}

	var req dto.AcceptJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "укажите имя и телефон")
		return
	}

	out, err := h.acceptJobUC.Execute(c.Request.Context(), job.AcceptJobInput{
		JobID:    jobID,
		Name:     req.Name,
		Phone:    req.Phone,
		Skills:   req.Skills,
		Location: req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, dto.AcceptJobResponse{
		Job:           dto.ToJobResponse(out.Job),
		Worker:        dto.ToWorkerResponse(out.Worker),
		WorkerCreated: out.WorkerCreated,
	}, "задание принято")
}

// GetJobMatches обрабатывает GET /api/jobs/:id/matches.
func (h *JobHandler) GetJobMatches(c *gin.Context) {
	jobID, ok := parseID(c, "id", "некорректный ID задания")
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	out, err := h.jobMatchesUC.Execute(c.Request.Context(), jobID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobMatchesResponse(out.Job, out.Matches, out.Insights))
}
