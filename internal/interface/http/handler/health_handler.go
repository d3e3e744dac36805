package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/response"
)

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	storage repository.Pinger
	driver  string
}

func NewHealthHandler(storage repository.Pinger, driver string) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    map[string]string{"driver": h.driver},
	}

	if err := h.storage.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Checks["storage"] = "unhealthy: " + err.Error()
		response.ServiceUnavailable(c, resp, "хранилище недоступно")
		return
	}

	resp.Checks["storage"] = "healthy"
	response.Success(c, resp)
}
