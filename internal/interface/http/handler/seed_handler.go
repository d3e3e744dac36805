package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/response"
	"github.com/ignatzorin/postjob-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postjob-backend/internal/service"
)

type Seeder interface {
	Reset(ctx context.Context) (*service.SeedResult, error)
}

// SeedHandler сбрасывает хранилище к начальным данным. Подключается только в development.
type SeedHandler struct {
	seeder Seeder
}

func NewSeedHandler(seeder Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// Seed обрабатывает POST /api/seed.
func (h *SeedHandler) Seed(c *gin.Context) {
	res, err := h.seeder.Reset(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось загрузить начальные данные"))
		return
	}

	response.SuccessWithMessage(c, res, "данные сброшены")
}
