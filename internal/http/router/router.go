package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ignatzorin/postjob-backend/internal/config"
	"github.com/ignatzorin/postjob-backend/internal/http/middleware"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/handler"
)

// Handlers собирает обработчики, которые подключает роутер.
// SeedHandler может быть nil: тогда /api/seed не регистрируется.
type Handlers struct {
	Job    *handler.JobHandler
	Worker *handler.WorkerHandler
	WS     *handler.WSHandler
	Health *handler.HealthHandler
	Seed   *handler.SeedHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.PosterTokenParser) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	if h.Seed != nil && !cfg.IsProduction() {
		api.POST("/seed", h.Seed.Seed)
	}

	writeLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	jobs := api.Group("/jobs")
	{
		jobs.GET("", h.Job.ListJobs)
		jobs.POST("", writeLimit, h.Job.CreateJob)
		jobs.GET("/:id", middleware.UUIDValidator("id"), h.Job.GetJob)
		jobs.PATCH("/:id", middleware.UUIDValidator("id"), middleware.PosterAuth(tokens, "id"), h.Job.UpdateJob)
		jobs.POST("/:id/accept", middleware.UUIDValidator("id"), writeLimit, h.Job.AcceptJob)
		jobs.GET("/:id/matches", middleware.UUIDValidator("id"), h.Job.GetJobMatches)
	}

	api.GET("/match", h.Worker.MatchJobs)

	workers := api.Group("/workers")
	{
		workers.GET("", h.Worker.ListWorkers)
		workers.GET("/:id", middleware.UUIDValidator("id"), h.Worker.GetWorker)
		workers.PUT("/:id/stats", middleware.UUIDValidator("id"), h.Worker.UpdateStats)
	}

	api.GET("/ws", h.WS.Handle)

	return r
}
