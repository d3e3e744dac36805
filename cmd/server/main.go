package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignatzorin/postjob-backend/internal/config"
	"github.com/ignatzorin/postjob-backend/internal/db"
	"github.com/ignatzorin/postjob-backend/internal/domain/repository"
	httpRouter "github.com/ignatzorin/postjob-backend/internal/http/router"
	"github.com/ignatzorin/postjob-backend/internal/infrastructure/persistence/memory"
	"github.com/ignatzorin/postjob-backend/internal/infrastructure/persistence/postgres"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/handler"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/service"
	"github.com/ignatzorin/postjob-backend/internal/usecase/job"
	"github.com/ignatzorin/postjob-backend/internal/usecase/worker"
	"github.com/ignatzorin/postjob-backend/internal/ws"
	"github.com/sirupsen/logrus"
)

// storage объединяет выбранное хранилище и его репозитории.
type storage struct {
	jobs    repository.JobRepository
	workers repository.WorkerRepository
	tx      repository.Transactor
	pinger  repository.Pinger
	close   func() error
}

// feedCache закрывается при остановке сервера.
type feedCache interface {
	job.FeedCache
	Close() error
}

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Env)

	store, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("main: ошибка подключения к хранилищу: %v", err)
	}
	defer closeLogged("хранилище", store.close)

	cache := openFeedCache(cfg)
	defer closeLogged("кэш ленты", cache.Close)

	hub := ws.NewHub()
	go hub.Run(ctx)

	tokens := service.NewPosterTokenManager(cfg.PosterTokenSecret, cfg.PosterTokenTTL)
	seedService := service.NewSeedService(store.jobs, store.workers, store.tx, cache, cfg.SeedPath)

	if cfg.SeedOnStart {
		seedIfEmpty(ctx, store, seedService)
	}

	clock := job.Clock(time.Now)

	jobHandler := handler.NewJobHandler(
		job.NewCreateJobUseCase(store.jobs, store.workers, store.tx, cache, hub, clock),
		job.NewGetJobUseCase(store.jobs, cache, clock),
		job.NewListJobsUseCase(store.jobs, cache, clock),
		job.NewUpdateJobUseCase(store.jobs, store.workers, store.tx, cache, hub, clock),
		job.NewAcceptJobUseCase(store.jobs, store.workers, store.tx, cache, hub, clock),
		job.NewGetJobMatchesUseCase(store.jobs, store.workers, cfg.MatchLimit, clock),
		tokens,
	)
	workerHandler := handler.NewWorkerHandler(
		worker.NewGetWorkerUseCase(store.workers),
		worker.NewListWorkersUseCase(store.workers),
		worker.NewUpdateStatsUseCase(store.workers, store.jobs, store.tx, cache),
		worker.NewMatchJobsUseCase(store.workers, store.jobs, cfg.MatchLimit, worker.Clock(time.Now)),
	)

	handlers := httpRouter.Handlers{
		Job:    jobHandler,
		Worker: workerHandler,
		WS:     handler.NewWSHandler(hub, tokens, cfg.AllowedOrigins),
		Health: handler.NewHealthHandler(store.pinger, cfg.StorageDriver),
	}
	if !cfg.IsProduction() {
		handlers.Seed = handler.NewSeedHandler(seedService)
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokens)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.WithFields(logrus.Fields{
		"port":    cfg.HTTPPort,
		"env":     cfg.Env,
		"storage": cfg.StorageDriver,
	}).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Errorf("main: сервер завершился с ошибкой: %v", err)
		stop()
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		s := memory.NewStore()
		return &storage{
			jobs:    s.Jobs(),
			workers: s.Workers(),
			tx:      s,
			pinger:  s,
			close:   func() error { return nil },
		}, nil
	}

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPoolConfig())
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
		_ = conn.Close()
		return nil, err
	}

	s := postgres.NewStore(conn)
	return &storage{
		jobs:    s.Jobs(),
		workers: s.Workers(),
		tx:      s,
		pinger:  s,
		close:   conn.Close,
	}, nil
}

// openFeedCache выбирает Redis, если он задан и доступен, иначе кэш в памяти.
func openFeedCache(cfg *config.Config) feedCache {
	if cfg.RedisURL != "" {
		c, err := service.NewRedisFeedCache(cfg.RedisURL, cfg.FeedCacheTTL)
		if err == nil {
			logger.Log.Info("кэш ленты: Redis")
			return c
		}
		logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Redis недоступен, кэш ленты в памяти")
	}
	return service.NewCacheService(cfg.FeedCacheTTL)
}

func seedIfEmpty(ctx context.Context, store *storage, seeder *service.SeedService) {
	jobs, err := store.jobs.List(ctx)
	if err != nil {
		logger.Log.Fatalf("main: не удалось проверить хранилище: %v", err)
	}
	if len(jobs) > 0 {
		return
	}
	if _, err := seeder.Reset(ctx); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Warn("начальные данные не загружены")
	}
}

func closeLogged(name string, fn func() error) {
	if err := fn(); err != nil {
		logger.Log.WithFields(logrus.Fields{"resource": name, "error": err.Error()}).Error("ошибка закрытия")
	}
}
