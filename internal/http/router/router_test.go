package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ignatzorin/postjob-backend/internal/config"
	"github.com/ignatzorin/postjob-backend/internal/infrastructure/persistence/memory"
	"github.com/ignatzorin/postjob-backend/internal/interface/http/handler"
	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/ignatzorin/postjob-backend/internal/service"
	"github.com/ignatzorin/postjob-backend/internal/usecase/job"
	"github.com/ignatzorin/postjob-backend/internal/usecase/worker"
	"github.com/ignatzorin/postjob-backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Discard()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testApp struct {
	engine *gin.Engine
	store  *memory.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewStore()
	cache := service.NewCacheService(30 * time.Second)
	t.Cleanup(func() { _ = cache.Close() })
	hub := ws.NewHub()
	tokens := service.NewPosterTokenManager("router-test-secret-0123456789abcdef", time.Hour)
	clock := job.Clock(time.Now)

	cfg := &config.Config{
		Env:             "test",
		AllowedOrigins:  []string{"http://localhost:3000"},
		RateLimitLimit:  1000,
		RateLimitPeriod: time.Minute,
		MatchLimit:      5,
	}

	h := Handlers{
		Job: handler.NewJobHandler(
			job.NewCreateJobUseCase(store.Jobs(), store.Workers(), store, cache, nil, clock),
			job.NewGetJobUseCase(store.Jobs(), cache, clock),
			job.NewListJobsUseCase(store.Jobs(), cache, clock),
			job.NewUpdateJobUseCase(store.Jobs(), store.Workers(), store, cache, nil, clock),
			job.NewAcceptJobUseCase(store.Jobs(), store.Workers(), store, cache, nil, clock),
			job.NewGetJobMatchesUseCase(store.Jobs(), store.Workers(), cfg.MatchLimit, clock),
			tokens,
		),
		Worker: handler.NewWorkerHandler(
			worker.NewGetWorkerUseCase(store.Workers()),
			worker.NewListWorkersUseCase(store.Workers()),
			worker.NewUpdateStatsUseCase(store.Workers(), store.Jobs(), store, cache),
			worker.NewMatchJobsUseCase(store.Workers(), store.Jobs(), cfg.MatchLimit, nil),
		),
		WS:     handler.NewWSHandler(hub, tokens, cfg.AllowedOrigins),
		Health: handler.NewHealthHandler(store, "memory"),
		Seed: handler.NewSeedHandler(service.NewSeedService(
			store.Jobs(), store.Workers(), store, cache, "../../../seeds/seed.yaml",
		)),
	}

	return &testApp{engine: SetupRouter(cfg, h, tokens), store: store}
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

type jobDTO struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	WorkersNeeded int            `json:"workersNeeded"`
	AcceptedCount int            `json:"acceptedCount"`
	SpotsLeft     int            `json:"spotsLeft"`
	Views         int            `json:"views"`
	Skills        []string       `json:"skills"`
	MatchScores   map[string]int `json:"matchScores"`
	StatusInfo    struct {
		Label string `json:"label"`
	} `json:"statusInfo"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func createJob(t *testing.T, app *testApp, workersNeeded int) (jobDTO, string) {
	t.Helper()
	w, env := app.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"title":         "Разгрузка мебели",
		"description":   "Третий этаж без лифта",
		"workersNeeded": workersNeeded,
		"duration":      2,
		"durationType":  "days",
		"location":      "Kigali, Gasabo",
		"pay":           "5000 RWF",
		"skills":        []string{"physical-labor"},
		"posterName":    "Olivier",
		"posterPhone":   "+250 788 200 001",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[struct {
		Job         jobDTO `json:"job"`
		ManageToken string `json:"manageToken"`
	}](t, env.Data)
	require.NotEmpty(t, created.ManageToken)
	return created.Job, created.ManageToken
}

func TestJobLifecycle(t *testing.T) {
	app := newTestApp(t)
	created, token := createJob(t, app, 2)
	assert.Equal(t, "new", created.Status)
	assert.Equal(t, 2, created.SpotsLeft)

	// Лента содержит новое задание.
	w, env := app.do(t, http.MethodGet, "/api/jobs?skills=physical-labor", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[[]jobDTO](t, env.Data)
	require.Len(t, feed, 1)
	assert.Equal(t, created.ID, feed[0].ID)

	// Детальный просмотр считает просмотры.
	app.do(t, http.MethodGet, "/api/jobs/"+created.ID, nil, "")
	_, env = app.do(t, http.MethodGet, "/api/jobs/"+created.ID, nil, "")
	assert.Equal(t, 2, decode[jobDTO](t, env.Data).Views)

	// Первый отклик создаёт работника.
	w, env = app.do(t, http.MethodPost, "/api/jobs/"+created.ID+"/accept", map[string]any{
		"name": "Jean", "phone": "+250788100001", "skills": []string{"physical-labor"}, "location": "Kigali",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	accepted := decode[struct {
		Job           jobDTO `json:"job"`
		WorkerCreated bool   `json:"workerCreated"`
	}](t, env.Data)
	assert.True(t, accepted.WorkerCreated)
	assert.Equal(t, 1, accepted.Job.AcceptedCount)

	// Повторный отклик тем же телефоном.
	w, env = app.do(t, http.MethodPost, "/api/jobs/"+created.ID+"/accept", map[string]any{
		"name": "Jean", "phone": "+250 788 100 001",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	// Второй работник заполняет задание.
	w, env = app.do(t, http.MethodPost, "/api/jobs/"+created.ID+"/accept", map[string]any{
		"name": "Eric", "phone": "+250788100002",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "filled", decode[struct {
		Job jobDTO `json:"job"`
	}](t, env.Data).Job.Status)

	// Третий получает 409, заполненное задание пропадает из ленты.
	w, _ = app.do(t, http.MethodPost, "/api/jobs/"+created.ID+"/accept", map[string]any{
		"name": "Diane", "phone": "+250788100003",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	_, env = app.do(t, http.MethodGet, "/api/jobs", nil, "")
	assert.Empty(t, decode[[]jobDTO](t, env.Data))

	// Заказчик видит своё задание по телефону.
	_, env = app.do(t, http.MethodGet, "/api/jobs?posterPhone=%2B250788200001", nil, "")
	assert.Len(t, decode[[]jobDTO](t, env.Data), 1)

	// Увеличение мест снова открывает задание. Нужен токен.
	w, _ = app.do(t, http.MethodPatch, "/api/jobs/"+created.ID, map[string]any{"workersNeeded": 3}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = app.do(t, http.MethodPatch, "/api/jobs/"+created.ID, map[string]any{"workersNeeded": 3}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reopened := decode[jobDTO](t, env.Data)
	assert.Equal(t, 1, reopened.SpotsLeft)
	assert.NotEqual(t, "filled", reopened.Status)

	// Токен другого задания не подходит.
	_, otherToken := createJob(t, app, 1)
	w, _ = app.do(t, http.MethodPatch, "/api/jobs/"+created.ID, map[string]any{"status": "cancelled"}, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConcurrentAcceptNeverOvershoots(t *testing.T) {
	app := newTestApp(t)
	created, _ := createJob(t, app, 2)

	var wg sync.WaitGroup
	codes := make(chan int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, _ := json.Marshal(map[string]any{"name": "Worker", "phone": fmt.Sprintf("+2507883%05d", i)})
			req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+created.ID+"/accept", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			app.engine.ServeHTTP(w, req)
			codes <- w.Code
		}(i)
	}
	wg.Wait()
	close(codes)

	ok := 0
	for code := range codes {
		if code == http.StatusOK {
			ok++
		} else {
			assert.Equal(t, http.StatusConflict, code)
		}
	}
	assert.Equal(t, 2, ok)

	_, env := app.do(t, http.MethodGet, "/api/jobs/"+created.ID, nil, "")
	final := decode[jobDTO](t, env.Data)
	assert.Equal(t, 2, final.AcceptedCount)
	assert.Equal(t, "filled", final.Status)
}

func TestMatchesAndWorkers(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodPost, "/api/seed", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "данные сброшены", env.Message)

	_, env = app.do(t, http.MethodGet, "/api/workers", nil, "")
	workers := decode[[]struct {
		ID         string   `json:"id"`
		Phone      string   `json:"phone"`
		Badges     []string `json:"badges"`
		TrustScore int      `json:"trustScore"`
	}](t, env.Data)
	require.Len(t, workers, 6)

	_, env = app.do(t, http.MethodGet, "/api/jobs?sort=urgency", nil, "")
	feed := decode[[]jobDTO](t, env.Data)
	require.NotEmpty(t, feed)

	w, env = app.do(t, http.MethodGet, "/api/jobs/"+feed[0].ID+"/matches?limit=3", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	matches := decode[struct {
		Matches []struct {
			Score   int      `json:"score"`
			Reasons []string `json:"reasons"`
		} `json:"matches"`
		Insights struct {
			TotalMatches      int    `json:"totalMatches"`
			EstimatedFillTime string `json:"estimatedFillTime"`
		} `json:"insights"`
	}](t, env.Data)
	assert.LessOrEqual(t, len(matches.Matches), 3)
	assert.Equal(t, len(matches.Matches), matches.Insights.TotalMatches)

	w, _ = app.do(t, http.MethodGet, "/api/jobs/"+feed[0].ID+"/matches?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Обратный подбор по телефону и по ID.
	w, env = app.do(t, http.MethodGet, "/api/match?phone=%2B250788100001", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = app.do(t, http.MethodGet, "/api/match?workerId="+workers[0].ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = app.do(t, http.MethodGet, "/api/match", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	w, _ = app.do(t, http.MethodGet, "/api/match?phone=%2B250700000000", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Обновление показателей пересчитывает значки.
	w, env = app.do(t, http.MethodPut, "/api/workers/"+workers[5].ID+"/stats", map[string]any{
		"jobsCompleted": 60, "responseRate": 98, "avgResponseTime": 3, "reliability": 99,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct {
		Badges     []string `json:"badges"`
		TrustScore int      `json:"trustScore"`
	}](t, env.Data)
	assert.ElementsMatch(t, []string{"reliable", "skilled", "fast", "verified"}, updated.Badges)

	w, _ = app.do(t, http.MethodPut, "/api/workers/"+workers[5].ID+"/stats", map[string]any{
		"jobsCompleted": 1, "responseRate": 120, "avgResponseTime": 3, "reliability": 99,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(t, http.MethodPut, "/api/workers/"+workers[5].ID+"/stats", map[string]any{"jobsCompleted": 1}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorsAndHealth(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = app.do(t, http.MethodGet, "/api/jobs/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = app.do(t, http.MethodGet, "/api/jobs/00000000-0000-0000-0000-000000000001", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	w, env = app.do(t, http.MethodPost, "/api/jobs", map[string]any{
		"title": "Уборка", "workersNeeded": 1, "duration": 1, "durationType": "months",
		"posterName": "Grace", "posterPhone": "+250788200002",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, _ = app.do(t, http.MethodGet, "/api/jobs?sort=random", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(t, http.MethodGet, "/api/ws?jobId=00000000-0000-0000-0000-000000000001&token=bad", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
