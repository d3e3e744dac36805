package match

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorker(skills []valueobject.SkillTag, location string, stats valueobject.WorkerStats) *entity.Worker {
	return &entity.Worker{
		ID:        uuid.New(),
		Name:      "worker",
		Phone:     "+250788" + uuid.NewString()[:6],
		Skills:    skills,
		Location:  location,
		Stats:     stats,
		Badges:    valueobject.DeriveBadges(stats),
		CreatedAt: time.Now(),
	}
}

func newJob(skills []valueobject.SkillTag, location string) *entity.Job {
	return &entity.Job{
		ID:            uuid.New(),
		Status:        valueobject.JobStatusNew,
		WorkersNeeded: 2,
		Duration:      1,
		DurationType:  valueobject.DurationDays,
		Location:      location,
		Skills:        skills,
		AcceptedBy:    []uuid.UUID{},
	}
}

func TestScore_EndToEndExample(t *testing.T) {
	w := newWorker(
		[]valueobject.SkillTag{valueobject.SkillPlumbing, valueobject.SkillElectrical},
		"Kigali",
		valueobject.WorkerStats{Reliability: 90, ResponseRate: 95, JobsCompleted: 25, AvgResponseTime: 5},
	)
	// по показателям значков три, в примере их два
	w.Badges = []valueobject.BadgeType{valueobject.BadgeReliable, valueobject.BadgeSkilled}

	j := newJob([]valueobject.SkillTag{valueobject.SkillPlumbing}, "Kigali")

	assert.Equal(t, 96, Score(w, j))
}

func TestScore_EmptySkillsContributeZero(t *testing.T) {
	w := newWorker([]valueobject.SkillTag{valueobject.SkillPlumbing}, "Huye", valueobject.WorkerStats{})
	j := newJob(nil, "Musanze")

	assert.Equal(t, 0, Score(w, j))
}

func TestScore_Location(t *testing.T) {
	stats := valueobject.WorkerStats{}
	tests := []struct {
		name     string
		worker   string
		job      string
		expected int
	}{
		{"exact ignoring case", "KIGALI", "kigali", 20},
		{"substring", "Kigali, Kimironko", "Kigali", 20},
		{"same city different district", "Kigali, Kimironko", "Kigali, Remera", 10},
		{"different city", "Huye", "Kigali", 0},
		{"empty job location", "Kigali", "", 20},
		{"empty worker location", "  ", "Kigali", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorker(nil, tt.worker, stats)
			j := newJob(nil, tt.job)
			assert.Equal(t, tt.expected, Score(w, j))
		})
	}
}

func TestScore_BoundsAndDeterminism(t *testing.T) {
	values := []float64{0, 33, 50, 79, 80, 99, 100}
	jobs := []int{0, 1, 9, 10, 60}
	j := newJob([]valueobject.SkillTag{valueobject.SkillCleaning, valueobject.SkillCooking, valueobject.SkillDriving}, "Kigali")

	for _, r := range values {
		for _, rr := range values {
			for _, n := range jobs {
				w := newWorker(
					[]valueobject.SkillTag{valueobject.SkillCooking},
					"Kigali, Gasabo",
					valueobject.WorkerStats{Reliability: r, ResponseRate: rr, JobsCompleted: n, AvgResponseTime: 4},
				)
				s := Score(w, j)
				assert.GreaterOrEqual(t, s, 0)
				assert.LessOrEqual(t, s, 100)
				assert.Equal(t, s, Score(w, j))
			}
		}
	}
}

func TestScore_PerfectWorker(t *testing.T) {
	stats := valueobject.WorkerStats{Reliability: 100, ResponseRate: 100, JobsCompleted: 80, AvgResponseTime: 1}
	w := newWorker([]valueobject.SkillTag{valueobject.SkillPlumbing}, "Kigali", stats)
	require.Len(t, w.Badges, 4)

	assert.Equal(t, 100, Score(w, newJob([]valueobject.SkillTag{valueobject.SkillPlumbing}, "Kigali")))
}

func TestTopMatches_ExcludesAcceptedAndKeepsTieOrder(t *testing.T) {
	stats := valueobject.WorkerStats{Reliability: 50, ResponseRate: 50}
	a := newWorker([]valueobject.SkillTag{valueobject.SkillCleaning}, "Kigali", stats)
	b := newWorker([]valueobject.SkillTag{valueobject.SkillCleaning}, "Kigali", stats)
	c := newWorker([]valueobject.SkillTag{valueobject.SkillCleaning}, "Kigali", stats)
	strong := newWorker([]valueobject.SkillTag{valueobject.SkillCleaning}, "Kigali",
		valueobject.WorkerStats{Reliability: 95, ResponseRate: 95, JobsCompleted: 30, AvgResponseTime: 3})
	taken := newWorker([]valueobject.SkillTag{valueobject.SkillCleaning}, "Kigali",
		valueobject.WorkerStats{Reliability: 100, ResponseRate: 100, JobsCompleted: 100, AvgResponseTime: 1})

	j := newJob([]valueobject.SkillTag{valueobject.SkillCleaning}, "Kigali")
	j.AcceptedBy = []uuid.UUID{taken.ID}

	results := TopMatches([]*entity.Worker{a, taken, b, strong, c}, j, 0)

	require.Len(t, results, 4)
	assert.Equal(t, strong.ID, results[0].Worker.ID)
	assert.Equal(t, a.ID, results[1].Worker.ID)
	assert.Equal(t, b.ID, results[2].Worker.ID)
	assert.Equal(t, c.ID, results[3].Worker.ID)
	for _, r := range results {
		assert.NotEqual(t, taken.ID, r.Worker.ID)
	}
}

func TestTopMatches_Limit(t *testing.T) {
	j := newJob([]valueobject.SkillTag{valueobject.SkillDriving}, "Kigali")
	var workers []*entity.Worker
	for i := 0; i < 8; i++ {
		workers = append(workers, newWorker(nil, "Kigali", valueobject.WorkerStats{Reliability: float64(i * 10)}))
	}

	assert.Len(t, TopMatches(workers, j, 0), DefaultLimit)
	assert.Len(t, TopMatches(workers, j, 3), 3)
	assert.Len(t, TopMatches(workers, j, 20), 8)
}

func TestReasons(t *testing.T) {
	w := newWorker(
		[]valueobject.SkillTag{valueobject.SkillElectrical, valueobject.SkillPlumbing},
		"Kigali",
		valueobject.WorkerStats{Reliability: 90, ResponseRate: 95, JobsCompleted: 12, AvgResponseTime: 5},
	)
	j := newJob([]valueobject.SkillTag{valueobject.SkillPlumbing, valueobject.SkillElectrical, valueobject.SkillDriving}, "kigali")

	assert.Equal(t, []string{
		"Skills match: plumbing, electrical",
		"Same location",
		"High reliability score",
		"Fast responder",
		"12 jobs completed",
	}, Reasons(w, j))

	quiet := newWorker(nil, "Huye", valueobject.WorkerStats{Reliability: 80, JobsCompleted: 10})
	assert.Empty(t, Reasons(quiet, j))

	// Пустая строка входит в любую локацию.
	anywhere := newWorker(nil, "", valueobject.WorkerStats{})
	assert.Equal(t, []string{"Same location"}, Reasons(anywhere, j))
	assert.Equal(t, 20, Score(anywhere, j))
}

func TestAllWorkers_IncludesAccepted(t *testing.T) {
	a := newWorker(nil, "Kigali", valueobject.WorkerStats{})
	b := newWorker(nil, "Huye", valueobject.WorkerStats{})
	j := newJob(nil, "Kigali")
	j.AcceptedBy = []uuid.UUID{a.ID}

	scores := AllWorkers(j, []*entity.Worker{a, b})

	assert.Equal(t, map[uuid.UUID]int{a.ID: 20, b.ID: 0}, scores)
}

func TestJobsForWorker(t *testing.T) {
	w := newWorker([]valueobject.SkillTag{valueobject.SkillCooking}, "Kigali", valueobject.WorkerStats{})

	cooking := newJob([]valueobject.SkillTag{valueobject.SkillCooking}, "Kigali")
	driving := newJob([]valueobject.SkillTag{valueobject.SkillDriving}, "Kigali")
	filled := newJob([]valueobject.SkillTag{valueobject.SkillCooking}, "Kigali")
	filled.Status = valueobject.JobStatusFilled
	cancelled := newJob([]valueobject.SkillTag{valueobject.SkillCooking}, "Kigali")
	cancelled.Status = valueobject.JobStatusCancelled
	mine := newJob([]valueobject.SkillTag{valueobject.SkillCooking}, "Kigali")
	mine.AcceptedBy = []uuid.UUID{w.ID}

	results := JobsForWorker(w, []*entity.Job{driving, filled, cancelled, mine, cooking}, 0)

	require.Len(t, results, 2)
	assert.Equal(t, cooking.ID, results[0].Job.ID)
	assert.Equal(t, 60, results[0].Score)
	assert.Equal(t, driving.ID, results[1].Job.ID)
}
