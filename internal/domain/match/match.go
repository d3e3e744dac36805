// Package match оценивает, насколько работник подходит заданию, и строит
// ранжированные рекомендации с пояснениями.
package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
	"golang.org/x/text/cases"
)

// Веса факторов в сумме дают 100.
const (
	skillWeight       = 40.0
	locationWeight    = 20.0
	cityWeight        = 10.0
	reliabilityWeight = 15.0
	responseWeight    = 10.0
	experienceWeight  = 10.0
	badgeWeight       = 5.0

	experienceCap = 10

	DefaultLimit = 5
)

type Result struct {
	Worker  *entity.Worker
	Score   int
	Reasons []string
}

type JobResult struct {
	Job     *entity.Job
	Score   int
	Reasons []string
}

// Score возвращает оценку совпадения от 0 до 100.
// Показатели работника должны быть проверены заранее.
func Score(worker *entity.Worker, job *entity.Job) int {
	stats := worker.Stats

	var score float64
	if len(job.Skills) > 0 {
		score += float64(len(matchedSkills(worker, job))) * skillWeight / float64(len(job.Skills))
	}

	switch locationMatch(worker.Location, job.Location) {
	case locationSame:
		score += locationWeight
	case locationSameCity:
		score += cityWeight
	}

	// Умножение перед делением оставляет половинки точными для округления.
	score += stats.Reliability * reliabilityWeight / 100
	score += stats.ResponseRate * responseWeight / 100
	score += float64(min(stats.JobsCompleted, experienceCap)) * experienceWeight / experienceCap
	score += float64(min(len(worker.Badges), valueobject.MaxBadges)) * badgeWeight / valueobject.MaxBadges

	return int(math.Max(0, math.Min(100, math.Round(score))))
}

// TopMatches ранжирует работников, ещё не принявших задание.
// При равной оценке сохраняется исходный порядок.
func TopMatches(workers []*entity.Worker, job *entity.Job, limit int) []Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]Result, 0, len(workers))
	for _, w := range workers {
		if job.HasAccepted(w.ID) {
			continue
		}
		results = append(results, Result{
			Worker:  w,
			Score:   Score(w, job),
			Reasons: Reasons(w, job),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// AllWorkers считает оценки для всех работников независимо от принятия задания.
func AllWorkers(job *entity.Job, workers []*entity.Worker) map[uuid.UUID]int {
	scores := make(map[uuid.UUID]int, len(workers))
	for _, w := range workers {
		scores[w.ID] = Score(w, job)
	}
	return scores
}

// JobsForWorker подбирает открытые задания, которые работник ещё не принял.
func JobsForWorker(worker *entity.Worker, jobs []*entity.Job, limit int) []JobResult {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := make([]JobResult, 0, len(jobs))
	for _, j := range jobs {
		if j.IsClosed() || j.HasAccepted(worker.ID) {
			continue
		}
		results = append(results, JobResult{
			Job:     j,
			Score:   Score(worker, j),
			Reasons: Reasons(worker, j),
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Reasons объясняет оценку человеку.
func Reasons(worker *entity.Worker, job *entity.Job) []string {
	reasons := make([]string, 0, 5)

	if skills := matchedSkills(worker, job); len(skills) > 0 {
		reasons = append(reasons, "Skills match: "+strings.Join(valueobject.SkillStrings(skills), ", "))
	}
	if locationMatch(worker.Location, job.Location) == locationSame {
		reasons = append(reasons, "Same location")
	}
	if worker.Stats.Reliability > 80 {
		reasons = append(reasons, "High reliability score")
	}
	if worker.HasBadge(valueobject.BadgeFast) {
		reasons = append(reasons, "Fast responder")
	}
	if worker.Stats.JobsCompleted > 10 {
		reasons = append(reasons, fmt.Sprintf("%d jobs completed", worker.Stats.JobsCompleted))
	}

	return reasons
}

// matchedSkills возвращает требуемые навыки, которые есть у работника, в порядке задания.
func matchedSkills(worker *entity.Worker, job *entity.Job) []valueobject.SkillTag {
	var matched []valueobject.SkillTag
	for _, s := range job.Skills {
		if worker.HasSkill(s) {
			matched = append(matched, s)
		}
	}
	return matched
}

type locationResult int

const (
	locationNone locationResult = iota
	locationSameCity
	locationSame
)

// locationMatch сравнивает места без учёта регистра. Пустая строка входит в любое место.
func locationMatch(workerLocation, jobLocation string) locationResult {
	fold := cases.Fold()
	w := fold.String(strings.TrimSpace(workerLocation))
	j := fold.String(strings.TrimSpace(jobLocation))
	if strings.Contains(w, j) || strings.Contains(j, w) {
		return locationSame
	}

	wCity := city(w)
	if wCity != "" && wCity == city(j) {
		return locationSameCity
	}
	return locationNone
}

func city(location string) string {
	first, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(first)
}
