package match

import (
	"math"

	"github.com/ignatzorin/postjob-backend/internal/domain/entity"
	"github.com/ignatzorin/postjob-backend/internal/domain/valueobject"
)

const (
	topSkillsCount = 3
	smallPoolSize  = 5
	lowAvgScore    = 50
)

type Insights struct {
	TotalMatches      int      `json:"totalMatches"`
	AvgScore          float64  `json:"avgScore"`
	TopSkills         []string `json:"topSkills"`
	EstimatedFillTime string   `json:"estimatedFillTime"`
	Recommendations   []string `json:"recommendations"`
}

// Analyze подводит итог по найденным кандидатам и подсказывает заказчику,
// что поменять в задании.
func Analyze(job *entity.Job, matches []Result) Insights {
	insights := Insights{
		TotalMatches:      len(matches),
		TopSkills:         topSkills(matches),
		EstimatedFillTime: estimateFillTime(matches),
		Recommendations:   []string{},
	}

	if len(matches) > 0 {
		var sum int
		for _, m := range matches {
			sum += m.Score
		}
		insights.AvgScore = float64(sum) / float64(len(matches))
	}

	if insights.AvgScore < lowAvgScore {
		insights.Recommendations = append(insights.Recommendations, "Consider broadening skill requirements")
	}
	if len(matches) < smallPoolSize {
		insights.Recommendations = append(insights.Recommendations, "Limited worker pool - consider adjusting location or pay")
	}
	if job.WorkersNeeded > len(matches) {
		insights.Recommendations = append(insights.Recommendations, "More workers needed than available matches")
	}

	return insights
}

// topSkills возвращает самые частые навыки среди кандидатов. При равенстве выигрывает встреченный раньше.
func topSkills(matches []Result) []string {
	counts := make(map[valueobject.SkillTag]int)
	var order []valueobject.SkillTag
	for _, m := range matches {
		for _, s := range m.Worker.Skills {
			if _, seen := counts[s]; !seen {
				order = append(order, s)
			}
			counts[s]++
		}
	}

	top := make([]string, 0, topSkillsCount)
	used := make(map[valueobject.SkillTag]bool, topSkillsCount)
	for len(top) < topSkillsCount && len(top) < len(order) {
		var best valueobject.SkillTag
		bestCount := 0
		for _, s := range order {
			if !used[s] && counts[s] > bestCount {
				best, bestCount = s, counts[s]
			}
		}
		used[best] = true
		top = append(top, string(best))
	}
	return top
}

func estimateFillTime(matches []Result) string {
	if len(matches) == 0 {
		return "Unknown"
	}

	var sum float64
	for _, m := range matches {
		sum += m.Worker.Stats.AvgResponseTime
	}
	avg := sum / float64(len(matches))

	switch {
	case avg < 15:
		return "Within 1 hour"
	case avg < 60:
		return "Within 2 hours"
	case avg < 180:
		return "Within 4 hours"
	default:
		return "Within 24 hours"
	}
}

// TrustScore считает сводный показатель доверия для карточки работника.
func TrustScore(worker *entity.Worker) int {
	s := worker.Stats
	score := (s.Reliability*4+s.ResponseRate*3)/10 + math.Min(float64(s.JobsCompleted*3), 30)
	return int(math.Round(score))
}
